package gesturear

import (
	"fmt"
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at render submission time.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default tint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// toRGBA converts to a premultiplied color.RGBA.
func (c Color) toRGBA() color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Size is an image size in pixels.
type Size struct {
	Width, Height int
}

// String formats the size as "WxH", e.g. "640x480".
func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Pose is a rigid transform in world space: a translation followed by a
// rotation. Anchors and plane hits are expressed as poses.
type Pose struct {
	Translation mgl64.Vec3
	Rotation    mgl64.Quat
}

// IdentityPose returns a pose at the origin with no rotation.
func IdentityPose() Pose {
	return Pose{Rotation: mgl64.QuatIdent()}
}

// NewPose returns a pose at t with rotation r.
func NewPose(t mgl64.Vec3, r mgl64.Quat) Pose {
	return Pose{Translation: t, Rotation: r}
}

// Matrix returns the pose as a 4x4 transform.
func (p Pose) Matrix() mgl64.Mat4 {
	return mgl64.Translate3D(p.Translation.X(), p.Translation.Y(), p.Translation.Z()).
		Mul4(p.Rotation.Normalize().Mat4())
}

// Ray is a half-line in world space. Direction is normalized.
type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// whitePixelImage is a 1x1 white image used for solid color quads. Created on
// first draw so that importing the package never touches the graphics driver.
var whitePixelImage *ebiten.Image

func whitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(ColorWhite.toRGBA())
	}
	return whitePixelImage
}
