package gesturear

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Camera is a perspective pinhole camera looking at the scene. It maps screen
// coordinates to world rays for hit testing and world points back to the
// screen for drawing.
type Camera struct {
	// Eye is the camera position in world space.
	Eye mgl64.Vec3
	// Target is the world point the camera looks at.
	Target mgl64.Vec3
	// Up is the world up direction.
	Up mgl64.Vec3
	// FovY is the vertical field of view in radians.
	FovY float64
	// Near and Far are the clip plane distances.
	Near, Far float64
	// Viewport is the screen-space rectangle this camera renders into.
	Viewport Rect
}

// newCamera creates a camera 1.4 m above the origin looking down at the
// default floor plane.
func newCamera(viewport Rect) *Camera {
	return &Camera{
		Eye:      mgl64.Vec3{0, 1.4, 0.5},
		Target:   mgl64.Vec3{0, 0, -1.5},
		Up:       mgl64.Vec3{0, 1, 0},
		FovY:     mgl64.DegToRad(60),
		Near:     0.05,
		Far:      100,
		Viewport: viewport,
	}
}

// ViewMatrix returns the world-to-camera transform.
func (c *Camera) ViewMatrix() mgl64.Mat4 {
	return mgl64.LookAtV(c.Eye, c.Target, c.Up)
}

// ProjectionMatrix returns the camera-to-clip transform.
func (c *Camera) ProjectionMatrix() mgl64.Mat4 {
	aspect := 1.0
	if c.Viewport.Height > 0 {
		aspect = c.Viewport.Width / c.Viewport.Height
	}
	return mgl64.Perspective(c.FovY, aspect, c.Near, c.Far)
}

// WorldToScreen projects a world point to screen coordinates. ok is false
// when the point is behind the camera.
func (c *Camera) WorldToScreen(p mgl64.Vec3) (x, y float64, ok bool) {
	clip := c.ProjectionMatrix().Mul4(c.ViewMatrix()).Mul4x1(p.Vec4(1))
	if clip.W() <= 0 {
		return 0, 0, false
	}
	ndcX := clip.X() / clip.W()
	ndcY := clip.Y() / clip.W()
	vp := c.Viewport
	x = vp.X + (ndcX+1)/2*vp.Width
	y = vp.Y + (1-ndcY)/2*vp.Height
	return x, y, true
}

// ScreenToRay returns the world ray through screen point (sx, sy).
func (c *Camera) ScreenToRay(sx, sy float64) Ray {
	vp := c.Viewport
	ndcX := 2*(sx-vp.X)/vp.Width - 1
	ndcY := 1 - 2*(sy-vp.Y)/vp.Height
	inv := c.ProjectionMatrix().Mul4(c.ViewMatrix()).Inv()
	near := inv.Mul4x1(mgl64.Vec4{ndcX, ndcY, -1, 1})
	far := inv.Mul4x1(mgl64.Vec4{ndcX, ndcY, 1, 1})
	n := near.Vec3().Mul(1 / near.W())
	f := far.Vec3().Mul(1 / far.W())
	return Ray{Origin: n, Direction: f.Sub(n).Normalize()}
}

// ScreenRadius returns the on-screen radius in pixels of a sphere of the
// given world radius centered at p.
func (c *Camera) ScreenRadius(p mgl64.Vec3, radius float64) float64 {
	dist := p.Sub(c.Eye).Len()
	if dist <= 0 {
		return 0
	}
	focal := c.Viewport.Height / 2 / math.Tan(c.FovY/2)
	return radius / dist * focal
}
