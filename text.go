package gesturear

import (
	"bytes"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// Font wraps Ebitengine's text/v2 for label and notice text.
type Font struct {
	face *text.GoTextFace
	lh   float64 // cached line height
}

// LoadFont loads a TrueType or OpenType font from raw data at the given pixel
// size.
func LoadFont(ttfData []byte, size float64) (*Font, error) {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(ttfData))
	if err != nil {
		return nil, fmt.Errorf("gesturear: failed to parse font data: %w", err)
	}
	face := &text.GoTextFace{Source: source, Size: size}

	m := face.Metrics()
	return &Font{face: face, lh: m.HAscent + m.HDescent + m.HLineGap}, nil
}

// MeasureString returns the width and height of the rendered text.
func (f *Font) MeasureString(s string) (width, height float64) {
	return text.Measure(s, f.face, f.lh)
}

// LineHeight returns the vertical distance between baselines.
func (f *Font) LineHeight() float64 {
	return f.lh
}

// Size returns the font size in pixels.
func (f *Font) Size() float64 {
	return f.face.Size
}

// defaultFonts caches Go Regular faces by size. Only touched from the game
// loop.
var defaultFonts = map[float64]*Font{}

// DefaultFont returns Go Regular at the given size.
func DefaultFont(size float64) *Font {
	if f, ok := defaultFonts[size]; ok {
		return f
	}
	f, err := LoadFont(goregular.TTF, size)
	if err != nil {
		panic(err) // embedded font
	}
	defaultFonts[size] = f
	return f
}

// defaultTextSize is the pixel size of label and toast text when no font is
// configured.
const defaultTextSize = 14

// fontOrDefault returns f, or Go Regular at defaultTextSize when f is nil.
func fontOrDefault(f *Font) *Font {
	if f != nil {
		return f
	}
	return DefaultFont(defaultTextSize)
}

// drawText draws s with its top-left corner at (x, y).
func drawText(dst *ebiten.Image, s string, f *Font, x, y float64, c Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.Scale(float32(c.R*c.A), float32(c.G*c.A), float32(c.B*c.A), float32(c.A))
	op.LineSpacing = f.lh
	text.Draw(dst, s, f.face, op)
}
