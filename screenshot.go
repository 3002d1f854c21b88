package gesturear

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hajimehoshi/ebiten/v2"
)

// Capture queues a labeled capture of the next drawn frame. The PNG is written
// to CaptureDir when Draw finishes. Safe to call from Update or Draw.
func (s *Scene) Capture(label string) {
	s.captureQueue = append(s.captureQueue, label)
}

// PendingCaptures returns the number of queued captures.
func (s *Scene) PendingCaptures() int {
	return len(s.captureQueue)
}

// flushCaptures writes the rendered frame once per queued label. Called at
// the end of Scene.Draw.
func (s *Scene) flushCaptures(screen *ebiten.Image) {
	if len(s.captureQueue) == 0 {
		return
	}
	defer func() { s.captureQueue = s.captureQueue[:0] }()

	if err := os.MkdirAll(s.CaptureDir, 0o755); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "[gesturear] capture: mkdir %s: %v\n", s.CaptureDir, err)
		return
	}

	img := unpremultiply(screen)
	stamp := time.Now().Format("20060102_150405")
	for _, label := range s.captureQueue {
		path := capturePath(s.CaptureDir, stamp, label)
		if err := writePNG(path, img); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "[gesturear] capture: %v\n", err)
		}
	}
}

// capturePath builds a unique file name for a capture. Captures taken in the
// same second are told apart by a short random suffix.
func capturePath(dir, stamp, label string) string {
	id := uuid.NewString()[:8]
	return filepath.Join(dir, fmt.Sprintf("%s_%s_%s.png", stamp, sanitizeLabel(label), id))
}

// unpremultiply reads screen back into a straight-alpha image.
func unpremultiply(screen *ebiten.Image) *image.NRGBA {
	b := screen.Bounds()
	w, h := b.Dx(), b.Dy()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	screen.ReadPixels(img.Pix)
	px := img.Pix
	for i := 0; i < len(px); i += 4 {
		a := px[i+3]
		if a > 0 && a < 255 {
			px[i] = uint8(min(int(px[i])*255/int(a), 255))
			px[i+1] = uint8(min(int(px[i+1])*255/int(a), 255))
			px[i+2] = uint8(min(int(px[i+2])*255/int(a), 255))
		}
	}
	return img
}

// writePNG encodes an image to a PNG file at the given path.
func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// sanitizeLabel replaces characters that are unsafe in file names with
// underscores and falls back to "unlabeled" for empty strings.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			return r
		}
		return '_'
	}, label)
}
