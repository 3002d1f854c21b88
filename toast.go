package gesturear

import "github.com/hajimehoshi/ebiten/v2"

// ToastDuration selects how long a toast stays on screen.
type ToastDuration uint8

const (
	ToastShort ToastDuration = iota // 2 seconds
	ToastLong                       // 3.5 seconds
)

// Seconds returns the display time.
func (d ToastDuration) Seconds() float64 {
	if d == ToastLong {
		return 3.5
	}
	return 2
}

// Toaster shows short user-visible notices.
type Toaster interface {
	Show(msg string, d ToastDuration)
}

type toast struct {
	msg      string
	duration ToastDuration
}

// ToastLayer is a Toaster drawn over the scene. Toasts are shown one at a
// time in the order they were posted.
type ToastLayer struct {
	// MaxQueued bounds the backlog; older pending toasts are dropped first.
	MaxQueued int
	// Font draws the message. Nil uses Go Regular.
	Font *Font

	queue   []toast
	current *toast
	elapsed float64
}

// NewToastLayer creates an empty layer.
func NewToastLayer() *ToastLayer {
	return &ToastLayer{MaxQueued: 8}
}

// Show queues msg.
func (l *ToastLayer) Show(msg string, d ToastDuration) {
	l.queue = append(l.queue, toast{msg: msg, duration: d})
	if l.MaxQueued > 0 && len(l.queue) > l.MaxQueued {
		drop := len(l.queue) - l.MaxQueued
		copy(l.queue, l.queue[drop:])
		l.queue = l.queue[:l.MaxQueued]
	}
	if l.current == nil {
		l.next()
	}
}

// Current returns the visible toast message, if any.
func (l *ToastLayer) Current() (string, bool) {
	if l.current == nil {
		return "", false
	}
	return l.current.msg, true
}

// Pending returns the number of toasts waiting behind the visible one.
func (l *ToastLayer) Pending() int {
	return len(l.queue)
}

// Update advances the visible toast's timer by dt seconds.
func (l *ToastLayer) Update(dt float64) {
	if l.current == nil {
		return
	}
	l.elapsed += dt
	if l.elapsed >= l.current.duration.Seconds() {
		l.next()
	}
}

func (l *ToastLayer) next() {
	l.elapsed = 0
	if len(l.queue) == 0 {
		l.current = nil
		return
	}
	t := l.queue[0]
	copy(l.queue, l.queue[1:])
	l.queue = l.queue[:len(l.queue)-1]
	l.current = &t
}

// Draw renders the visible toast centered near the bottom of screen.
func (l *ToastLayer) Draw(screen *ebiten.Image) {
	if l.current == nil {
		return
	}
	font := fontOrDefault(l.Font)
	tw, th := font.MeasureString(l.current.msg)
	b := screen.Bounds()
	w, h := tw+24, th+12
	x := float64(b.Min.X) + (float64(b.Dx())-w)/2
	y := float64(b.Max.Y) - h - 48

	var op ebiten.DrawImageOptions
	op.GeoM.Scale(w, h)
	op.GeoM.Translate(x, y)
	op.ColorScale.Scale(0.15*0.8, 0.15*0.8, 0.15*0.8, 0.8)
	screen.DrawImage(whitePixel(), &op)
	drawText(screen, l.current.msg, font, x+12, y+6, ColorWhite)
}
