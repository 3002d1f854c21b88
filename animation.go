package gesturear

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// AnimatorState is the playback state of a ModelAnimator.
type AnimatorState uint8

const (
	AnimatorIdle    AnimatorState = iota // never started
	AnimatorRunning                      // advancing on Update
	AnimatorPaused                       // started, frozen until Resume
	AnimatorEnded                        // finished or cancelled
)

// AnimatorListener receives animator lifecycle notifications. Nil hooks are
// skipped.
type AnimatorListener struct {
	OnStart  func(a *ModelAnimator)
	OnEnd    func(a *ModelAnimator)
	OnCancel func(a *ModelAnimator)
	OnRepeat func(a *ModelAnimator)
}

// ModelAnimator plays an idle loop on a model node: one full turn about the
// node's Y axis with a gentle vertical bob per cycle. The cycle phase is a
// gween tween from 0 to 1.
//
// There is no global animation manager. Callers call Update themselves.
type ModelAnimator struct {
	// Duration is the length of one cycle in seconds.
	Duration float32
	// Looping restarts the cycle when it finishes, firing OnRepeat.
	Looping bool
	// BobHeight is the peak vertical offset in the parent's units.
	BobHeight float64

	node      *Node
	base      mgl64.Vec3
	baseRot   mgl64.Quat
	tween     *gween.Tween
	state     AnimatorState
	repeats   int
	listeners []AnimatorListener
}

// NewModelAnimator creates an idle animator for node. It does nothing until
// Start is called.
func NewModelAnimator(node *Node, duration float32, looping bool) *ModelAnimator {
	return &ModelAnimator{
		Duration:  duration,
		Looping:   looping,
		BobHeight: 0.02,
		node:      node,
	}
}

// AddListener registers lifecycle hooks. Hooks fire in registration order.
func (a *ModelAnimator) AddListener(l AnimatorListener) {
	a.listeners = append(a.listeners, l)
}

// State returns the animator's playback state.
func (a *ModelAnimator) State() AnimatorState {
	return a.state
}

// IsRunning reports whether the animator is advancing.
func (a *ModelAnimator) IsRunning() bool {
	return a.state == AnimatorRunning
}

// IsPaused reports whether the animator was paused mid-cycle.
func (a *ModelAnimator) IsPaused() bool {
	return a.state == AnimatorPaused
}

// Repeats returns how many cycles have completed and restarted.
func (a *ModelAnimator) Repeats() int {
	return a.repeats
}

// Start begins the animation from the first frame and fires OnStart.
// Starting a paused animator resumes it instead; starting a running one is a
// no-op.
func (a *ModelAnimator) Start() {
	switch a.state {
	case AnimatorRunning:
		return
	case AnimatorPaused:
		a.Resume()
		return
	}
	a.base = a.node.LocalPosition()
	a.baseRot = a.node.LocalRotation()
	a.tween = gween.New(0, 1, a.Duration, ease.Linear)
	a.repeats = 0
	a.state = AnimatorRunning
	for _, l := range a.listeners {
		if l.OnStart != nil {
			l.OnStart(a)
		}
	}
}

// Pause freezes a running animator.
func (a *ModelAnimator) Pause() {
	if a.state == AnimatorRunning {
		a.state = AnimatorPaused
	}
}

// Resume continues a paused animator from where it stopped.
func (a *ModelAnimator) Resume() {
	if a.state == AnimatorPaused {
		a.state = AnimatorRunning
	}
}

// Cancel stops the animation where it is, firing OnCancel then OnEnd.
func (a *ModelAnimator) Cancel() {
	if a.state != AnimatorRunning && a.state != AnimatorPaused {
		return
	}
	a.state = AnimatorEnded
	for _, l := range a.listeners {
		if l.OnCancel != nil {
			l.OnCancel(a)
		}
	}
	a.fireEnd()
}

// End jumps to the final frame and fires OnEnd.
func (a *ModelAnimator) End() {
	if a.state != AnimatorRunning && a.state != AnimatorPaused {
		return
	}
	a.apply(1)
	a.state = AnimatorEnded
	a.fireEnd()
}

// Update advances the cycle by dt seconds and writes the pose to the node.
func (a *ModelAnimator) Update(dt float32) {
	if a.state != AnimatorRunning {
		return
	}
	if a.node.IsDisposed() {
		a.Cancel()
		return
	}
	phase, finished := a.tween.Update(dt)
	a.apply(float64(phase))
	if !finished {
		return
	}
	if !a.Looping {
		a.state = AnimatorEnded
		a.fireEnd()
		return
	}
	a.tween.Reset()
	a.repeats++
	for _, l := range a.listeners {
		if l.OnRepeat != nil {
			l.OnRepeat(a)
		}
	}
}

// apply writes the pose for phase in [0, 1].
func (a *ModelAnimator) apply(phase float64) {
	angle := phase * 2 * math.Pi
	bob := math.Sin(angle) * a.BobHeight
	a.node.SetLocalPosition(a.base.Add(mgl64.Vec3{0, bob, 0}))
	spin := mgl64.QuatRotate(angle, mgl64.Vec3{0, 1, 0})
	a.node.SetLocalRotation(a.baseRot.Mul(spin))
}

func (a *ModelAnimator) fireEnd() {
	for _, l := range a.listeners {
		if l.OnEnd != nil {
			l.OnEnd(a)
		}
	}
}
