package gesturear

import "time"

// MotionAction is the kind of a raw touch event.
type MotionAction uint8

const (
	ActionDown   MotionAction = iota // first contact of a pointer
	ActionMove                       // pointer moved while down
	ActionUp                         // pointer lifted
	ActionCancel                     // gesture aborted by the host
)

// String returns the action name.
func (a MotionAction) String() string {
	switch a {
	case ActionDown:
		return "down"
	case ActionMove:
		return "move"
	case ActionUp:
		return "up"
	case ActionCancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// MotionEvent is a single raw touch event in screen coordinates.
//
// Time and DownTime are monotonic offsets from an arbitrary origin (the
// scene's uptime clock). DownTime is the Time of the Down event that started
// the current contact.
type MotionEvent struct {
	Action    MotionAction
	PointerID int
	X, Y      float64
	Time      time.Duration
	DownTime  time.Duration
}

// distanceSq returns the squared screen distance between two events.
func distanceSq(a, b MotionEvent) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}
