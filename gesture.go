package gesturear

// GestureType is the discrete gesture most recently completed by a
// GestureDetector.
type GestureType uint8

const (
	GestureNone      GestureType = iota // nothing classified since the last reset
	GestureSingleTap                    // a tap not followed by a second tap in the double-tap window
	GestureDoubleTap                    // two taps within the double-tap window
	GestureLongPress                    // a touch held past the long-press timeout without leaving the slop region
)

// String returns the gesture name.
func (g GestureType) String() string {
	switch g {
	case GestureNone:
		return "none"
	case GestureSingleTap:
		return "single-tap"
	case GestureDoubleTap:
		return "double-tap"
	case GestureLongPress:
		return "long-press"
	default:
		return "unknown"
	}
}

// GestureListener receives completed gestures from a GestureDetector. The
// detector calls at most one method per event or timer, synchronously.
type GestureListener interface {
	OnSingleTapConfirmed(ev MotionEvent) bool
	OnDoubleTap(ev MotionEvent) bool
	OnLongPress(ev MotionEvent)
}

// GestureClassifier latches the last gesture reported by a detector until the
// consumer calls Reset. It holds exactly one GestureType at a time.
type GestureClassifier struct {
	gesture GestureType
	event   MotionEvent
}

// NewGestureClassifier returns a classifier holding GestureNone.
func NewGestureClassifier() *GestureClassifier {
	return &GestureClassifier{}
}

// OnSingleTapConfirmed latches GestureSingleTap.
func (c *GestureClassifier) OnSingleTapConfirmed(ev MotionEvent) bool {
	c.latch(GestureSingleTap, ev)
	return false
}

// OnDoubleTap latches GestureDoubleTap.
func (c *GestureClassifier) OnDoubleTap(ev MotionEvent) bool {
	c.latch(GestureDoubleTap, ev)
	return false
}

// OnLongPress latches GestureLongPress.
func (c *GestureClassifier) OnLongPress(ev MotionEvent) {
	c.latch(GestureLongPress, ev)
}

func (c *GestureClassifier) latch(g GestureType, ev MotionEvent) {
	c.gesture = g
	c.event = ev
}

// GestureType returns the latched gesture.
func (c *GestureClassifier) GestureType() GestureType {
	return c.gesture
}

// Event returns the event the detector attached to the latched gesture.
// Only meaningful while GestureType is not GestureNone.
func (c *GestureClassifier) Event() MotionEvent {
	return c.event
}

// Reset clears the latch back to GestureNone. Consumers must call it after
// every dispatch decision so a stale gesture is not seen again on the next
// event that produces no new classification.
func (c *GestureClassifier) Reset() {
	c.gesture = GestureNone
	c.event = MotionEvent{}
}
