package gesturear

import "testing"

func TestGestureTypeString(t *testing.T) {
	tests := []struct {
		g    GestureType
		want string
	}{
		{GestureNone, "none"},
		{GestureSingleTap, "single-tap"},
		{GestureDoubleTap, "double-tap"},
		{GestureLongPress, "long-press"},
		{GestureType(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.g.String(); got != tt.want {
			t.Errorf("GestureType(%d).String() = %q, want %q", tt.g, got, tt.want)
		}
	}
}

func TestNewGestureClassifierIsNone(t *testing.T) {
	c := NewGestureClassifier()
	if c.GestureType() != GestureNone {
		t.Errorf("GestureType = %v, want none", c.GestureType())
	}
}

func TestGestureClassifierLatch(t *testing.T) {
	ev := MotionEvent{Action: ActionDown, X: 12, Y: 34}
	tests := []struct {
		name string
		fire func(c *GestureClassifier) bool
		want GestureType
	}{
		{"single tap", func(c *GestureClassifier) bool { return c.OnSingleTapConfirmed(ev) }, GestureSingleTap},
		{"double tap", func(c *GestureClassifier) bool { return c.OnDoubleTap(ev) }, GestureDoubleTap},
		{"long press", func(c *GestureClassifier) bool { c.OnLongPress(ev); return false }, GestureLongPress},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewGestureClassifier()
			if handled := tt.fire(c); handled {
				t.Error("hooks should pass the event through (false)")
			}
			if c.GestureType() != tt.want {
				t.Errorf("GestureType = %v, want %v", c.GestureType(), tt.want)
			}
			if c.Event() != ev {
				t.Errorf("Event = %+v, want %+v", c.Event(), ev)
			}
			c.Reset()
			if c.GestureType() != GestureNone {
				t.Errorf("after Reset GestureType = %v, want none", c.GestureType())
			}
			if c.Event() != (MotionEvent{}) {
				t.Error("Reset should clear the event")
			}
		})
	}
}

func TestGestureClassifierLastWins(t *testing.T) {
	c := NewGestureClassifier()
	c.OnSingleTapConfirmed(MotionEvent{})
	c.OnLongPress(MotionEvent{})
	if c.GestureType() != GestureLongPress {
		t.Errorf("GestureType = %v, want long-press", c.GestureType())
	}
}
