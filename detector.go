package gesturear

import "time"

// GestureConfig holds the recognizer timing and distance thresholds.
type GestureConfig struct {
	// TapTimeout is how long a contact may stay down and still count as a
	// tap for plane placement.
	TapTimeout time.Duration
	// DoubleTapTimeout is the window after a down in which a second down
	// makes a double tap. A single tap is confirmed when it elapses.
	DoubleTapTimeout time.Duration
	// DoubleTapMinTime rejects second taps that follow the first up too
	// quickly (usually a bounce).
	DoubleTapMinTime time.Duration
	// LongPressTimeout is how long a contact must be held to long-press.
	LongPressTimeout time.Duration
	// TouchSlop is the distance in pixels a contact may wander and still be
	// a tap or long press.
	TouchSlop float64
	// DoubleTapSlop is the maximum distance in pixels between the first and
	// second down of a double tap.
	DoubleTapSlop float64
}

// DefaultGestureConfig returns the stock thresholds used by touch platforms.
func DefaultGestureConfig() GestureConfig {
	return GestureConfig{
		TapTimeout:       100 * time.Millisecond,
		DoubleTapTimeout: 300 * time.Millisecond,
		DoubleTapMinTime: 40 * time.Millisecond,
		LongPressTimeout: 400 * time.Millisecond,
		TouchSlop:        8,
		DoubleTapSlop:    100,
	}
}

// GestureDetector turns a raw MotionEvent stream into single tap, double tap
// and long press notifications.
//
// Timing is driven entirely by event timestamps: pending timers fire when
// OnTouchEvent or Advance is called with a time at or past their deadline.
// Call Advance once per frame so that single taps are confirmed and long
// presses recognized without further input. Only the pointer that started the
// contact is tracked; a second pointer going down cancels pending taps.
type GestureDetector struct {
	listener GestureListener
	cfg      GestureConfig

	now time.Duration

	pointerID      int
	currentDown    MotionEvent
	previousUp     MotionEvent
	hasCurrentDown bool
	hasPreviousUp  bool

	stillDown               bool
	inLongPress             bool
	isDoubleTapping         bool
	deferConfirmSingleTap   bool
	alwaysInTapRegion       bool
	alwaysInBiggerTapRegion bool

	tapPending        bool
	tapDeadline       time.Duration
	longPressPending  bool
	longPressDeadline time.Duration
}

// NewGestureDetector creates a detector that reports to listener.
// Panics if listener is nil.
func NewGestureDetector(listener GestureListener, cfg GestureConfig) *GestureDetector {
	if listener == nil {
		panic("gesturear: nil gesture listener")
	}
	return &GestureDetector{
		listener: listener,
		cfg:      cfg,
	}
}

// Now returns the latest time the detector has observed.
func (d *GestureDetector) Now() time.Duration {
	return d.now
}

// Advance fires every pending timer whose deadline is at or before now, in
// deadline order.
func (d *GestureDetector) Advance(now time.Duration) {
	for {
		tapDue := d.tapPending && d.tapDeadline <= now
		longDue := d.longPressPending && d.longPressDeadline <= now
		if !tapDue && !longDue {
			break
		}
		if tapDue && (!longDue || d.tapDeadline <= d.longPressDeadline) {
			d.fireTap()
		} else {
			d.fireLongPress()
		}
	}
	if now > d.now {
		d.now = now
	}
}

// OnTouchEvent feeds one raw event to the detector. Timers due at ev.Time
// fire first. Returns true if a listener reported the event handled.
func (d *GestureDetector) OnTouchEvent(ev MotionEvent) bool {
	d.Advance(ev.Time)
	switch ev.Action {
	case ActionDown:
		return d.onDown(ev)
	case ActionMove:
		return d.onMove(ev)
	case ActionUp:
		return d.onUp(ev)
	case ActionCancel:
		d.cancel()
	}
	return false
}

func (d *GestureDetector) onDown(ev MotionEvent) bool {
	if d.stillDown && ev.PointerID != d.pointerID {
		// Multi-touch is not a tap of any kind.
		d.cancelTaps()
		return false
	}

	handled := false
	hadTap := d.tapPending
	d.tapPending = false
	if d.hasCurrentDown && d.hasPreviousUp && hadTap &&
		d.isConsideredDoubleTap(d.currentDown, d.previousUp, ev) {
		d.isDoubleTapping = true
		handled = d.listener.OnDoubleTap(d.currentDown)
	} else {
		d.tapPending = true
		d.tapDeadline = ev.Time + d.cfg.DoubleTapTimeout
	}

	d.currentDown = ev
	d.hasCurrentDown = true
	d.pointerID = ev.PointerID
	d.alwaysInTapRegion = true
	d.alwaysInBiggerTapRegion = true
	d.stillDown = true
	d.inLongPress = false
	d.deferConfirmSingleTap = false

	d.longPressPending = true
	d.longPressDeadline = ev.Time + d.cfg.LongPressTimeout
	return handled
}

func (d *GestureDetector) onMove(ev MotionEvent) bool {
	if !d.stillDown || ev.PointerID != d.pointerID || d.inLongPress {
		return false
	}
	if d.alwaysInTapRegion {
		dist := distanceSq(ev, d.currentDown)
		slop := d.cfg.TouchSlop * d.cfg.TouchSlop
		if dist > slop {
			d.alwaysInTapRegion = false
			d.alwaysInBiggerTapRegion = false
			d.tapPending = false
			d.longPressPending = false
		}
	}
	return false
}

func (d *GestureDetector) onUp(ev MotionEvent) bool {
	if !d.stillDown || ev.PointerID != d.pointerID {
		return false
	}
	d.stillDown = false

	handled := false
	switch {
	case d.isDoubleTapping:
		// Reported on the second down.
	case d.inLongPress:
		d.tapPending = false
		d.inLongPress = false
	case d.alwaysInTapRegion && d.deferConfirmSingleTap:
		handled = d.listener.OnSingleTapConfirmed(ev)
	}

	d.previousUp = ev
	d.hasPreviousUp = true
	d.isDoubleTapping = false
	d.deferConfirmSingleTap = false
	d.longPressPending = false
	return handled
}

func (d *GestureDetector) cancel() {
	d.tapPending = false
	d.longPressPending = false
	d.isDoubleTapping = false
	d.stillDown = false
	d.alwaysInTapRegion = false
	d.alwaysInBiggerTapRegion = false
	d.deferConfirmSingleTap = false
	d.inLongPress = false
}

func (d *GestureDetector) cancelTaps() {
	d.tapPending = false
	d.longPressPending = false
	d.isDoubleTapping = false
	d.alwaysInTapRegion = false
	d.alwaysInBiggerTapRegion = false
	d.deferConfirmSingleTap = false
	d.inLongPress = false
}

// isConsideredDoubleTap reports whether secondDown completes a double tap
// started by firstDown/firstUp.
func (d *GestureDetector) isConsideredDoubleTap(firstDown, firstUp, secondDown MotionEvent) bool {
	if !d.alwaysInBiggerTapRegion {
		return false
	}
	gap := secondDown.Time - firstUp.Time
	if gap > d.cfg.DoubleTapTimeout || gap < d.cfg.DoubleTapMinTime {
		return false
	}
	return distanceSq(firstDown, secondDown) < d.cfg.DoubleTapSlop*d.cfg.DoubleTapSlop
}

func (d *GestureDetector) fireTap() {
	d.tapPending = false
	if !d.stillDown {
		d.listener.OnSingleTapConfirmed(d.currentDown)
		return
	}
	d.deferConfirmSingleTap = true
}

func (d *GestureDetector) fireLongPress() {
	d.longPressPending = false
	d.tapPending = false
	d.deferConfirmSingleTap = false
	d.inLongPress = true
	d.listener.OnLongPress(d.currentDown)
}
