package gesturear

// syntheticPointerEvent represents a single injected pointer event in screen
// coordinates. Injected events drive pointer 0, exactly like the mouse.
type syntheticPointerEvent struct {
	x, y    float64
	pressed bool
}

// InjectPress queues a finger press at the given screen coordinates.
// The event is consumed on the next frame's processInput call.
func (s *Scene) InjectPress(x, y float64) {
	s.injectQueue = append(s.injectQueue, syntheticPointerEvent{x: x, y: y, pressed: true})
}

// InjectMove queues a move with the finger held down. Use this between
// InjectPress and InjectRelease to simulate a drag.
func (s *Scene) InjectMove(x, y float64) {
	s.injectQueue = append(s.injectQueue, syntheticPointerEvent{x: x, y: y, pressed: true})
}

// InjectRelease queues a finger release at the given screen coordinates.
func (s *Scene) InjectRelease(x, y float64) {
	s.injectQueue = append(s.injectQueue, syntheticPointerEvent{x: x, y: y, pressed: false})
}

// InjectTap is a convenience that queues a press followed by a release
// at the same screen coordinates. Consumes two frames.
func (s *Scene) InjectTap(x, y float64) {
	s.InjectPress(x, y)
	s.InjectRelease(x, y)
}

// InjectDoubleTap queues two taps at the same coordinates separated by three
// idle frames, so the gap between them falls inside the double-tap window at
// 60 TPS. Consumes seven frames.
func (s *Scene) InjectDoubleTap(x, y float64) {
	s.InjectTap(x, y)
	for i := 0; i < 3; i++ {
		s.InjectRelease(x, y)
	}
	s.InjectTap(x, y)
}

// InjectHold queues a press, frames-2 stationary held frames, and a release.
// At 60 TPS, 30 frames is a half-second hold. Minimum frames is 2.
func (s *Scene) InjectHold(x, y float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	s.InjectPress(x, y)
	for i := 0; i < frames-2; i++ {
		s.InjectMove(x, y)
	}
	s.InjectRelease(x, y)
}

// InjectDrag queues a full drag sequence: press at (fromX, fromY),
// linearly interpolated moves over frames-2 intermediate frames, and
// release at (toX, toY). The total sequence consumes `frames` frames.
// Minimum frames is 2 (press + release).
func (s *Scene) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	s.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		x := fromX + (toX-fromX)*t
		y := fromY + (toY-fromY)*t
		s.InjectMove(x, y)
	}
	s.InjectRelease(toX, toY)
}

// PendingInjections returns the number of queued synthetic events.
func (s *Scene) PendingInjections() int {
	return len(s.injectQueue)
}

// processInjectedInput pops one event from the inject queue and feeds it
// through processPointer. Returns true if an event was consumed (real mouse
// and touch input are skipped for that frame).
func (s *Scene) processInjectedInput() bool {
	if len(s.injectQueue) == 0 {
		return false
	}
	evt := s.injectQueue[0]
	copy(s.injectQueue, s.injectQueue[1:])
	s.injectQueue = s.injectQueue[:len(s.injectQueue)-1]

	s.processPointer(0, evt.x, evt.y, evt.pressed)
	return true
}
