package gesturear

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// --- Constants ---

const maxPointers = 10 // pointer 0 = mouse, 1-9 = touch

// --- Per-pointer state ---

type pointerState struct {
	down     bool
	downTime time.Duration
	lastX    float64
	lastY    float64
}

// --- Input processing ---

// processInput is called from Scene.Update() to turn mouse, touch and
// injected input into MotionEvents.
func (s *Scene) processInput() {
	if s.processInjectedInput() {
		return
	}
	s.processMousePointer()
	s.processTouchPointers()
}

// processMousePointer handles mouse input (pointer 0). Only the left button
// acts as a finger.
func (s *Scene) processMousePointer() {
	mx, my := ebiten.CursorPosition()
	pressed := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	s.processPointer(0, float64(mx), float64(my), pressed)
}

// processTouchPointers handles touch input (pointers 1-9).
func (s *Scene) processTouchPointers() {
	touchIDs := ebiten.AppendTouchIDs(s.prevTouchIDs[:0])
	s.prevTouchIDs = touchIDs

	// Mark all touch slots as unused this frame.
	var activeSlots [maxPointers]bool
	for _, tid := range touchIDs {
		slot := s.touchSlot(tid)
		if slot < 0 {
			continue
		}
		activeSlots[slot] = true

		tx, ty := ebiten.TouchPosition(tid)
		s.processPointer(slot, float64(tx), float64(ty), true)
	}

	// Release any touch slots that are no longer active.
	for i := 1; i < maxPointers; i++ {
		if s.touchUsed[i] && !activeSlots[i] {
			ps := &s.pointers[i]
			if ps.down {
				s.processPointer(i, ps.lastX, ps.lastY, false)
			}
			s.touchUsed[i] = false
			s.touchMap[i] = 0
		}
	}
}

// touchSlot maps an ebiten.TouchID to a pointer slot (1-9).
// Returns the existing slot or allocates a new one. Returns -1 if full.
func (s *Scene) touchSlot(tid ebiten.TouchID) int {
	// Check existing mapping.
	for i := 1; i < maxPointers; i++ {
		if s.touchUsed[i] && s.touchMap[i] == tid {
			return i
		}
	}
	// Allocate new slot.
	for i := 1; i < maxPointers; i++ {
		if !s.touchUsed[i] {
			s.touchUsed[i] = true
			s.touchMap[i] = tid
			return i
		}
	}
	return -1
}

// processPointer diffs one pointer against its previous state and dispatches
// the resulting down, move or up event.
func (s *Scene) processPointer(pointerID int, x, y float64, pressed bool) {
	ps := &s.pointers[pointerID]
	ev := MotionEvent{PointerID: pointerID, X: x, Y: y, Time: s.now}

	switch {
	case pressed && !ps.down:
		ps.down = true
		ps.downTime = s.now
		ev.Action = ActionDown
	case !pressed && ps.down:
		ps.down = false
		ev.Action = ActionUp
	case pressed && ps.down:
		if x == ps.lastX && y == ps.lastY {
			return
		}
		ev.Action = ActionMove
	default:
		// Hover: not a touch.
		ps.lastX, ps.lastY = x, y
		return
	}
	ev.DownTime = ps.downTime
	ps.lastX, ps.lastY = x, y
	s.DispatchTouch(ev)
}

