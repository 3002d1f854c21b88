package gesturear

import (
	"encoding/json"
	"errors"
	"fmt"
)

// scriptAction names a step in a touch script.
type scriptAction string

const (
	actionTap       scriptAction = "tap"
	actionDoubleTap scriptAction = "doubletap"
	actionHold      scriptAction = "hold"
	actionDrag      scriptAction = "drag"
	actionWait      scriptAction = "wait"
	actionReady     scriptAction = "ready"
	actionCapture   scriptAction = "capture"
)

// scriptStep is one entry of a touch script. Which fields are read depends on
// Action.
type scriptStep struct {
	Action scriptAction `json:"action"`
	X      float64      `json:"x,omitempty"`
	Y      float64      `json:"y,omitempty"`
	FromX  float64      `json:"fromX,omitempty"`
	FromY  float64      `json:"fromY,omitempty"`
	ToX    float64      `json:"toX,omitempty"`
	ToY    float64      `json:"toY,omitempty"`
	Frames int          `json:"frames,omitempty"`
	Label  string       `json:"label,omitempty"`
}

func (st scriptStep) validate() error {
	switch st.Action {
	case actionTap, actionDoubleTap:
		return nil
	case actionHold, actionWait:
		if st.Frames < 1 {
			return fmt.Errorf("%s needs frames >= 1", st.Action)
		}
	case actionDrag:
		if st.Frames < 2 {
			return fmt.Errorf("drag needs frames >= 2")
		}
	case actionReady:
		if st.Frames < 0 {
			return fmt.Errorf("ready timeout must not be negative")
		}
	case actionCapture:
		if st.Label == "" {
			return fmt.Errorf("capture needs a label")
		}
	default:
		return fmt.Errorf("unknown action %q", st.Action)
	}
	return nil
}

// ErrScriptTimeout is reported by TestRunner.Err when a ready step gives up.
var ErrScriptTimeout = errors.New("gesturear: script timed out")

// TestRunner replays a touch script against a scene, one step per frame once
// the previous step's injected events have been consumed.
//
// Steps:
//
//	tap        x, y
//	doubletap  x, y
//	hold       x, y, frames
//	drag       fromX, fromY, toX, toY, frames
//	wait       frames
//	ready      [frames]  block until Ready reports true; frames is a timeout
//	capture    label
type TestRunner struct {
	// Ready gates ready steps. A nil Ready lets them pass at once.
	Ready func() bool
	// ExitWhenDone makes App.Update stop the game when the script ends.
	ExitWhenDone bool

	steps     []scriptStep
	cursor    int
	waitCount int
	blocked   int // frames spent in the current ready step
	done      bool
	err       error
}

// LoadTestScript parses and validates a JSON touch script of the form
// {"steps": [...]}.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script struct {
		Steps []scriptStep `json:"steps"`
	}
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, errors.New("parse test script: no steps")
	}
	for i, st := range script.Steps {
		if err := st.validate(); err != nil {
			return nil, fmt.Errorf("parse test script: step %d: %w", i, err)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

// SetTestRunner attaches runner to the scene. It is stepped from Update
// before input is processed.
func (s *Scene) SetTestRunner(runner *TestRunner) {
	s.testRunner = runner
}

// Done reports whether the script has finished or given up.
func (r *TestRunner) Done() bool {
	return r.done
}

// Err returns why the script gave up, or nil.
func (r *TestRunner) Err() error {
	return r.err
}

func (r *TestRunner) step(s *Scene) {
	if r.done || len(s.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	if st.Action == actionReady && !r.gateOpen(st) {
		return
	}
	r.cursor++

	switch st.Action {
	case actionTap:
		s.InjectTap(st.X, st.Y)
	case actionDoubleTap:
		s.InjectDoubleTap(st.X, st.Y)
	case actionHold:
		s.InjectHold(st.X, st.Y, st.Frames)
	case actionDrag:
		s.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
	case actionCapture:
		s.Capture(st.Label)
	case actionWait:
		r.waitCount = st.Frames - 1 // this frame counts as one
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(s.injectQueue) == 0 {
		r.done = true
	}
}

// gateOpen reports whether the ready step st may pass. It ends the script
// with ErrScriptTimeout once st.Frames blocked frames have elapsed.
func (r *TestRunner) gateOpen(st scriptStep) bool {
	if r.Ready == nil || r.Ready() {
		r.blocked = 0
		return true
	}
	r.blocked++
	if st.Frames > 0 && r.blocked >= st.Frames {
		r.err = fmt.Errorf("step %d: not ready after %d frames: %w", r.cursor, st.Frames, ErrScriptTimeout)
		r.done = true
	}
	return false
}
