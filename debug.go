package gesturear

import (
	"fmt"
	"os"
)

// debugLogTouch prints a dispatched touch event and its hit to stderr.
func debugLogTouch(ev MotionEvent, hit HitTestResult) {
	target := "<none>"
	if hit.Node != nil {
		target = fmt.Sprintf("%q (ID %d)", hit.Node.Name, hit.Node.ID)
	}
	_, _ = fmt.Fprintf(os.Stderr,
		"[gesturear] touch %s pointer=%d at (%.0f, %.0f) t=%v hit=%s\n",
		ev.Action, ev.PointerID, ev.X, ev.Y, ev.Time, target)
}

// debugCheckDisposed panics with a descriptive message when a disposed node is
// used in a tree operation. Only called in debug mode; in release mode
// callers skip this entirely.
func debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		panic(fmt.Sprintf("gesturear debug: %s on disposed node %q (ID was %d)", op, n.Name, n.ID))
	}
}

// debugCheckTreeDepth warns on stderr if tree depth exceeds the threshold.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		_, _ = fmt.Fprintf(os.Stderr, "[gesturear] warning: tree depth %d exceeds %d (node %q)\n",
			depth, debugMaxTreeDepth, n.Name)
	}
}

// debugCheckChildCount warns on stderr if a node has more than 1000 children.
const debugMaxChildCount = 1000

func debugCheckChildCount(n *Node) {
	if len(n.children) > debugMaxChildCount {
		_, _ = fmt.Fprintf(os.Stderr, "[gesturear] warning: node %q has %d children (threshold %d)\n",
			n.Name, len(n.children), debugMaxChildCount)
	}
}
