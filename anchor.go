package gesturear

import "github.com/google/uuid"

// TrackingState is the tracking status of an Anchor.
type TrackingState uint8

const (
	TrackingTracking TrackingState = iota // pose is being updated by the session
	TrackingPaused                        // temporarily lost; may resume
	TrackingStopped                       // detached; will never track again
)

// String returns the state name.
func (s TrackingState) String() string {
	switch s {
	case TrackingTracking:
		return "tracking"
	case TrackingPaused:
		return "paused"
	case TrackingStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// anchorOwner is implemented by sessions that keep a registry of live anchors.
type anchorOwner interface {
	releaseAnchor(a *Anchor)
}

// Anchor is a fixed pose in the world tracked by a Session. Virtual content is
// attached to an anchor through an anchor node.
type Anchor struct {
	ID    uuid.UUID
	pose  Pose
	state TrackingState
	owner anchorOwner
}

// newAnchor creates a tracking anchor registered with owner (may be nil).
func newAnchor(pose Pose, owner anchorOwner) *Anchor {
	return &Anchor{
		ID:    uuid.New(),
		pose:  pose,
		state: TrackingTracking,
		owner: owner,
	}
}

// Pose returns the anchor's current world pose.
func (a *Anchor) Pose() Pose {
	return a.pose
}

// TrackingState returns the anchor's tracking status.
func (a *Anchor) TrackingState() TrackingState {
	return a.state
}

// Detach stops tracking the anchor and releases it from its session.
// Detaching twice is a no-op.
func (a *Anchor) Detach() {
	if a.state == TrackingStopped {
		return
	}
	a.state = TrackingStopped
	if a.owner != nil {
		a.owner.releaseAnchor(a)
		a.owner = nil
	}
}

// setTrackingState is used by sessions to report tracking loss and recovery.
// A stopped anchor stays stopped.
func (a *Anchor) setTrackingState(s TrackingState) {
	if a.state == TrackingStopped {
		return
	}
	a.state = s
}

// --- Anchor nodes ---

// NewAnchorNode creates a node whose world transform follows a's pose.
// The node and its subtree are hidden while the anchor is not tracking.
func NewAnchorNode(a *Anchor) *Node {
	n := NewNode("anchor")
	n.SetAnchor(a)
	return n
}

// SetAnchor attaches a to the node, replacing any previous anchor, and snaps
// the node to the anchor pose. Passing nil turns the node back into a plain
// transform node.
func (n *Node) SetAnchor(a *Anchor) {
	n.anchor = a
	n.syncAnchor()
}

// Anchor returns the anchor attached to this node, or nil.
func (n *Node) Anchor() *Anchor {
	return n.anchor
}

// IsAnchorNode reports whether an anchor is attached to this node.
func (n *Node) IsAnchorNode() bool {
	return n.anchor != nil
}

// syncAnchor copies the anchor pose into the local transform while tracking.
func (n *Node) syncAnchor() {
	if n.anchor == nil || n.anchor.TrackingState() != TrackingTracking {
		return
	}
	p := n.anchor.Pose()
	n.position = p.Translation
	n.rotation = p.Rotation
}

// FindAnchorNode returns the nearest node at or above n that owns an anchor,
// or nil if there is none.
func FindAnchorNode(n *Node) *Node {
	for p := n; p != nil; p = p.Parent {
		if p.anchor != nil {
			return p
		}
	}
	return nil
}
