package gesturear

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestAnchorDetach(t *testing.T) {
	sess := NewSimulatedSession()
	a := sess.CreateAnchor(IdentityPose())
	b := sess.CreateAnchor(IdentityPose())
	if a.ID == b.ID {
		t.Error("anchor IDs should be unique")
	}
	if a.TrackingState() != TrackingTracking {
		t.Errorf("new anchor state = %v, want tracking", a.TrackingState())
	}

	a.Detach()
	if a.TrackingState() != TrackingStopped {
		t.Errorf("detached state = %v, want stopped", a.TrackingState())
	}
	if got := sess.Anchors(); len(got) != 1 || got[0] != b {
		t.Errorf("Anchors after detach = %v, want [b]", got)
	}
	a.Detach() // idempotent
	if len(sess.Anchors()) != 1 {
		t.Error("second Detach changed the registry")
	}
}

func TestAnchorStoppedStaysStopped(t *testing.T) {
	sess := NewSimulatedSession()
	a := sess.CreateAnchor(IdentityPose())
	sess.SetTrackingLost(true)
	if a.TrackingState() != TrackingPaused {
		t.Errorf("state = %v, want paused", a.TrackingState())
	}
	a.Detach()
	a.setTrackingState(TrackingTracking)
	if a.TrackingState() != TrackingStopped {
		t.Errorf("state = %v, want stopped", a.TrackingState())
	}
}

func TestTrackingStateString(t *testing.T) {
	tests := map[TrackingState]string{
		TrackingTracking:  "tracking",
		TrackingPaused:    "paused",
		TrackingStopped:   "stopped",
		TrackingState(42): "unknown",
	}
	for s, want := range tests {
		if got := s.String(); got != want {
			t.Errorf("TrackingState(%d).String() = %q, want %q", s, got, want)
		}
	}
}

func TestAnchorNodeFollowsPose(t *testing.T) {
	pose := NewPose(mgl64.Vec3{1, 0, -2}, mgl64.QuatRotate(0.5, mgl64.Vec3{0, 1, 0}))
	a := newAnchor(pose, nil)
	n := NewAnchorNode(a)

	if !n.IsAnchorNode() || n.Anchor() != a {
		t.Fatal("NewAnchorNode did not attach the anchor")
	}
	if !vecApprox(n.WorldPosition(), pose.Translation) {
		t.Errorf("WorldPosition = %v, want %v", n.WorldPosition(), pose.Translation)
	}

	// While paused the node keeps its last pose.
	a.setTrackingState(TrackingPaused)
	a.pose = NewPose(mgl64.Vec3{5, 5, 5}, mgl64.QuatIdent())
	n.syncAnchor()
	if !vecApprox(n.WorldPosition(), pose.Translation) {
		t.Errorf("paused anchor moved node to %v", n.WorldPosition())
	}

	a.setTrackingState(TrackingTracking)
	n.syncAnchor()
	if !vecApprox(n.WorldPosition(), mgl64.Vec3{5, 5, 5}) {
		t.Errorf("tracking anchor left node at %v", n.WorldPosition())
	}
}

func TestFindAnchorNode(t *testing.T) {
	root := NewNode("root")
	anchorNode := NewAnchorNode(newAnchor(IdentityPose(), nil))
	model := NewNode("model")
	label := NewNode("label")
	root.AddChild(anchorNode)
	anchorNode.AddChild(model)
	model.AddChild(label)

	tests := []struct {
		name string
		n    *Node
		want *Node
	}{
		{"direct child", model, anchorNode},
		{"grandchild", label, anchorNode},
		{"anchor node itself", anchorNode, anchorNode},
		{"above anchor", root, nil},
		{"nil", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FindAnchorNode(tt.n); got != tt.want {
				t.Errorf("FindAnchorNode = %v, want %v", got, tt.want)
			}
		})
	}
}
