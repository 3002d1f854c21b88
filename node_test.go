package gesturear

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// --- Constructor defaults ---

func TestNewNodeDefaults(t *testing.T) {
	n := NewNode("test")
	if n.ID == 0 {
		t.Error("ID should be non-zero")
	}
	if n.Name != "test" {
		t.Errorf("Name = %q, want %q", n.Name, "test")
	}
	if n.LocalScale() != (mgl64.Vec3{1, 1, 1}) {
		t.Errorf("Scale = %v, want (1, 1, 1)", n.LocalScale())
	}
	if n.LocalRotation() != mgl64.QuatIdent() {
		t.Errorf("Rotation = %v, want identity", n.LocalRotation())
	}
	if !n.Enabled {
		t.Error("Enabled should be true")
	}
	if n.Renderable != nil || n.CollisionRadius != 0 {
		t.Error("new node should have no renderable and no collision sphere")
	}
	if n.IsAnchorNode() {
		t.Error("new node should not be an anchor node")
	}
}

func TestUniqueIDs(t *testing.T) {
	a := NewNode("a")
	b := NewNode("b")
	c := NewNode("c")
	if a.ID == b.ID || b.ID == c.ID || a.ID == c.ID {
		t.Errorf("IDs should be unique: %d, %d, %d", a.ID, b.ID, c.ID)
	}
}

func TestSetRenderableSizesCollision(t *testing.T) {
	n := NewNode("n")
	n.SetRenderable(&ModelRenderable{Radius: 1.5})
	if n.CollisionRadius != 1.5 {
		t.Errorf("CollisionRadius = %v, want 1.5", n.CollisionRadius)
	}
	n.SetRenderable(nil)
	if n.CollisionRadius != 0 || n.Renderable != nil {
		t.Errorf("SetRenderable(nil) left radius %v renderable %v", n.CollisionRadius, n.Renderable)
	}
}

// --- AddChild ---

func TestAddChildBasic(t *testing.T) {
	parent := NewNode("parent")
	child := NewNode("child")
	parent.AddChild(child)

	if child.Parent != parent {
		t.Error("child.Parent should be parent")
	}
	if parent.NumChildren() != 1 {
		t.Errorf("NumChildren = %d, want 1", parent.NumChildren())
	}
	if parent.ChildAt(0) != child {
		t.Error("ChildAt(0) should be child")
	}
}

func TestAddChildReparent(t *testing.T) {
	p1 := NewNode("p1")
	p2 := NewNode("p2")
	child := NewNode("child")

	p1.AddChild(child)
	p2.AddChild(child)
	if p1.NumChildren() != 0 {
		t.Error("p1 should have 0 children after reparent")
	}
	if p2.NumChildren() != 1 {
		t.Error("p2 should have 1 child")
	}
	if child.Parent != p2 {
		t.Error("child.Parent should be p2")
	}
}

func TestAddChildCyclePanic(t *testing.T) {
	a := NewNode("a")
	b := NewNode("b")
	c := NewNode("c")
	a.AddChild(b)
	b.AddChild(c)

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic on cycle")
		}
	}()
	c.AddChild(a)
}

func TestAddChildSelfPanic(t *testing.T) {
	a := NewNode("a")
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic on self-add")
		}
	}()
	a.AddChild(a)
}

func TestAddChildNilPanic(t *testing.T) {
	a := NewNode("a")
	defer func() {
		r := recover()
		if r == nil {
			t.Error("expected panic on nil child")
		}
		if r != "gesturear: cannot add nil child" {
			t.Errorf("panic = %v", r)
		}
	}()
	a.AddChild(nil)
}

// --- Remove / SetParent ---

func TestRemoveChild(t *testing.T) {
	parent := NewNode("parent")
	child := NewNode("child")
	parent.AddChild(child)
	parent.RemoveChild(child)

	if child.Parent != nil {
		t.Error("child.Parent should be nil")
	}
	if parent.NumChildren() != 0 {
		t.Errorf("NumChildren = %d, want 0", parent.NumChildren())
	}
}

func TestRemoveChildWrongParentPanic(t *testing.T) {
	p1 := NewNode("p1")
	p2 := NewNode("p2")
	child := NewNode("child")
	p1.AddChild(child)

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic removing from wrong parent")
		}
	}()
	p2.RemoveChild(child)
}

func TestRemoveFromParentNoOp(t *testing.T) {
	n := NewNode("n")
	n.RemoveFromParent() // should not panic
	if n.Parent != nil {
		t.Error("Parent should remain nil")
	}
}

func TestSetParent(t *testing.T) {
	parent := NewNode("parent")
	child := NewNode("child")

	child.SetParent(parent)
	if child.Parent != parent || parent.NumChildren() != 1 {
		t.Fatal("SetParent(parent) did not attach")
	}
	child.SetParent(parent) // same parent: no duplicate
	if parent.NumChildren() != 1 {
		t.Errorf("NumChildren = %d after repeated SetParent, want 1", parent.NumChildren())
	}
	child.SetParent(nil)
	if child.Parent != nil || parent.NumChildren() != 0 {
		t.Error("SetParent(nil) did not detach")
	}
}

func TestChildrenConsistency(t *testing.T) {
	parent := NewNode("parent")
	var kids []*Node
	for i := 0; i < 5; i++ {
		c := NewNode("c")
		kids = append(kids, c)
		parent.AddChild(c)
	}
	parent.RemoveChild(kids[2])
	want := []*Node{kids[0], kids[1], kids[3], kids[4]}
	got := parent.Children()
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("child %d mismatch", i)
		}
	}
}

// --- Queries ---

func TestContains(t *testing.T) {
	root := NewNode("root")
	a := NewNode("a")
	b := NewNode("b")
	root.AddChild(a)
	a.AddChild(b)

	tests := []struct {
		n, other *Node
		want     bool
	}{
		{root, b, true},
		{a, a, true},
		{b, root, false},
		{a, nil, false},
	}
	for i, tt := range tests {
		if got := tt.n.Contains(tt.other); got != tt.want {
			t.Errorf("case %d: Contains = %v, want %v", i, got, tt.want)
		}
	}
}

func TestIsActive(t *testing.T) {
	root := NewNode("root")
	child := NewNode("child")
	root.AddChild(child)
	if !child.IsActive() {
		t.Error("child should be active")
	}
	root.Enabled = false
	if child.IsActive() {
		t.Error("child of disabled parent should be inactive")
	}
	root.Enabled = true

	sess := NewSimulatedSession()
	anchorNode := NewAnchorNode(sess.CreateAnchor(IdentityPose()))
	anchorNode.AddChild(root)
	if !child.IsActive() {
		t.Error("child under tracking anchor should be active")
	}
	sess.SetTrackingLost(true)
	if child.IsActive() {
		t.Error("child under paused anchor should be inactive")
	}
}

// --- Dispose ---

func TestDispose(t *testing.T) {
	parent := NewNode("parent")
	child := NewNode("child")
	grandchild := NewNode("grandchild")
	parent.AddChild(child)
	child.AddChild(grandchild)

	child.Dispose()

	if !child.IsDisposed() || !grandchild.IsDisposed() {
		t.Error("child and grandchild should be disposed")
	}
	if parent.NumChildren() != 0 {
		t.Error("parent should have 0 children")
	}
	if child.ID != 0 {
		t.Error("disposed node ID should be 0")
	}
}

func TestDisposeIdempotent(t *testing.T) {
	n := NewNode("n")
	n.Dispose()
	n.Dispose() // should not panic
}

func TestDebugDisposedPanics(t *testing.T) {
	globalDebug = true
	defer func() { globalDebug = false }()

	parent := NewNode("parent")
	dead := NewNode("dead")
	dead.Dispose()

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic adding disposed node in debug mode")
		}
	}()
	parent.AddChild(dead)
}
