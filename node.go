package gesturear

import "github.com/go-gl/mathgl/mgl64"

// --- ID counter ---

// nodeIDCounter is a plain counter (no atomic; nodes are created on the game loop).
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// --- Node ---

// Node is a transform in the scene graph. A node may own a Renderable, an
// Anchor (making it an anchor node) and child nodes. Children inherit their
// parent's transform.
type Node struct {
	// Identity
	ID   uint32
	Name string

	// Hierarchy
	Parent   *Node
	children []*Node

	// Transform (local)
	position mgl64.Vec3
	rotation mgl64.Quat
	scale    mgl64.Vec3

	// Enabled nodes and their subtrees are drawn and hit-tested.
	Enabled bool

	// Renderable is drawn at the node's world transform. Nil for pure
	// transform nodes.
	Renderable Renderable

	// CollisionRadius is the hit-test sphere radius in local units.
	// Zero disables hit testing for this node (children are still tested).
	CollisionRadius float64

	// Metadata
	UserData any

	anchor   *Anchor
	disposed bool
}

// nodeDefaults sets the common default field values shared by all constructors.
func nodeDefaults(n *Node) {
	n.ID = nextNodeID()
	n.rotation = mgl64.QuatIdent()
	n.scale = mgl64.Vec3{1, 1, 1}
	n.Enabled = true
}

// NewNode creates an empty transform node.
func NewNode(name string) *Node {
	n := &Node{Name: name}
	nodeDefaults(n)
	return n
}

// SetRenderable attaches r to the node and sizes the node's collision sphere
// from the renderable's bounds. Passing nil clears both.
func (n *Node) SetRenderable(r Renderable) {
	n.Renderable = r
	if r == nil {
		n.CollisionRadius = 0
		return
	}
	n.CollisionRadius = r.BoundingRadius()
}

// --- Tree manipulation ---

// AddChild appends child to this node's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this node (cycle).
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("gesturear: cannot add nil child")
	}
	if globalDebug {
		debugCheckDisposed(n, "AddChild (parent)")
		debugCheckDisposed(child, "AddChild (child)")
	}
	if isAncestor(child, n) {
		panic("gesturear: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, child)
	if globalDebug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(n)
	}
}

// RemoveChild detaches child from this node.
// Panics if child.Parent != n.
func (n *Node) RemoveChild(child *Node) {
	if globalDebug {
		debugCheckDisposed(n, "RemoveChild (parent)")
		debugCheckDisposed(child, "RemoveChild (child)")
	}
	if child.Parent != n {
		panic("gesturear: child's parent is not this node")
	}
	n.removeChildByPtr(child)
	child.Parent = nil
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// SetParent moves the node under parent, or detaches it when parent is nil.
func (n *Node) SetParent(parent *Node) {
	if parent == nil {
		n.RemoveFromParent()
		return
	}
	if n.Parent == parent {
		return
	}
	parent.AddChild(n)
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// ChildAt returns the child at the given index.
func (n *Node) ChildAt(index int) *Node {
	return n.children[index]
}

// Contains reports whether other is n or one of its descendants.
func (n *Node) Contains(other *Node) bool {
	return other != nil && isAncestor(n, other)
}

// IsActive reports whether the node would be drawn: it and all of its
// ancestors are enabled and every anchor on the path is tracking.
func (n *Node) IsActive() bool {
	for p := n; p != nil; p = p.Parent {
		if !p.Enabled {
			return false
		}
		if p.anchor != nil && p.anchor.TrackingState() != TrackingTracking {
			return false
		}
	}
	return true
}

// --- Disposal ---

// Dispose removes this node from its parent, marks it as disposed,
// and recursively disposes all descendants.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.dispose()
}

func (n *Node) dispose() {
	n.disposed = true
	n.ID = 0
	for _, child := range n.children {
		child.Parent = nil
		child.dispose()
	}
	n.children = nil
	n.Parent = nil
	n.Renderable = nil
	n.UserData = nil
	n.anchor = nil
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// --- Helpers ---

// isAncestor reports whether candidate is an ancestor of node (or node itself).
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without clearing child.Parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}

// walk calls fn for n and every descendant in depth-first order.
func (n *Node) walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.children {
		c.walk(fn)
	}
}
