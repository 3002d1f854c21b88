package gesturear

import "github.com/go-gl/mathgl/mgl64"

// localMatrix computes the node's local transform.
//
// Composition order:
//
//	Scale -> Rotate -> Translate(position)
func (n *Node) localMatrix() mgl64.Mat4 {
	t := mgl64.Translate3D(n.position.X(), n.position.Y(), n.position.Z())
	r := n.rotation.Normalize().Mat4()
	s := mgl64.Scale3D(n.scale.X(), n.scale.Y(), n.scale.Z())
	return t.Mul4(r).Mul4(s)
}

// WorldMatrix returns the node's transform composed with all of its ancestors.
func (n *Node) WorldMatrix() mgl64.Mat4 {
	m := n.localMatrix()
	for p := n.Parent; p != nil; p = p.Parent {
		m = p.localMatrix().Mul4(m)
	}
	return m
}

// --- Transform property setters ---

// SetLocalPosition sets the node's position relative to its parent.
func (n *Node) SetLocalPosition(v mgl64.Vec3) {
	n.position = v
}

// LocalPosition returns the node's position relative to its parent.
func (n *Node) LocalPosition() mgl64.Vec3 {
	return n.position
}

// SetLocalRotation sets the node's rotation relative to its parent.
func (n *Node) SetLocalRotation(q mgl64.Quat) {
	n.rotation = q
}

// LocalRotation returns the node's rotation relative to its parent.
func (n *Node) LocalRotation() mgl64.Quat {
	return n.rotation
}

// SetLocalScale sets the node's per-axis scale relative to its parent.
func (n *Node) SetLocalScale(v mgl64.Vec3) {
	n.scale = v
}

// LocalScale returns the node's per-axis scale relative to its parent.
func (n *Node) LocalScale() mgl64.Vec3 {
	return n.scale
}

// WorldPosition returns the node's origin in world space.
func (n *Node) WorldPosition() mgl64.Vec3 {
	return n.LocalToWorld(mgl64.Vec3{})
}

// WorldScale returns the product of the node's and its ancestors' scales,
// per axis. Rotations are ignored.
func (n *Node) WorldScale() mgl64.Vec3 {
	s := n.scale
	for p := n.Parent; p != nil; p = p.Parent {
		s = mgl64.Vec3{s.X() * p.scale.X(), s.Y() * p.scale.Y(), s.Z() * p.scale.Z()}
	}
	return s
}

// SetWorldScale sets the local scale so that WorldScale returns v.
// Axes whose parent scale is zero are set to v unchanged.
func (n *Node) SetWorldScale(v mgl64.Vec3) {
	if n.Parent == nil {
		n.scale = v
		return
	}
	ps := n.Parent.WorldScale()
	var local mgl64.Vec3
	for i := 0; i < 3; i++ {
		if ps[i] == 0 {
			local[i] = v[i]
		} else {
			local[i] = v[i] / ps[i]
		}
	}
	n.scale = local
}

// maxWorldScale returns the largest absolute world scale component.
func (n *Node) maxWorldScale() float64 {
	s := n.WorldScale()
	m := 0.0
	for i := 0; i < 3; i++ {
		v := s[i]
		if v < 0 {
			v = -v
		}
		if v > m {
			m = v
		}
	}
	return m
}

// --- Coordinate conversion ---

// LocalToWorld converts a local-space point to world-space.
func (n *Node) LocalToWorld(p mgl64.Vec3) mgl64.Vec3 {
	return mgl64.TransformCoordinate(p, n.WorldMatrix())
}
