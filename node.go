package armature

// Node is the fundamental scene graph element. A single flat struct is used
// for plain objects and joints; Kind tells them apart and only joints carry a
// Timeline.
//
// Nodes are created by a Scene and live in its arena. Parent and child links
// are NodeIDs resolved through that arena.
type Node struct {
	// Identity
	ID   NodeID
	Name string
	Kind NodeKind

	// Transform channels (local). Rotation is Euler degrees.
	Position Vec3
	Rotation Vec3
	Scale    Vec3

	// Picking
	Radius     float64
	Selectable bool

	// Animation (NodeKindJoint only)
	Timeline *Timeline

	// Hierarchy
	scene    *Scene
	parent   NodeID
	children []NodeID
	selected bool
}

// nodeDefaults sets the common default field values shared by all constructors.
func nodeDefaults(n *Node) {
	n.Scale = Vec3{1, 1, 1}
	n.Selectable = true
}

// Scene returns the scene that owns this node, or nil once it was deleted.
func (n *Node) Scene() *Scene {
	return n.scene
}

// IsJoint reports whether the node is a skeleton joint.
func (n *Node) IsJoint() bool {
	return n != nil && n.Kind == NodeKindJoint
}

// Selected reports whether the node is part of the scene's selection.
func (n *Node) Selected() bool {
	return n.selected
}

// Pose returns the node's current local channels.
func (n *Node) Pose() Pose {
	return Pose{Position: n.Position, Rotation: n.Rotation, Scale: n.Scale}
}

// SetPose overwrites the node's local channels.
func (n *Node) SetPose(p Pose) {
	n.Position = p.Position
	n.Rotation = p.Rotation
	n.Scale = p.Scale
}

// --- Tree manipulation ---

// AddChild appends child to this node's children.
// If child already has a parent, it is removed from that parent first.
// Returns false without changing anything if child is nil, belongs to another
// scene, or is this node or one of its ancestors (cycle).
func (n *Node) AddChild(child *Node) bool {
	if child == nil || n.scene == nil || child.scene != n.scene {
		return false
	}
	if isAncestor(child, n) {
		n.scene.log.Debug("armature: refusing cyclic AddChild")
		return false
	}
	if p := child.Parent(); p != nil {
		p.removeChildID(child.ID)
	}
	child.parent = n.ID
	n.children = append(n.children, child.ID)
	if n.scene.debug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(n)
	}
	return true
}

// RemoveFromParent detaches this node from its parent without destroying it.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	p := n.Parent()
	if p == nil {
		n.parent = 0
		return
	}
	p.removeChildID(n.ID)
	n.parent = 0
}

// Parent returns the parent node, or nil for roots.
func (n *Node) Parent() *Node {
	if n.parent == 0 || n.scene == nil {
		return nil
	}
	return n.scene.nodes[n.parent]
}

// IsRoot reports whether the node has no parent.
func (n *Node) IsRoot() bool {
	return n.Parent() == nil
}

// Children returns the child nodes in order. The slice is freshly allocated.
func (n *Node) Children() []*Node {
	if n.scene == nil {
		return nil
	}
	out := make([]*Node, 0, len(n.children))
	for _, id := range n.children {
		if c := n.scene.nodes[id]; c != nil {
			out = append(out, c)
		}
	}
	return out
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// ChildAt returns the child at the given index.
func (n *Node) ChildAt(index int) *Node {
	return n.scene.nodes[n.children[index]]
}

// Depth returns the number of ancestors (0 for roots).
func (n *Node) Depth() int {
	d := 0
	for p := n.Parent(); p != nil; p = p.Parent() {
		d++
	}
	return d
}

// IsAncestorOf reports whether n is a strict ancestor of other.
func (n *Node) IsAncestorOf(other *Node) bool {
	if other == nil || other == n {
		return false
	}
	return isAncestor(n, other)
}

// Walk calls fn for n and every descendant in depth-first pre-order.
// Returning false from fn skips that node's subtree.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children() {
		c.Walk(fn)
	}
}

// --- Helpers ---

// isAncestor reports whether candidate is node or one of its ancestors.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent() {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildID removes id from n.children without touching the child.
func (n *Node) removeChildID(id NodeID) {
	for i, c := range n.children {
		if c == id {
			copy(n.children[i:], n.children[i+1:])
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}
