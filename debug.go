package armature

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Validate checks the structural invariants of the scene: every link points
// at a live node, parent and child lists agree, the graph has no cycles,
// joint names are unique and every timeline is sorted without duplicate
// frames. It returns all violations joined.
func (s *Scene) Validate() error {
	var errs []error
	names := make(map[string]NodeID)
	for _, id := range s.order {
		n := s.nodes[id]
		if n == nil {
			errs = append(errs, fmt.Errorf("scene order lists missing node %d", id))
			continue
		}
		if n.scene != s || n.ID != id {
			errs = append(errs, fmt.Errorf("node %q: arena entry does not match", n.Name))
		}
		if n.parent != 0 {
			p := s.nodes[n.parent]
			switch {
			case p == nil:
				errs = append(errs, fmt.Errorf("node %q: dangling parent %d", n.Name, n.parent))
			case !containsID(p.children, n.ID):
				errs = append(errs, fmt.Errorf("node %q: missing from parent %q children", n.Name, p.Name))
			}
		}
		for _, cid := range n.children {
			c := s.nodes[cid]
			switch {
			case c == nil:
				errs = append(errs, fmt.Errorf("node %q: dangling child %d", n.Name, cid))
			case c.parent != n.ID:
				errs = append(errs, fmt.Errorf("node %q: child %q has another parent", n.Name, c.Name))
			}
		}
		if hasCycle(n) {
			errs = append(errs, fmt.Errorf("node %q: ancestor chain has a cycle", n.Name))
		}
		if n.selected && !containsID(s.selection, n.ID) {
			errs = append(errs, fmt.Errorf("node %q: marked selected but missing from the selection", n.Name))
		}
		if n.Kind == NodeKindJoint {
			if n.Timeline == nil {
				errs = append(errs, fmt.Errorf("joint %q: nil timeline", n.Name))
			} else if !n.Timeline.sorted() {
				errs = append(errs, fmt.Errorf("joint %q: timeline out of order", n.Name))
			}
			if other, dup := names[n.Name]; dup {
				errs = append(errs, fmt.Errorf("joint %q: name shared with node %d", n.Name, other))
			}
			names[n.Name] = n.ID
		}
	}
	if len(s.order) != len(s.nodes) {
		errs = append(errs, fmt.Errorf("scene order has %d entries for %d nodes", len(s.order), len(s.nodes)))
	}
	for _, id := range s.selection {
		if n := s.nodes[id]; n == nil || !n.selected {
			errs = append(errs, fmt.Errorf("selection lists stale node %d", id))
		}
	}
	return errors.Join(errs...)
}

// debugValidate runs Validate after an edit when debug mode is on.
func (s *Scene) debugValidate(op string) {
	if !s.debug {
		return
	}
	if err := s.Validate(); err != nil {
		s.log.Error("armature debug: invariant violated", zap.String("op", op), zap.Error(err))
	}
}

// hasCycle walks n's ancestors and reports whether the walk revisits a node.
func hasCycle(n *Node) bool {
	seen := make(map[NodeID]bool)
	for p := n; p != nil; p = p.Parent() {
		if seen[p.ID] {
			return true
		}
		seen[p.ID] = true
	}
	return false
}

func containsID(ids []NodeID, id NodeID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// debugCheckTreeDepth warns if tree depth exceeds the threshold.
const debugMaxTreeDepth = 64

func debugCheckTreeDepth(n *Node) {
	if depth := n.Depth(); depth > debugMaxTreeDepth {
		n.scene.log.Warn("armature debug: tree depth exceeds threshold",
			zap.String("node", n.Name), zap.Int("depth", depth), zap.Int("threshold", debugMaxTreeDepth))
	}
}

// debugCheckChildCount warns if a node has more than 256 children.
const debugMaxChildCount = 256

func debugCheckChildCount(n *Node) {
	if len(n.children) > debugMaxChildCount {
		n.scene.log.Warn("armature debug: child count exceeds threshold",
			zap.String("node", n.Name), zap.Int("children", len(n.children)), zap.Int("threshold", debugMaxChildCount))
	}
}
