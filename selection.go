package armature

import "go.uber.org/zap"

// --- Selection ---

// Select adds n to the selection. Unless additive is set, the previous
// selection is cleared first. Non-selectable and foreign nodes are ignored.
func (s *Scene) Select(n *Node, additive bool) {
	if !s.Contains(n) || !n.Selectable {
		return
	}
	if !additive {
		s.ClearSelection()
	}
	if n.selected {
		return
	}
	n.selected = true
	s.selection = append(s.selection, n.ID)
	s.emit(EditEvent{Type: EventSelectionChanged, Node: n.ID, Name: n.Name})
}

// ClearSelection deselects everything.
func (s *Scene) ClearSelection() {
	if len(s.selection) == 0 {
		return
	}
	for _, id := range s.selection {
		if n := s.nodes[id]; n != nil {
			n.selected = false
		}
	}
	s.selection = s.selection[:0]
	s.emit(EditEvent{Type: EventSelectionChanged})
}

// PrimarySelection returns the first selected node, or nil.
func (s *Scene) PrimarySelection() *Node {
	if len(s.selection) == 0 {
		return nil
	}
	return s.nodes[s.selection[0]]
}

// Selection returns the selected nodes in selection order.
func (s *Scene) Selection() []*Node {
	out := make([]*Node, 0, len(s.selection))
	for _, id := range s.selection {
		if n := s.nodes[id]; n != nil {
			out = append(out, n)
		}
	}
	return out
}

// HasSelection reports whether anything is selected.
func (s *Scene) HasSelection() bool {
	return len(s.selection) > 0
}

func (s *Scene) deselect(n *Node) {
	n.selected = false
	for i, id := range s.selection {
		if id == n.ID {
			s.selection = append(s.selection[:i], s.selection[i+1:]...)
			return
		}
	}
}

// --- Picking ---

// Pick returns the selectable node hit by ray whose world position is
// nearest to the ray origin, or nil when nothing is hit.
func (s *Scene) Pick(ray Ray) *Node {
	var (
		best     *Node
		bestDist float64
	)
	for _, id := range s.order {
		n := s.nodes[id]
		if !n.Selectable {
			continue
		}
		if _, _, ok := n.Intersect(ray); !ok {
			continue
		}
		d := n.WorldPosition().Sub(ray.Origin).Len()
		if best == nil || d < bestDist {
			best, bestDist = n, d
		}
	}
	return best
}

// PickSelect picks along ray and updates the selection the way a mouse
// press does: without additive the selection is replaced, and a miss clears
// it. Returns the picked node.
func (s *Scene) PickSelect(ray Ray, additive bool) *Node {
	hit := s.Pick(ray)
	if hit == nil {
		if !additive {
			s.ClearSelection()
		}
		return nil
	}
	s.Select(hit, additive)
	return hit
}

// --- Pose edits on the primary selection ---

// ApplyTranslation moves the primary selection by delta in its parent's
// space. Returns ErrNoSelection when nothing is selected.
func (s *Scene) ApplyTranslation(delta Vec3) error {
	n := s.PrimarySelection()
	if n == nil {
		return ErrNoSelection
	}
	n.Translate(delta)
	return nil
}

// ApplyRotation adds degrees to one rotation channel of the primary
// selection.
func (s *Scene) ApplyRotation(axis Axis, degrees float64) error {
	n := s.PrimarySelection()
	if n == nil {
		return ErrNoSelection
	}
	n.Rotate(axis, degrees)
	return nil
}

// DragRotation converts a horizontal drag of dx world units into a rotation
// of the primary selection using the configured drag factor.
func (s *Scene) DragRotation(axis Axis, dx float64) error {
	return s.ApplyRotation(axis, dx*s.cfg.DragRotateFactor)
}

// ResetRotation zeroes the rotation of every selected joint.
func (s *Scene) ResetRotation() error {
	if !s.HasSelection() {
		s.log.Info("no joint selected to reset rotation")
		return ErrNoSelection
	}
	for _, n := range s.Selection() {
		if !n.IsJoint() {
			continue
		}
		n.ResetRotation()
		s.log.Info("rotation reset to zero", zap.String("joint", n.Name))
	}
	return nil
}
