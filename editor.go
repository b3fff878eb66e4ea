package armature

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// --- Structure ---

// AddJoint creates a joint named "joint<N>" from the scene's counter. If
// parent is a joint of this scene the new joint becomes its last child,
// otherwise it is a root. The new joint becomes the only selection.
func (s *Scene) AddJoint(parent *Node) *Node {
	n := s.newJoint(s.nextJointName())
	if parent.IsJoint() && s.Contains(parent) {
		parent.AddChild(n)
	}
	s.emit(EditEvent{Type: EventJointAdded, Node: n.ID, Name: n.Name, Parent: n.parent})
	s.Select(n, false)
	s.log.Info("joint added", zap.String("joint", n.Name), zap.String("parent", nameOf(n.Parent())))
	s.debugValidate("AddJoint")
	return n
}

// AddJointToSelection adds a joint under the primary selection.
func (s *Scene) AddJointToSelection() *Node {
	return s.AddJoint(s.PrimarySelection())
}

// DeleteJoint removes n from the scene. Each child is reparented to n's
// parent, or becomes a root when n has none; children keep their local
// channels. The selection is cleared. Returns false for nil or foreign
// nodes. Plain nodes are deleted the same way.
func (s *Scene) DeleteJoint(n *Node) bool {
	if !s.Contains(n) {
		return false
	}
	parent := n.Parent()
	for _, c := range n.Children() {
		if parent != nil {
			parent.AddChild(c)
		} else {
			c.RemoveFromParent()
		}
		s.emit(EditEvent{Type: EventReparented, Node: c.ID, Name: c.Name, Parent: c.parent})
	}
	n.RemoveFromParent()
	s.remove(n)
	s.ClearSelection()
	s.emit(EditEvent{Type: EventJointDeleted, Node: n.ID, Name: n.Name})
	s.log.Info("joint deleted", zap.String("joint", n.Name))
	s.debugValidate("DeleteJoint")
	return true
}

// DeleteSelected deletes the primary selection.
func (s *Scene) DeleteSelected() error {
	n := s.PrimarySelection()
	if n == nil {
		return ErrNoSelection
	}
	s.DeleteJoint(n)
	return nil
}

// Reparent moves child under parent. A nil parent makes child a root.
func (s *Scene) Reparent(child, parent *Node) error {
	if !s.Contains(child) {
		return ErrForeignNode
	}
	if parent == nil {
		child.RemoveFromParent()
	} else {
		if !s.Contains(parent) {
			return ErrForeignNode
		}
		if isAncestor(child, parent) {
			return ErrCycle
		}
		parent.AddChild(child)
	}
	s.emit(EditEvent{Type: EventReparented, Node: child.ID, Name: child.Name, Parent: child.parent})
	s.debugValidate("Reparent")
	return nil
}

// Detach makes n a root without deleting it.
func (s *Scene) Detach(n *Node) error {
	return s.Reparent(n, nil)
}

// --- Keyframes ---

// SetKeyframe captures n's current channels into a keyframe at frame,
// replacing any keyframe already stored there.
func (s *Scene) SetKeyframe(n *Node, frame int) error {
	if !s.Contains(n) {
		return ErrForeignNode
	}
	if !n.IsJoint() {
		return ErrNotJoint
	}
	if err := n.Timeline.Set(KeyframeAt(n, frame)); err != nil {
		return err
	}
	s.emit(EditEvent{Type: EventKeyframeSet, Node: n.ID, Name: n.Name, Frame: frame})
	s.log.Info("setting keyframe", zap.String("joint", n.Name), zap.Int("frame", frame))
	return nil
}

// DeleteKeyframe removes n's keyframe at frame.
func (s *Scene) DeleteKeyframe(n *Node, frame int) error {
	if !s.Contains(n) {
		return ErrForeignNode
	}
	if !n.IsJoint() {
		return ErrNotJoint
	}
	if !n.Timeline.Delete(frame) {
		s.log.Info("no keyframe found", zap.String("joint", n.Name), zap.Int("frame", frame))
		return fmt.Errorf("%w %d", ErrKeyframeNotFound, frame)
	}
	s.emit(EditEvent{Type: EventKeyframeDeleted, Node: n.ID, Name: n.Name, Frame: frame})
	s.log.Info("deleted keyframe", zap.String("joint", n.Name), zap.Int("frame", frame))
	return nil
}

// ResetKeyframes clears n's timeline.
func (s *Scene) ResetKeyframes(n *Node) error {
	if !s.Contains(n) {
		return ErrForeignNode
	}
	if !n.IsJoint() {
		return ErrNotJoint
	}
	n.Timeline.Reset()
	s.emit(EditEvent{Type: EventKeyframesReset, Node: n.ID, Name: n.Name})
	return nil
}

// Interpolate writes n's interpolated pose at frame into its channels. It
// returns false, leaving the channels untouched, for plain nodes, timelines
// with fewer than two keyframes, and frames outside the keyed range.
func (s *Scene) Interpolate(n *Node, frame int) bool {
	if !n.IsJoint() {
		return false
	}
	pose, ok := n.Timeline.sample(frame, s.activeRemap())
	if !ok {
		return false
	}
	n.SetPose(pose)
	return true
}

// --- Selection-driven commands ---

// KeySelected sets a keyframe at the current frame on every selected joint.
func (s *Scene) KeySelected() error {
	if !s.HasSelection() {
		s.log.Info("no object selected, cannot set keyframe")
		return ErrNoSelection
	}
	keyed := 0
	for _, n := range s.Selection() {
		if !n.IsJoint() {
			s.log.Info("cannot set keyframe on non-joint", zap.String("node", n.Name))
			continue
		}
		if err := s.SetKeyframe(n, s.playback.Frame); err != nil {
			return err
		}
		keyed++
	}
	if keyed == 0 {
		return ErrNotJoint
	}
	return nil
}

// DeleteSelectedKeyframe removes the keyframe at the current frame from every
// selected joint. Joints without a keyframe there are reported in the
// returned error; the others are still updated.
func (s *Scene) DeleteSelectedKeyframe() error {
	if !s.HasSelection() {
		s.log.Info("no object selected, cannot delete keyframe")
		return ErrNoSelection
	}
	var errs []error
	for _, n := range s.Selection() {
		if !n.IsJoint() {
			errs = append(errs, fmt.Errorf("%s: %w", n.Name, ErrNotJoint))
			continue
		}
		if err := s.DeleteKeyframe(n, s.playback.Frame); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", n.Name, err))
		}
	}
	return errors.Join(errs...)
}

// ResetSelectedKeyframes clears the timeline of the primary selection.
func (s *Scene) ResetSelectedKeyframes() error {
	n := s.PrimarySelection()
	if n == nil {
		return ErrNoSelection
	}
	return s.ResetKeyframes(n)
}

func nameOf(n *Node) string {
	if n == nil {
		return noParent
	}
	return n.Name
}
