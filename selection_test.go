package armature

import (
	"errors"
	"testing"
)

func TestSelectReplaceAndAdditive(t *testing.T) {
	s := NewScene()
	a := mustJoint(t, s, "a")
	b := mustJoint(t, s, "b")

	s.Select(a, false)
	s.Select(b, false)
	if a.Selected() || !b.Selected() || len(s.Selection()) != 1 {
		t.Error("non-additive select should replace")
	}
	s.Select(a, true)
	if got := names(s.Selection()); len(got) != 2 || got[0] != "b" || got[1] != "a" {
		t.Errorf("selection = %v, want [b a]", got)
	}
	s.Select(a, true)
	if len(s.Selection()) != 2 {
		t.Error("reselecting should not duplicate")
	}
	s.ClearSelection()
	if s.HasSelection() || a.Selected() || b.Selected() {
		t.Error("ClearSelection left nodes selected")
	}
}

func TestSelectIgnoresUnselectable(t *testing.T) {
	s := NewScene()
	ground := s.NewNode("ground")
	ground.Selectable = false
	s.Select(ground, false)
	if s.HasSelection() {
		t.Error("unselectable node was selected")
	}
}

func TestPickNearest(t *testing.T) {
	s := NewScene()
	near := mustJoint(t, s, "near")
	far := mustJoint(t, s, "far")
	near.Position = Vec3{0, 0, 5}
	far.Position = Vec3{0, 0, -5}

	ray := Ray{Origin: Vec3{0, 0, 20}, Dir: Vec3{0, 0, -1}}
	if got := s.Pick(ray); got != near {
		t.Errorf("Pick = %v, want near", nameOf(got))
	}
	near.Selectable = false
	if got := s.Pick(ray); got != far {
		t.Errorf("Pick = %v, want far", nameOf(got))
	}
}

func TestPickSelect(t *testing.T) {
	s := NewScene()
	a := mustJoint(t, s, "a")
	b := mustJoint(t, s, "b")
	b.Position = Vec3{10, 0, 0}

	down := func(x float64) Ray { return Ray{Origin: Vec3{x, 10, 0}, Dir: Vec3{0, -1, 0}} }

	if got := s.PickSelect(down(0), false); got != a {
		t.Fatal("expected to pick a")
	}
	s.PickSelect(down(10), true)
	if len(s.Selection()) != 2 {
		t.Errorf("additive pick: %v", names(s.Selection()))
	}
	if got := s.PickSelect(down(50), true); got != nil || len(s.Selection()) != 2 {
		t.Error("additive miss should keep the selection")
	}
	s.PickSelect(down(50), false)
	if s.HasSelection() {
		t.Error("miss should clear the selection")
	}
}

func TestApplyTranslationAndRotation(t *testing.T) {
	s := NewScene()
	if err := s.ApplyTranslation(Vec3{1, 0, 0}); !errors.Is(err, ErrNoSelection) {
		t.Errorf("ApplyTranslation without selection = %v", err)
	}
	j := s.AddJoint(nil)
	s.ApplyTranslation(Vec3{1, 2, 0})
	s.ApplyTranslation(Vec3{0, 1, 1})
	if j.Position != (Vec3{1, 3, 1}) {
		t.Errorf("Position = %v", j.Position)
	}
	s.ApplyRotation(AxisY, 30)
	s.DragRotation(AxisY, 0.5)
	assertNear(t, "rotation y", j.Rotation[1], 30+0.5*DefaultDragRotateFactor)
}

func TestResetRotationSelectedJoints(t *testing.T) {
	s := NewScene()
	if err := s.ResetRotation(); !errors.Is(err, ErrNoSelection) {
		t.Errorf("ResetRotation = %v", err)
	}
	a := s.AddJoint(nil)
	b := s.AddJoint(nil)
	c := mustJoint(t, s, "c")
	for _, n := range []*Node{a, b, c} {
		n.Rotation = Vec3{10, 20, 30}
	}
	s.Select(a, true)
	if err := s.ResetRotation(); err != nil {
		t.Fatal(err)
	}
	if a.Rotation != (Vec3{}) || b.Rotation != (Vec3{}) {
		t.Error("selected joints not reset")
	}
	if c.Rotation == (Vec3{}) {
		t.Error("unselected joint was reset")
	}
}
