package armature

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const epsilon = 1e-9

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertVec(t *testing.T, name string, got, want Vec3) {
	t.Helper()
	for i := range got {
		if math.Abs(got[i]-want[i]) > 1e-6 {
			t.Errorf("%s = %v, want %v", name, got, want)
			return
		}
	}
}

func assertMatrix(t *testing.T, name string, got, want Mat4) {
	t.Helper()
	for i := range got {
		if math.Abs(got[i]-want[i]) > 1e-6 {
			t.Errorf("%s[%d] = %v, want %v (full: %v vs %v)", name, i, got[i], want[i], got, want)
		}
	}
}

func mustJoint(t *testing.T, s *Scene, name string) *Node {
	t.Helper()
	n, err := s.NewJoint(name)
	if err != nil {
		t.Fatalf("NewJoint(%q): %v", name, err)
	}
	return n
}

// --- computeLocalTransform ---

func TestLocalTransformIdentity(t *testing.T) {
	n := NewScene().NewNode("test")
	assertMatrix(t, "identity", n.LocalTransform(), mgl64.Ident4())
}

func TestLocalTransformTranslation(t *testing.T) {
	n := NewScene().NewNode("test")
	n.Position = Vec3{10, 20, 30}
	got := n.LocalTransform()
	assertVec(t, "translation", got.Col(3).Vec3(), Vec3{10, 20, 30})
	assertVec(t, "x axis", got.Col(0).Vec3(), Vec3{1, 0, 0})
}

func TestLocalTransformScale(t *testing.T) {
	n := NewScene().NewNode("test")
	n.Scale = Vec3{2, 3, 4}
	got := n.LocalTransform()
	assertNear(t, "sx", got.At(0, 0), 2)
	assertNear(t, "sy", got.At(1, 1), 3)
	assertNear(t, "sz", got.At(2, 2), 4)
}

func TestLocalTransformRotationY90(t *testing.T) {
	n := NewScene().NewNode("test")
	n.Rotation = Vec3{0, 90, 0}
	assertVec(t, "x maps to -z", n.LocalToWorld(Vec3{1, 0, 0}), Vec3{0, 0, -1})
}

func TestLocalTransformRotationOrder(t *testing.T) {
	// Z is applied first, then X, then Y.
	n := NewScene().NewNode("test")
	n.Rotation = Vec3{90, 90, 0}
	// Rx(90) takes +y to +z; Ry(90) takes +z to +x.
	assertVec(t, "y axis", n.LocalToWorld(Vec3{0, 1, 0}), Vec3{1, 0, 0})
}

func TestLocalTransformScaleBeforeTranslate(t *testing.T) {
	n := NewScene().NewNode("test")
	n.Position = Vec3{5, 0, 0}
	n.Scale = Vec3{2, 2, 2}
	assertVec(t, "point", n.LocalToWorld(Vec3{1, 0, 0}), Vec3{7, 0, 0})
}

// --- World transforms ---

func TestWorldTransformChain(t *testing.T) {
	s := NewScene()
	root := mustJoint(t, s, "root")
	child := mustJoint(t, s, "child")
	grand := mustJoint(t, s, "grand")
	root.AddChild(child)
	child.AddChild(grand)

	root.Position = Vec3{1, 0, 0}
	root.Rotation = Vec3{0, 0, 90}
	child.Position = Vec3{0, 2, 0}
	grand.Position = Vec3{0, 0, 3}

	want := root.LocalTransform().Mul4(child.LocalTransform()).Mul4(grand.LocalTransform())
	assertMatrix(t, "grand world", grand.WorldTransform(), want)
	assertVec(t, "child world pos", child.WorldPosition(), Vec3{-1, 0, 0})
	assertVec(t, "grand world pos", grand.WorldPosition(), Vec3{-1, 0, 3})
}

func TestWorldTransformFollowsParentEdits(t *testing.T) {
	s := NewScene()
	root := mustJoint(t, s, "root")
	child := mustJoint(t, s, "child")
	root.AddChild(child)
	child.Position = Vec3{1, 0, 0}

	assertVec(t, "before", child.WorldPosition(), Vec3{1, 0, 0})
	root.Scale = Vec3{2, 2, 2}
	root.Translate(Vec3{0, 5, 0})
	assertVec(t, "after", child.WorldPosition(), Vec3{2, 5, 0})
}

func TestWorldTransformRootEqualsLocal(t *testing.T) {
	n := NewScene().NewNode("test")
	n.Position = Vec3{3, 4, 5}
	n.Rotation = Vec3{10, 20, 30}
	assertMatrix(t, "root", n.WorldTransform(), n.LocalTransform())
}

func TestWorldToLocalRoundTrip(t *testing.T) {
	s := NewScene()
	root := mustJoint(t, s, "root")
	child := mustJoint(t, s, "child")
	root.AddChild(child)
	root.Position = Vec3{3, -2, 1}
	root.Rotation = Vec3{15, 30, 45}
	child.Position = Vec3{0, 4, 0}
	child.Scale = Vec3{2, 1, 0.5}

	p := Vec3{1, 2, 3}
	assertVec(t, "roundtrip", child.WorldToLocal(child.LocalToWorld(p)), p)
}

func TestWorldToLocalSingular(t *testing.T) {
	n := NewScene().NewNode("flat")
	n.Scale = Vec3{0, 1, 1}
	p := Vec3{4, 5, 6}
	if got := n.WorldToLocal(p); got != p {
		t.Errorf("WorldToLocal = %v, want %v unchanged", got, p)
	}
}

// --- Channel edits ---

func TestRotateAndReset(t *testing.T) {
	n := NewScene().NewNode("test")
	n.Rotate(AxisX, 10)
	n.Rotate(AxisZ, -30)
	n.Rotate(AxisX, 5)
	if n.Rotation != (Vec3{15, 0, -30}) {
		t.Errorf("Rotation = %v", n.Rotation)
	}
	n.ResetRotation()
	if n.Rotation != (Vec3{}) {
		t.Errorf("Rotation after reset = %v", n.Rotation)
	}
}

// --- Intersect ---

func TestIntersectHit(t *testing.T) {
	s := NewScene()
	j := mustJoint(t, s, "j")
	point, normal, ok := j.Intersect(Ray{Origin: Vec3{0, 0, 10}, Dir: Vec3{0, 0, -2}})
	if !ok {
		t.Fatal("expected hit")
	}
	assertVec(t, "point", point, Vec3{0, 0, 1})
	assertVec(t, "normal", normal, Vec3{0, 0, 1})
}

func TestIntersectMiss(t *testing.T) {
	s := NewScene()
	j := mustJoint(t, s, "j")
	cases := []struct {
		name string
		ray  Ray
	}{
		{"beside", Ray{Origin: Vec3{5, 0, 10}, Dir: Vec3{0, 0, -1}}},
		{"behind", Ray{Origin: Vec3{0, 0, 10}, Dir: Vec3{0, 0, 1}}},
		{"zero dir", Ray{Origin: Vec3{0, 0, 10}}},
	}
	for _, tc := range cases {
		if _, _, ok := j.Intersect(tc.ray); ok {
			t.Errorf("%s: unexpected hit", tc.name)
		}
	}
}

func TestIntersectFromInside(t *testing.T) {
	s := NewScene()
	j := mustJoint(t, s, "j")
	point, _, ok := j.Intersect(Ray{Dir: Vec3{1, 0, 0}})
	if !ok {
		t.Fatal("expected hit from inside")
	}
	assertVec(t, "exit point", point, Vec3{1, 0, 0})
}

func TestIntersectScaledAndParented(t *testing.T) {
	s := NewScene()
	root := mustJoint(t, s, "root")
	child := mustJoint(t, s, "child")
	root.AddChild(child)
	root.Scale = Vec3{2, 2, 2}
	child.Position = Vec3{5, 0, 0}

	// Child sits at world x=10 with world radius 2.
	point, _, ok := child.Intersect(Ray{Origin: Vec3{10, 10, 0}, Dir: Vec3{0, -1, 0}})
	if !ok {
		t.Fatal("expected hit")
	}
	assertVec(t, "point", point, Vec3{10, 2, 0})
}

func TestIntersectPlainNodeWithoutRadius(t *testing.T) {
	n := NewScene().NewNode("ground")
	if _, _, ok := n.Intersect(Ray{Origin: Vec3{0, 0, 10}, Dir: Vec3{0, 0, -1}}); ok {
		t.Error("plain node without radius should never be hit")
	}
}
