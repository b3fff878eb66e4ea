package armature

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func kfAt(frame int, x float64) Keyframe {
	return Keyframe{Frame: frame, Position: Vec3{x, 0, 0}, Scale: Vec3{1, 1, 1}}
}

func TestTimelineSetSorts(t *testing.T) {
	var tl Timeline
	for _, f := range []int{10, 1, 5, 0} {
		if err := tl.Set(kfAt(f, float64(f))); err != nil {
			t.Fatalf("Set(%d): %v", f, err)
		}
	}
	if diff := cmp.Diff([]int{0, 1, 5, 10}, tl.Frames()); diff != "" {
		t.Errorf("frames (-want +got):\n%s", diff)
	}
	if !tl.sorted() {
		t.Error("timeline not sorted")
	}
}

func TestTimelineSetReplaces(t *testing.T) {
	var tl Timeline
	tl.Set(kfAt(4, 1))
	tl.Set(kfAt(4, 2))
	if tl.Len() != 1 {
		t.Fatalf("Len = %d, want 1", tl.Len())
	}
	if got := tl.At(0).Position[0]; got != 2 {
		t.Errorf("replaced keyframe x = %v, want 2", got)
	}
}

func TestTimelineSetRejectsNegative(t *testing.T) {
	var tl Timeline
	if err := tl.Set(kfAt(UnsetFrame, 0)); !errors.Is(err, ErrInvalidFrame) {
		t.Errorf("Set(-1) = %v, want ErrInvalidFrame", err)
	}
	if tl.Len() != 0 {
		t.Error("rejected keyframe was stored")
	}
}

func TestTimelineDelete(t *testing.T) {
	var tl Timeline
	tl.Set(kfAt(1, 0))
	tl.Set(kfAt(5, 0))
	tl.Set(kfAt(9, 0))

	if !tl.Delete(5) {
		t.Error("Delete(5) = false")
	}
	if tl.Delete(5) {
		t.Error("second Delete(5) = true")
	}
	if tl.Delete(3) {
		t.Error("Delete(3) = true for missing frame")
	}
	if diff := cmp.Diff([]int{1, 9}, tl.Frames()); diff != "" {
		t.Errorf("frames (-want +got):\n%s", diff)
	}
}

func TestTimelineResetAndFind(t *testing.T) {
	var tl Timeline
	tl.Set(kfAt(2, 7))
	if kf, ok := tl.Find(2); !ok || kf.Position[0] != 7 {
		t.Errorf("Find(2) = %+v, %v", kf, ok)
	}
	if _, ok := tl.Find(3); ok {
		t.Error("Find(3) found a keyframe")
	}
	tl.Reset()
	if tl.Len() != 0 {
		t.Errorf("Len after Reset = %d", tl.Len())
	}
	if _, ok := tl.First(); ok {
		t.Error("First on empty timeline")
	}
	if _, ok := tl.Last(); ok {
		t.Error("Last on empty timeline")
	}
}

func TestTimelineKeyframesIsCopy(t *testing.T) {
	var tl Timeline
	tl.Set(kfAt(1, 1))
	ks := tl.Keyframes()
	ks[0].Frame = 99
	if tl.At(0).Frame != 1 {
		t.Error("Keyframes() aliases internal storage")
	}
}

func TestTimelineBracket(t *testing.T) {
	var tl Timeline
	tl.Set(kfAt(1, 0))
	tl.Set(kfAt(5, 0))
	tl.Set(kfAt(10, 0))

	cases := []struct {
		frame    int
		from, to int
		ok       bool
	}{
		{frame: 0, ok: false},
		{frame: 1, from: 1, to: 5, ok: true},
		{frame: 3, from: 1, to: 5, ok: true},
		{frame: 5, from: 1, to: 5, ok: true}, // first matching pair wins
		{frame: 7, from: 5, to: 10, ok: true},
		{frame: 10, from: 5, to: 10, ok: true},
		{frame: 11, ok: false},
	}
	for _, tc := range cases {
		kf1, kf2, ok := tl.Bracket(tc.frame)
		if ok != tc.ok {
			t.Errorf("Bracket(%d) ok = %v, want %v", tc.frame, ok, tc.ok)
			continue
		}
		if ok && (kf1.Frame != tc.from || kf2.Frame != tc.to) {
			t.Errorf("Bracket(%d) = [%d, %d], want [%d, %d]", tc.frame, kf1.Frame, kf2.Frame, tc.from, tc.to)
		}
	}
}

func TestTimelineBracketNeedsTwoKeys(t *testing.T) {
	var tl Timeline
	tl.Set(kfAt(3, 0))
	if _, _, ok := tl.Bracket(3); ok {
		t.Error("single keyframe should not bracket")
	}
}

func TestKeyframeAtCapturesChannels(t *testing.T) {
	n := NewScene().NewNode("n")
	n.Position = Vec3{1, 2, 3}
	n.Rotation = Vec3{0, 45, 0}
	kf := KeyframeAt(n, 12)
	want := Keyframe{Frame: 12, Position: n.Position, Rotation: n.Rotation, Scale: n.Scale}
	if kf != want {
		t.Errorf("KeyframeAt = %+v, want %+v", kf, want)
	}
	if kf.Pose() != n.Pose() {
		t.Error("Keyframe.Pose does not match node pose")
	}
}
