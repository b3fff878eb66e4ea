package armature

import (
	"bytes"
	"testing"
)

// setupBenchScene creates a Scene with n joints in chains of depth 10, each
// keyed at frames 1 and 100.
func setupBenchScene(n int) *Scene {
	s := NewScene()
	var parent *Node
	for i := 0; i < n; i++ {
		if i%10 == 0 {
			parent = nil
		}
		j := s.AddJoint(parent)
		j.Position = Vec3{1, 0, 0}
		s.SetKeyframe(j, 1)
		j.Rotation = Vec3{0, float64(i % 90), 0}
		s.SetKeyframe(j, 100)
		parent = j
	}
	s.ClearSelection()
	s.SetRange(1, 100)
	return s
}

// --- Playback Benchmarks ---

func BenchmarkTick_1000Joints(b *testing.B) {
	s := setupBenchScene(1000)
	s.Play()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		s.Tick()
	}
}

func BenchmarkTick_1000Joints_Ease(b *testing.B) {
	s := setupBenchScene(1000)
	s.SetEase(true)
	s.Play()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		s.Tick()
	}
}

func BenchmarkSample_ManyKeyframes(b *testing.B) {
	var tl Timeline
	for f := 0; f < 1000; f += 2 {
		tl.Set(Keyframe{Frame: f, Position: Vec3{float64(f), 0, 0}, Scale: Vec3{1, 1, 1}})
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		tl.Sample(i%999, SigmoidEase)
	}
}

// --- Transform Benchmarks ---

func BenchmarkWorldTransform_Depth10(b *testing.B) {
	s := setupBenchScene(10)
	leaf := s.Joints()[9]

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		leaf.WorldTransform()
	}
}

func BenchmarkPick_1000Joints(b *testing.B) {
	s := setupBenchScene(1000)
	ray := Ray{Origin: Vec3{0, 0, 50}, Dir: Vec3{0, 0, -1}}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Pick(ray)
	}
}

// --- Persistence Benchmarks ---

func BenchmarkSaveLoad_1000Joints(b *testing.B) {
	s := setupBenchScene(1000)
	var buf bytes.Buffer
	s.Save(&buf)
	data := buf.Bytes()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		buf.Reset()
		s.Save(&buf)
		if _, err := NewScene().Load(bytes.NewReader(data)); err != nil {
			b.Fatal(err)
		}
	}
}
