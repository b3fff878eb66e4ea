package armature

import "github.com/tanema/gween/ease"

// Interpolation selects how the blend parameter between two keyframes is
// shaped.
type Interpolation uint8

const (
	InterpolationLinear Interpolation = iota // straight per-channel lerp
	InterpolationEase                        // sigmoid slow-in/slow-out
)

// String returns "linear" or "ease".
func (i Interpolation) String() string {
	if i == InterpolationEase {
		return "ease"
	}
	return "linear"
}

// Curve returns the easing function for this interpolation kind. Linear
// returns nil, which Sample treats as the identity remap.
func (i Interpolation) Curve() ease.TweenFunc {
	if i == InterpolationEase {
		return SigmoidEase
	}
	return nil
}

// SigmoidEase is the ease-in/ease-out curve x²/(x²+(1-x)²) in gween's
// TweenFunc form: t is elapsed time, b the start value, c the change and d
// the duration. It passes through (0,0), (0.5,0.5) and (1,1).
func SigmoidEase(t, b, c, d float32) float32 {
	if d == 0 {
		return b + c
	}
	return b + c*float32(sigmoid(float64(t)/float64(d)))
}

// sigmoid is SigmoidEase on the unit interval in full precision.
func sigmoid(x float64) float64 {
	switch {
	case x <= 0:
		return 0
	case x >= 1:
		return 1
	}
	x2 := x * x
	y2 := (1 - x) * (1 - x)
	return x2 / (x2 + y2)
}

// remapFunc shapes the normalized blend parameter. nil is linear.
type remapFunc func(float64) float64

// tweenRemap adapts a gween curve, which works in float32, to a remapFunc.
func tweenRemap(curve ease.TweenFunc) remapFunc {
	if curve == nil {
		return nil
	}
	return func(t float64) float64 {
		return float64(curve(float32(t), 0, 1, 1))
	}
}

// Sample computes the pose at frame by blending the bracketing keyframes.
// curve remaps the normalized parameter; nil means linear. ok is false when
// the timeline cannot bracket frame, in which case callers hold the current
// pose.
func (t *Timeline) Sample(frame int, curve ease.TweenFunc) (Pose, bool) {
	return t.sample(frame, tweenRemap(curve))
}

func (t *Timeline) sample(frame int, remap remapFunc) (Pose, bool) {
	kf1, kf2, ok := t.Bracket(frame)
	if !ok {
		return Pose{}, false
	}
	s := blendParam(frame, kf1.Frame, kf2.Frame, remap)
	return Pose{
		Position: lerpVec(kf1.Position, kf2.Position, s),
		Rotation: lerpVec(kf1.Rotation, kf2.Rotation, s),
		Scale:    lerpVec(kf1.Scale, kf2.Scale, s),
	}, true
}

// blendParam normalizes frame into [0, 1] over [start, end] and applies remap.
// Coincident keyframes yield 0.
func blendParam(frame, start, end int, remap remapFunc) float64 {
	if end == start {
		return 0
	}
	t := float64(frame-start) / float64(end-start)
	if remap == nil || t == 0 || t == 1 {
		return t
	}
	return remap(t)
}

// lerpVec blends a toward b by s per component. s == 0 returns a exactly.
func lerpVec(a, b Vec3, s float64) Vec3 {
	if s == 0 {
		return a
	}
	if s == 1 {
		return b
	}
	return Vec3{
		a[0] + (b[0]-a[0])*s,
		a[1] + (b[1]-a[1])*s,
		a[2] + (b[2]-a[2])*s,
	}
}
