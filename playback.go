package armature

import (
	"github.com/tanema/gween/ease"
	"go.uber.org/zap"
)

// PlaybackState is the frame cursor and transport state of a scene.
// Frame stays within [Begin, max(Begin, End)].
type PlaybackState struct {
	Frame   int  `json:"frame"`
	Begin   int  `json:"begin"`
	End     int  `json:"end"`
	Playing bool `json:"playing"`
	Ease    bool `json:"ease"` // use the ease curve instead of linear blending
}

// Playback returns a copy of the playback state.
func (s *Scene) Playback() PlaybackState {
	return s.playback
}

// Frame returns the current frame.
func (s *Scene) Frame() int {
	return s.playback.Frame
}

// Playing reports whether playback is running.
func (s *Scene) Playing() bool {
	return s.playback.Playing
}

// Play starts playback.
func (s *Scene) Play() {
	s.setPlaying(true)
}

// Stop pauses playback at the current frame.
func (s *Scene) Stop() {
	s.setPlaying(false)
}

// Toggle switches between playing and stopped.
func (s *Scene) Toggle() {
	s.setPlaying(!s.playback.Playing)
}

func (s *Scene) setPlaying(on bool) {
	if s.playback.Playing == on {
		return
	}
	s.playback.Playing = on
	s.emit(EditEvent{Type: EventPlaybackToggled, Playing: on, Frame: s.playback.Frame})
	s.log.Debug("playback toggled", zap.Bool("playing", on), zap.Int("frame", s.playback.Frame))
}

// Tick advances one playback step when playing and poses every joint. It
// does nothing while stopped.
func (s *Scene) Tick() {
	if !s.playback.Playing {
		return
	}
	s.advance()
}

// StepForward moves the cursor forward: one frame while playing, ScrubStep
// frames while stopped. Past End the cursor wraps to Begin.
func (s *Scene) StepForward() {
	s.advance()
}

// StepBack moves the cursor back by ScrubStep, never below Begin.
func (s *Scene) StepBack() {
	f := s.playback.Frame
	if f != s.playback.Begin {
		f -= ScrubStep
	}
	if f < s.playback.Begin {
		f = s.playback.Begin
	}
	s.moveTo(f)
}

func (s *Scene) advance() {
	step := ScrubStep
	if s.playback.Playing {
		step = PlaybackStep
	}
	f := s.playback.Frame + step
	if f > s.playback.End {
		f = s.playback.Begin
	}
	s.moveTo(f)
}

// SetFrame moves the cursor to f, clamped into the playback range, and poses
// every joint. Used for slider drags and timeline clicks.
func (s *Scene) SetFrame(f int) {
	s.moveTo(s.clampFrame(f))
}

// SetRange sets the playback range and clamps the cursor into it. An End
// before Begin is kept (an empty scene loads as [1, 0]); the cursor then
// stays at Begin.
func (s *Scene) SetRange(begin, end int) {
	s.playback.Begin = begin
	s.playback.End = end
	s.moveTo(s.clampFrame(s.playback.Frame))
}

func (s *Scene) clampFrame(f int) int {
	hi := max(s.playback.Begin, s.playback.End)
	return min(max(f, s.playback.Begin), hi)
}

// moveTo sets the cursor without clamping and reapplies poses.
func (s *Scene) moveTo(f int) {
	s.playback.Frame = f
	s.applyPoses()
	s.emit(EditEvent{Type: EventFrameChanged, Frame: f})
}

// applyPoses interpolates every joint with at least two keyframes to the
// current frame.
func (s *Scene) applyPoses() {
	remap := s.activeRemap()
	for _, id := range s.order {
		n := s.nodes[id]
		if n.Kind != NodeKindJoint || n.Timeline.Len() < 2 {
			continue
		}
		if pose, ok := n.Timeline.sample(s.playback.Frame, remap); ok {
			n.SetPose(pose)
		}
	}
}

// --- Interpolation mode ---

// SetEase selects ease (true) or linear (false) interpolation and reposes
// the skeleton.
func (s *Scene) SetEase(on bool) {
	s.playback.Ease = on
	s.applyPoses()
}

// Ease reports whether ease interpolation is selected.
func (s *Scene) Ease() bool {
	return s.playback.Ease
}

// Interpolation returns the active interpolation kind.
func (s *Scene) Interpolation() Interpolation {
	if s.playback.Ease {
		return InterpolationEase
	}
	return InterpolationLinear
}

// SetCurve replaces the curve used when ease interpolation is selected. nil
// restores SigmoidEase.
func (s *Scene) SetCurve(fn ease.TweenFunc) {
	s.curve = fn
	s.applyPoses()
}

// activeRemap returns the blend remap for the current mode; nil is linear.
// The default sigmoid runs in float64; installed gween curves go through
// their float32 form.
func (s *Scene) activeRemap() remapFunc {
	if !s.playback.Ease {
		return nil
	}
	if s.curve != nil {
		return tweenRemap(s.curve)
	}
	return sigmoid
}
