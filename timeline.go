package armature

import "sort"

// UnsetFrame marks a keyframe that has not been placed on a timeline. It is
// never stored.
const UnsetFrame = -1

// Keyframe is a pose captured at a frame number.
type Keyframe struct {
	Frame    int  `json:"frame"`
	Position Vec3 `json:"position"`
	Rotation Vec3 `json:"rotation"`
	Scale    Vec3 `json:"scale"`
}

// Pose returns the keyframe's channels.
func (k Keyframe) Pose() Pose {
	return Pose{Position: k.Position, Rotation: k.Rotation, Scale: k.Scale}
}

// KeyframeAt captures the node's current channels as a keyframe at frame.
func KeyframeAt(n *Node, frame int) Keyframe {
	return Keyframe{Frame: frame, Position: n.Position, Rotation: n.Rotation, Scale: n.Scale}
}

// Timeline is the ordered keyframe sequence of one joint. Keyframes are kept
// sorted by ascending Frame with at most one keyframe per frame.
// The zero value is an empty timeline ready to use.
type Timeline struct {
	keys []Keyframe
}

// Set inserts kf in frame order. A keyframe already stored at the same frame
// is replaced. Returns ErrInvalidFrame for negative frames.
func (t *Timeline) Set(kf Keyframe) error {
	if kf.Frame < 0 {
		return ErrInvalidFrame
	}
	i := t.search(kf.Frame)
	if i < len(t.keys) && t.keys[i].Frame == kf.Frame {
		t.keys[i] = kf
		return nil
	}
	t.keys = append(t.keys, Keyframe{})
	copy(t.keys[i+1:], t.keys[i:])
	t.keys[i] = kf
	return nil
}

// Delete removes the keyframe at frame and reports whether one was found.
func (t *Timeline) Delete(frame int) bool {
	i := t.search(frame)
	if i >= len(t.keys) || t.keys[i].Frame != frame {
		return false
	}
	copy(t.keys[i:], t.keys[i+1:])
	t.keys = t.keys[:len(t.keys)-1]
	return true
}

// Reset removes every keyframe.
func (t *Timeline) Reset() {
	t.keys = t.keys[:0]
}

// Len returns the number of keyframes.
func (t *Timeline) Len() int {
	return len(t.keys)
}

// At returns the keyframe at index i in frame order.
func (t *Timeline) At(i int) Keyframe {
	return t.keys[i]
}

// Keyframes returns a copy of the keyframes in frame order.
func (t *Timeline) Keyframes() []Keyframe {
	out := make([]Keyframe, len(t.keys))
	copy(out, t.keys)
	return out
}

// Frames returns the keyed frame numbers in ascending order.
func (t *Timeline) Frames() []int {
	out := make([]int, len(t.keys))
	for i, k := range t.keys {
		out[i] = k.Frame
	}
	return out
}

// Find returns the keyframe stored at frame.
func (t *Timeline) Find(frame int) (Keyframe, bool) {
	i := t.search(frame)
	if i < len(t.keys) && t.keys[i].Frame == frame {
		return t.keys[i], true
	}
	return Keyframe{}, false
}

// First returns the earliest keyframe.
func (t *Timeline) First() (Keyframe, bool) {
	if len(t.keys) == 0 {
		return Keyframe{}, false
	}
	return t.keys[0], true
}

// Last returns the latest keyframe.
func (t *Timeline) Last() (Keyframe, bool) {
	if len(t.keys) == 0 {
		return Keyframe{}, false
	}
	return t.keys[len(t.keys)-1], true
}

// Bracket returns the first consecutive pair with
// kf1.Frame <= frame <= kf2.Frame. ok is false when fewer than two keyframes
// exist or frame lies outside the keyed range.
func (t *Timeline) Bracket(frame int) (kf1, kf2 Keyframe, ok bool) {
	if len(t.keys) < 2 || frame < t.keys[0].Frame || frame > t.keys[len(t.keys)-1].Frame {
		return Keyframe{}, Keyframe{}, false
	}
	// First index whose frame is >= frame; the pair ending there (or starting
	// there when it is the first key) is the earliest match.
	i := t.search(frame)
	if i == 0 {
		i = 1
	}
	return t.keys[i-1], t.keys[i], true
}

// search returns the index of the first keyframe with Frame >= frame.
func (t *Timeline) search(frame int) int {
	return sort.Search(len(t.keys), func(i int) bool { return t.keys[i].Frame >= frame })
}

// sorted reports whether keyframes are strictly ascending by frame.
func (t *Timeline) sorted() bool {
	for i := 1; i < len(t.keys); i++ {
		if t.keys[i-1].Frame >= t.keys[i].Frame {
			return false
		}
	}
	return true
}
