package armature

// JointSnapshot is a read-only copy of one joint's state.
type JointSnapshot struct {
	ID            NodeID     `json:"id"`
	Name          string     `json:"name"`
	Parent        string     `json:"parent"` // "None" for roots
	Pose          Pose       `json:"pose"`
	World         Mat4       `json:"world"`
	WorldPosition Vec3       `json:"worldPosition"`
	Keyframes     []Keyframe `json:"keyframes"`
	Selected      bool       `json:"selected"`
}

// Snapshot is a deep copy of the scene's joints and playback state. It
// shares no memory with the scene, so it can be handed to other goroutines
// (renderers, network streams) while the owner keeps editing.
type Snapshot struct {
	Playback PlaybackState   `json:"playback"`
	Joints   []JointSnapshot `json:"joints"`
}

// Snapshot captures the current state. Joints appear in scene order.
func (s *Scene) Snapshot() *Snapshot {
	joints := s.Joints()
	snap := &Snapshot{
		Playback: s.playback,
		Joints:   make([]JointSnapshot, 0, len(joints)),
	}
	for _, n := range joints {
		world := n.WorldTransform()
		snap.Joints = append(snap.Joints, JointSnapshot{
			ID:            n.ID,
			Name:          n.Name,
			Parent:        nameOf(n.Parent()),
			Pose:          n.Pose(),
			World:         world,
			WorldPosition: world.Col(3).Vec3(),
			Keyframes:     n.Timeline.Keyframes(),
			Selected:      n.selected,
		})
	}
	return snap
}

// Joint returns the snapshot of the joint with the given name.
func (s *Snapshot) Joint(name string) (JointSnapshot, bool) {
	for _, j := range s.Joints {
		if j.Name == name {
			return j, true
		}
	}
	return JointSnapshot{}, false
}
