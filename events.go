package armature

// EventSink is the interface for optional edit-event consumers (an ECS
// bridge, an undo journal, a network mirror). When set on a Scene, every
// structural, keyframe, selection and playback change is forwarded.
type EventSink interface {
	EmitEvent(event EditEvent)
}

// EditEventType identifies a kind of scene change.
type EditEventType uint8

const (
	EventJointAdded       EditEventType = iota // a joint was created
	EventJointDeleted                          // a node was removed from the scene
	EventReparented                            // a node moved under a new parent (or became a root)
	EventKeyframeSet                           // a keyframe was inserted or replaced
	EventKeyframeDeleted                       // a keyframe was removed
	EventKeyframesReset                        // a timeline was cleared
	EventSelectionChanged                      // the selection changed
	EventFrameChanged                          // the frame cursor moved
	EventPlaybackToggled                       // playback started or stopped
	EventSceneLoaded                           // a scene file was loaded
)

// String returns a short name for logs.
func (t EditEventType) String() string {
	switch t {
	case EventJointAdded:
		return "joint-added"
	case EventJointDeleted:
		return "joint-deleted"
	case EventReparented:
		return "reparented"
	case EventKeyframeSet:
		return "keyframe-set"
	case EventKeyframeDeleted:
		return "keyframe-deleted"
	case EventKeyframesReset:
		return "keyframes-reset"
	case EventSelectionChanged:
		return "selection-changed"
	case EventFrameChanged:
		return "frame-changed"
	case EventPlaybackToggled:
		return "playback-toggled"
	case EventSceneLoaded:
		return "scene-loaded"
	default:
		return "unknown"
	}
}

// EditEvent carries the data of one scene change. Fields that do not apply to
// an event type are zero.
type EditEvent struct {
	Type   EditEventType
	Node   NodeID
	Name   string
	Parent NodeID // EventReparented: new parent, 0 for roots
	Frame  int    // keyframe events and EventFrameChanged
	// EventPlaybackToggled
	Playing bool
}

func (s *Scene) emit(e EditEvent) {
	if s.sink != nil {
		s.sink.EmitEvent(e)
	}
}
