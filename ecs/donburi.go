package ecs

import (
	"github.com/phanxgames/armature"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// EditEventType is the Donburi event type for armature edit events.
var EditEventType = events.NewEventType[armature.EditEvent]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world. Edit events
// are queued on EditEventType and delivered by ProcessEvents.
func NewDonburiSink(world donburi.World) armature.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEvent(event armature.EditEvent) {
	EditEventType.Publish(s.world, event)
}
