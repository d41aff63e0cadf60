package ecs

import (
	"github.com/phanxgames/peekaboo"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// FoundEventType is the Donburi event type for found characters.
var FoundEventType = events.NewEventType[peekaboo.FoundEvent]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world.
// Found events are published to FoundEventType and can be consumed with
// Subscribe and ProcessEvents.
func NewDonburiSink(world donburi.World) peekaboo.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitFound(event peekaboo.FoundEvent) {
	FoundEventType.Publish(s.world, event)
}
