package ecs

import (
	"github.com/phanxgames/gesturear"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// GestureEventType is the Donburi event type for dispatched gestures.
var GestureEventType = events.NewEventType[gesturear.GestureEvent]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world.
// Gestures are published to GestureEventType and can be consumed with
// Subscribe and ProcessEvents.
func NewDonburiSink(world donburi.World) gesturear.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) PublishGesture(ev gesturear.GestureEvent) {
	GestureEventType.Publish(s.world, ev)
}
