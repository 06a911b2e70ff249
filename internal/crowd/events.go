package crowd

import "github.com/go-gl/mathgl/mgl32"

type EventType int

const (
	EventModeChanged EventType = iota
	EventResized
	EventUnmounted
)

type Event struct {
	Type   EventType
	Mode   TargetMode // EventModeChanged: the new mode
	Target mgl32.Vec3 // shared target when the event fired
	W, H   int        // EventResized
}

type EventHandler func(Event)

// EventBus fans stage events out to subscribers on the frame loop goroutine.
type EventBus struct {
	handlers map[EventType][]EventHandler
}

func NewEventBus() *EventBus {
	return &EventBus{
		handlers: make(map[EventType][]EventHandler),
	}
}

func (eb *EventBus) Subscribe(t EventType, fn EventHandler) {
	eb.handlers[t] = append(eb.handlers[t], fn)
}

func (eb *EventBus) Emit(e Event) {
	for _, fn := range eb.handlers[e.Type] {
		fn(e)
	}
}
