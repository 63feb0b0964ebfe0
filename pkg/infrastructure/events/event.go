package events

import (
	"slices"
	"time"

	"github.com/vsinha/supplysim/pkg/domain/entities"
)

// Event is one entry of an order or inventory stream. Day is the simulated
// day the event belongs to; RecordedAt is wall-clock time.
type Event interface {
	Type() string
	StreamID() string
	Day() entities.Day
	Data() any
	RecordedAt() time.Time
	Version() int
}

// EventHandler reacts to published events of the types it accepts
type EventHandler interface {
	Handle(event Event) error
	CanHandle(eventType string) bool
}

// EventStore records simulation events per stream. Publishers never fail
// a run because of the store.
type EventStore interface {
	AppendEvent(streamID string, event Event) error
	ReadEvents(streamID string, fromVersion int) ([]Event, error)
	ReadAllEvents(fromPosition int) ([]Event, error)
	Subscribe(eventTypes []string, handler EventHandler) error
	Unsubscribe(handler EventHandler) error
}

// SimulationEvent is the Event implementation used by every publisher
type SimulationEvent struct {
	EventType string
	Stream    string
	SimDay    entities.Day
	Payload   any
	Recorded  time.Time
	Seq       int
}

func (e SimulationEvent) Type() string          { return e.EventType }
func (e SimulationEvent) StreamID() string      { return e.Stream }
func (e SimulationEvent) Day() entities.Day     { return e.SimDay }
func (e SimulationEvent) Data() any             { return e.Payload }
func (e SimulationEvent) RecordedAt() time.Time { return e.Recorded }

// Version is the event's 1-based position within its stream, assigned on append
func (e SimulationEvent) Version() int { return e.Seq }

// NewEvent creates an unversioned event for day
func NewEvent(eventType, streamID string, day entities.Day, payload any) Event {
	return SimulationEvent{
		EventType: eventType,
		Stream:    streamID,
		SimDay:    day,
		Payload:   payload,
		Recorded:  time.Now(),
	}
}

// HandlerFunc adapts a function to an EventHandler for the given types
type HandlerFunc struct {
	Types []string
	Fn    func(Event) error
}

func (h *HandlerFunc) Handle(event Event) error {
	return h.Fn(event)
}

func (h *HandlerFunc) CanHandle(eventType string) bool {
	return slices.Contains(h.Types, eventType)
}
