package events

import (
	"fmt"
	"sync"
)

// InMemoryEventStore keeps every stream in memory. Subscribers are notified
// synchronously, in subscription order, so a simulation run stays
// deterministic.
type InMemoryEventStore struct {
	streams     map[string][]Event
	subscribers map[string][]EventHandler
	mutex       sync.RWMutex
	position    int
	allEvents   []Event
	errors      []error
}

func NewInMemoryEventStore() *InMemoryEventStore {
	return &InMemoryEventStore{
		streams:     make(map[string][]Event),
		subscribers: make(map[string][]EventHandler),
		allEvents:   make([]Event, 0),
	}
}

func (s *InMemoryEventStore) AppendEvent(streamID string, event Event) error {
	s.mutex.Lock()

	if s.streams[streamID] == nil {
		s.streams[streamID] = make([]Event, 0)
	}

	eventWithVersion := SimulationEvent{
		EventType: event.Type(),
		Stream:    streamID,
		SimDay:    event.Day(),
		Payload:   event.Data(),
		Recorded:  event.RecordedAt(),
		Seq:       len(s.streams[streamID]) + 1,
	}

	s.streams[streamID] = append(s.streams[streamID], eventWithVersion)
	s.allEvents = append(s.allEvents, eventWithVersion)
	s.position++

	handlers := append([]EventHandler(nil), s.subscribers[eventWithVersion.Type()]...)
	s.mutex.Unlock()

	s.notifySubscribers(eventWithVersion, handlers)

	return nil
}

func (s *InMemoryEventStore) ReadEvents(streamID string, fromVersion int) ([]Event, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	events, exists := s.streams[streamID]
	if !exists {
		return []Event{}, nil
	}

	if fromVersion < 1 {
		fromVersion = 1
	}

	if fromVersion > len(events) {
		return []Event{}, nil
	}

	return append([]Event(nil), events[fromVersion-1:]...), nil
}

func (s *InMemoryEventStore) ReadAllEvents(fromPosition int) ([]Event, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if fromPosition < 0 {
		fromPosition = 0
	}

	if fromPosition >= len(s.allEvents) {
		return []Event{}, nil
	}

	return append([]Event(nil), s.allEvents[fromPosition:]...), nil
}

// EventsOfType returns every event of the given type in append order
func (s *InMemoryEventStore) EventsOfType(eventType string) []Event {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	matched := make([]Event, 0)
	for _, event := range s.allEvents {
		if event.Type() == eventType {
			matched = append(matched, event)
		}
	}
	return matched
}

func (s *InMemoryEventStore) Subscribe(eventTypes []string, handler EventHandler) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, eventType := range eventTypes {
		if s.subscribers[eventType] == nil {
			s.subscribers[eventType] = make([]EventHandler, 0)
		}
		s.subscribers[eventType] = append(s.subscribers[eventType], handler)
	}

	return nil
}

func (s *InMemoryEventStore) Unsubscribe(handler EventHandler) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for eventType, handlers := range s.subscribers {
		newHandlers := make([]EventHandler, 0)
		for _, h := range handlers {
			if h != handler {
				newHandlers = append(newHandlers, h)
			}
		}
		s.subscribers[eventType] = newHandlers
	}

	return nil
}

// HandlerErrors returns the errors raised by subscribers so far
func (s *InMemoryEventStore) HandlerErrors() []error {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return append([]error(nil), s.errors...)
}

func (s *InMemoryEventStore) notifySubscribers(event Event, handlers []EventHandler) {
	for _, handler := range handlers {
		if !handler.CanHandle(event.Type()) {
			continue
		}
		if err := handler.Handle(event); err != nil {
			s.mutex.Lock()
			s.errors = append(s.errors, fmt.Errorf("handling event %s: %w", event.Type(), err))
			s.mutex.Unlock()
		}
	}
}
