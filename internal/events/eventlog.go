// Package events provides the append-only journal of everything that happened to the pet.
// Views are rebuilt from pet state; the journal is history for clients and auditing.
package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType defines the category of a pet event.
type EventType string

const (
	EventTypeAdopted  EventType = "ADOPTED"
	EventTypeFed      EventType = "FED"
	EventTypePetted   EventType = "PETTED"
	EventTypeWoke     EventType = "WOKE"
	EventTypeSlept    EventType = "SLEPT"
	EventTypeTimeTick EventType = "TIME_TICK"
	EventTypeEvolved  EventType = "EVOLVED"
	EventTypeReset    EventType = "RESET"
)

// Actors.
const (
	ActorOwner  = "OWNER"
	ActorSystem = "SYSTEM_CLOCK"
)

// PetEvent represents an immutable record of something that happened to the pet.
type PetEvent struct {
	ID        string      `json:"id"`
	Timestamp time.Time   `json:"timestamp"`
	Type      EventType   `json:"type"`
	ActorID   string      `json:"actor_id"` // Who caused it
	PetName   string      `json:"pet_name"`
	Payload   interface{} `json:"payload"` // Event-specific data
	Tick      int64       `json:"tick"`    // Ticks seen by the clock when the event happened
}

// EventPersister defines how an event is durably stored.
type EventPersister interface {
	Append(event PetEvent) error
}

// EventLog is the in-memory append-only log of pet events. With a limit set
// only the newest events are kept; positions used by Since and Len keep
// counting the dropped ones.
type EventLog struct {
	mu        sync.RWMutex
	events    []PetEvent
	persister EventPersister
	limit     int
	dropped   int
}

// NewEventLog creates a new event log with an optional persister.
func NewEventLog(persister EventPersister) *EventLog {
	return &EventLog{
		events:    make([]PetEvent, 0),
		persister: persister,
	}
}

// Append adds a new event to the log and writes it through to the persister.
// The event stays in memory even when the write fails.
func (el *EventLog) Append(event PetEvent) error {
	if event.ID == "" {
		event.ID = GenerateEventID()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	el.mu.Lock()
	el.events = append(el.events, event)
	el.trimLocked()
	el.mu.Unlock()

	if el.persister != nil {
		return el.persister.Append(event)
	}
	return nil
}

// Restore loads previously persisted history without writing it again.
func (el *EventLog) Restore(history []PetEvent) {
	el.mu.Lock()
	defer el.mu.Unlock()
	el.events = append(el.events, history...)
	el.trimLocked()
}

// SetLimit caps how many events stay in memory. Zero keeps everything.
func (el *EventLog) SetLimit(n int) {
	el.mu.Lock()
	defer el.mu.Unlock()
	if n < 0 {
		n = 0
	}
	el.limit = n
	el.trimLocked()
}

func (el *EventLog) trimLocked() {
	if el.limit == 0 || len(el.events) <= el.limit {
		return
	}
	drop := len(el.events) - el.limit
	el.dropped += drop
	el.events = append([]PetEvent(nil), el.events[drop:]...)
}

// GetByType returns all events of one type.
func (el *EventLog) GetByType(t EventType) []PetEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()

	var result []PetEvent
	for _, e := range el.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// Since returns the retained events appended after the first n.
func (el *EventLog) Since(n int) []PetEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()
	n -= el.dropped
	if n >= len(el.events) {
		return nil
	}
	if n < 0 {
		n = 0
	}
	out := make([]PetEvent, len(el.events)-n)
	copy(out, el.events[n:])
	return out
}

// Len returns the number of events ever appended, dropped ones included.
func (el *EventLog) Len() int {
	el.mu.RLock()
	defer el.mu.RUnlock()
	return el.dropped + len(el.events)
}

// Replay returns a copy of the retained history.
func (el *EventLog) Replay() []PetEvent {
	return el.Since(0)
}

// GenerateEventID creates a unique event identifier.
func GenerateEventID() string {
	return uuid.NewString()
}
