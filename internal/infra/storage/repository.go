// Package storage provides the persistence layer for the pet services.
// This package implements the repository pattern to keep the domain pure.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MRamiBalles/PocketPet/internal/domain/pet"
)

// ErrMalformed marks a stored record that could not be decoded.
var ErrMalformed = errors.New("malformed pet record")

// StateStore is the key/value contract for the single pet record.
// The domain uses this interface; the implementations live here.
type StateStore interface {
	// Load returns the stored record, or nil when none exists.
	Load(ctx context.Context) (*pet.State, error)

	// Save replaces the stored record.
	Save(ctx context.Context, s pet.State) error

	// Clear discards the stored record.
	Clear(ctx context.Context) error
}

// StoredEvent mirrors the journal event structure for persistence.
// The events package does NOT import this; JournalPersister adapts it.
type StoredEvent struct {
	ID        string                 `json:"id" db:"id"`
	PetKey    string                 `json:"pet_key" db:"pet_key"`
	Timestamp time.Time              `json:"timestamp" db:"timestamp"`
	EventType string                 `json:"event_type" db:"event_type"`
	ActorID   string                 `json:"actor_id" db:"actor_id"`
	PetName   string                 `json:"pet_name" db:"pet_name"`
	Payload   map[string]interface{} `json:"payload" db:"payload"`
	Tick      int64                  `json:"tick" db:"tick"`
}

// EventRepository defines the interface for journal persistence.
type EventRepository interface {
	// Append adds a new event to the journal.
	Append(ctx context.Context, event StoredEvent) error

	// GetAll retrieves the journal of one pet record in order.
	GetAll(ctx context.Context, petKey string) ([]StoredEvent, error)

	// GetByEventType retrieves all events of a specific type.
	GetByEventType(ctx context.Context, petKey string, eventType string) ([]StoredEvent, error)

	// Prune keeps only the newest keep events of one pet record and reports
	// how many were deleted.
	Prune(ctx context.Context, petKey string, keep int) (int64, error)
}

// EncodeState serialises a record with the stored field names.
func EncodeState(s pet.State) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode pet record: %w", err)
	}
	return data, nil
}

// DecodeState parses a stored record on top of the defaults, so missing
// fields keep their starting values. A JSON null decodes to (nil, nil).
func DecodeState(data []byte) (*pet.State, error) {
	var probe json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if string(probe) == "null" {
		return nil, nil
	}

	s := pet.NewState()
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if s.Species != "" && !s.Species.Valid() {
		return nil, fmt.Errorf("%w: unknown species %q", ErrMalformed, s.Species)
	}
	return &s, nil
}
