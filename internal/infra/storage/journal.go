package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MRamiBalles/PocketPet/internal/events"
)

// pruneEvery is how many appends pass between two retention sweeps.
const pruneEvery = 64

// JournalPersister writes event log entries through an EventRepository.
type JournalPersister struct {
	repo    EventRepository
	petKey  string
	timeout time.Duration

	retention int // newest events kept on disk; 0 keeps all
	appended  int
}

// NewJournalPersister scopes the journal to one pet record key.
func NewJournalPersister(repo EventRepository, petKey string) *JournalPersister {
	return &JournalPersister{repo: repo, petKey: petKey, timeout: 2 * time.Second}
}

// SetRetention caps the stored journal at the newest n events.
func (j *JournalPersister) SetRetention(n int) {
	if n < 0 {
		n = 0
	}
	j.retention = n
}

// Prune applies the retention cap now.
func (j *JournalPersister) Prune(ctx context.Context) (int64, error) {
	if j.retention == 0 {
		return 0, nil
	}
	return j.repo.Prune(ctx, j.petKey, j.retention)
}

// Append implements events.EventPersister.
func (j *JournalPersister) Append(e events.PetEvent) error {
	payload, err := payloadMap(e.Payload)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()
	err = j.repo.Append(ctx, StoredEvent{
		ID:        e.ID,
		PetKey:    j.petKey,
		Timestamp: e.Timestamp,
		EventType: string(e.Type),
		ActorID:   e.ActorID,
		PetName:   e.PetName,
		Payload:   payload,
		Tick:      e.Tick,
	})
	if err != nil {
		return err
	}

	// Appends come from the engine under its lock, one at a time.
	j.appended++
	if j.retention > 0 && j.appended%pruneEvery == 0 {
		if _, err := j.repo.Prune(ctx, j.petKey, j.retention); err != nil {
			return err
		}
	}
	return nil
}

// Load returns the persisted journal as event log entries.
func (j *JournalPersister) Load(ctx context.Context) ([]events.PetEvent, error) {
	stored, err := j.repo.GetAll(ctx, j.petKey)
	if err != nil {
		return nil, err
	}
	if j.retention > 0 && len(stored) > j.retention {
		stored = stored[len(stored)-j.retention:]
	}
	out := make([]events.PetEvent, 0, len(stored))
	for _, s := range stored {
		out = append(out, events.PetEvent{
			ID:        s.ID,
			Timestamp: s.Timestamp,
			Type:      events.EventType(s.EventType),
			ActorID:   s.ActorID,
			PetName:   s.PetName,
			Payload:   s.Payload,
			Tick:      s.Tick,
		})
	}
	return out, nil
}

// payloadMap flattens a typed payload into the generic stored shape.
func payloadMap(p interface{}) (map[string]interface{}, error) {
	if p == nil {
		return map[string]interface{}{}, nil
	}
	if m, ok := p.(map[string]interface{}); ok {
		return m, nil
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	out := map[string]interface{}{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("payload is not an object: %w", err)
	}
	return out, nil
}
