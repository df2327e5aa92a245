package storage

import (
	"context"
	"sync"

	"github.com/MRamiBalles/PocketPet/internal/domain/pet"
)

// MemoryStateStore keeps the encoded record in memory. It still goes through
// the codec so that it behaves like the durable stores.
type MemoryStateStore struct {
	mu   sync.Mutex
	data []byte
}

// NewMemoryStateStore returns an empty store.
func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{}
}

func (m *MemoryStateStore) Load(ctx context.Context) (*pet.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, nil
	}
	return DecodeState(m.data)
}

func (m *MemoryStateStore) Save(ctx context.Context, s pet.State) error {
	data, err := EncodeState(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.data = data
	m.mu.Unlock()
	return nil
}

func (m *MemoryStateStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	m.data = nil
	m.mu.Unlock()
	return nil
}

// Raw exposes the stored bytes, mainly for tests.
func (m *MemoryStateStore) Raw() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.data...)
}

// SetRaw replaces the stored bytes verbatim.
func (m *MemoryStateStore) SetRaw(data []byte) {
	m.mu.Lock()
	m.data = append([]byte(nil), data...)
	m.mu.Unlock()
}
