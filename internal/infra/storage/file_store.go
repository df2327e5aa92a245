package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/MRamiBalles/PocketPet/internal/domain/pet"
)

// FileStateStore keeps the record as a JSON document on disk.
type FileStateStore struct {
	path string
}

// NewFileStateStore stores the record at path.
func NewFileStateStore(path string) *FileStateStore {
	return &FileStateStore{path: path}
}

// Load returns nil when the file does not exist.
func (f *FileStateStore) Load(ctx context.Context) (*pet.State, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read pet file: %w", err)
	}
	return DecodeState(data)
}

// Save writes to a temp file and renames it over the record.
func (f *FileStateStore) Save(ctx context.Context, s pet.State) error {
	data, err := EncodeState(s)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create pet file directory: %w", err)
		}
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write pet file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("rename pet file: %w", err)
	}
	return nil
}

// Clear removes the file. A missing file is not an error.
func (f *FileStateStore) Clear(ctx context.Context) error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove pet file: %w", err)
	}
	return nil
}
