package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MRamiBalles/PocketPet/internal/domain/pet"
)

// SQLiteStateStore implements StateStore as one row of the kv table.
type SQLiteStateStore struct {
	db  *sql.DB
	key string
}

// NewSQLiteStateStore namespaces the record under key.
func NewSQLiteStateStore(db *sql.DB, key string) *SQLiteStateStore {
	return &SQLiteStateStore{db: db, key: key}
}

func (r *SQLiteStateStore) Load(ctx context.Context) (*pet.State, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, r.key).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load pet record: %w", err)
	}
	return DecodeState([]byte(value))
}

func (r *SQLiteStateStore) Save(ctx context.Context, s pet.State) error {
	data, err := EncodeState(s)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value=excluded.value,
			updated_at=excluded.updated_at
	`
	if _, err := r.db.ExecContext(ctx, query, r.key, string(data), time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to save pet record: %w", err)
	}
	return nil
}

func (r *SQLiteStateStore) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, r.key); err != nil {
		return fmt.Errorf("failed to clear pet record: %w", err)
	}
	return nil
}

// ---------------------------------------------------------
// SQLiteEventRepository
// ---------------------------------------------------------

// SQLiteEventRepository implements EventRepository for SQLite.
type SQLiteEventRepository struct {
	db *sql.DB
}

func NewSQLiteEventRepository(db *sql.DB) *SQLiteEventRepository {
	return &SQLiteEventRepository{db: db}
}

func (r *SQLiteEventRepository) Append(ctx context.Context, event StoredEvent) error {
	payloadBytes, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	query := `
		INSERT INTO events (id, pet_key, timestamp, event_type, actor_id, pet_name, payload, tick)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		event.ID, event.PetKey, event.Timestamp.UTC().UnixNano(), event.EventType, event.ActorID,
		event.PetName, string(payloadBytes), event.Tick,
	)
	if err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}

func (r *SQLiteEventRepository) getMany(ctx context.Context, query string, args ...interface{}) ([]StoredEvent, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []StoredEvent
	for rows.Next() {
		var e StoredEvent
		var payloadStr string
		var nanos int64
		err := rows.Scan(
			&e.ID, &e.PetKey, &nanos, &e.EventType, &e.ActorID,
			&e.PetName, &payloadStr, &e.Tick,
		)
		if err != nil {
			return nil, err
		}
		e.Timestamp = time.Unix(0, nanos).UTC()
		if err := json.Unmarshal([]byte(payloadStr), &e.Payload); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *SQLiteEventRepository) GetAll(ctx context.Context, petKey string) ([]StoredEvent, error) {
	query := `SELECT id, pet_key, timestamp, event_type, actor_id, pet_name, payload, tick FROM events WHERE pet_key = ? ORDER BY timestamp ASC, rowid ASC`
	return r.getMany(ctx, query, petKey)
}

func (r *SQLiteEventRepository) GetByEventType(ctx context.Context, petKey string, eventType string) ([]StoredEvent, error) {
	query := `SELECT id, pet_key, timestamp, event_type, actor_id, pet_name, payload, tick FROM events WHERE pet_key = ? AND event_type = ? ORDER BY timestamp ASC, rowid ASC`
	return r.getMany(ctx, query, petKey, eventType)
}

func (r *SQLiteEventRepository) Prune(ctx context.Context, petKey string, keep int) (int64, error) {
	query := `DELETE FROM events WHERE pet_key = ? AND rowid NOT IN (
		SELECT rowid FROM events WHERE pet_key = ? ORDER BY timestamp DESC, rowid DESC LIMIT ?)`
	res, err := r.db.ExecContext(ctx, query, petKey, petKey, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune events: %w", err)
	}
	return res.RowsAffected()
}
