// Package app wires configuration, storage and the engine together for the
// command entry points. NO business logic belongs here.
package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MRamiBalles/PocketPet/internal/engine"
	"github.com/MRamiBalles/PocketPet/internal/events"
	"github.com/MRamiBalles/PocketPet/internal/infra/storage"
	"github.com/MRamiBalles/PocketPet/internal/platform/config"
	"github.com/MRamiBalles/PocketPet/internal/platform/logger"
)

// App is a ready-to-start engine plus the resources behind it.
type App struct {
	Engine   *engine.Engine
	EventLog *events.EventLog

	db *sql.DB
}

// Bootstrap opens the configured backend, restores the journal and builds
// the engine. Call Close when done.
func Bootstrap(ctx context.Context, cfg *config.Config, log *logger.Logger, opts ...engine.Option) (*App, error) {
	a := &App{}

	var backend storage.StateStore
	var persister events.EventPersister
	switch cfg.Store {
	case config.StoreSQLite:
		log.Info("Initializing SQLite database '" + cfg.DBPath + "'...")
		db, err := storage.InitSQLite(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("init sqlite: %w", err)
		}
		a.db = db
		backend = storage.NewSQLiteStateStore(db, cfg.StorageKey)

		journal := storage.NewJournalPersister(storage.NewSQLiteEventRepository(db), cfg.StorageKey)
		journal.SetRetention(cfg.JournalRetention)
		if n, err := journal.Prune(ctx); err != nil {
			log.Warn("Could not prune event journal: " + err.Error())
		} else if n > 0 {
			log.Info(fmt.Sprintf("Pruned %d old journal events.", n))
		}
		history, err := journal.Load(ctx)
		if err != nil {
			log.Warn("Could not restore event journal: " + err.Error())
		}
		a.EventLog = events.NewEventLog(journal)
		a.EventLog.Restore(history)
		persister = journal
	case config.StoreFile:
		log.Info("Using JSON file store '" + cfg.FilePath + "'")
		backend = storage.NewFileStateStore(cfg.FilePath)
	default:
		log.Info("Using in-memory store; the pet is lost on exit")
		backend = storage.NewMemoryStateStore()
	}
	if persister == nil {
		a.EventLog = events.NewEventLog(nil)
	}
	a.EventLog.SetLimit(cfg.JournalRetention)

	store := engine.NewStore(ctx, backend, log)
	all := append([]engine.Option{engine.WithTickPeriod(cfg.TickPeriod)}, opts...)
	a.Engine = engine.NewEngine(store, a.EventLog, log, all...)

	if ticks := lastTick(a.EventLog); ticks > 0 {
		a.Engine.OverrideTicks(ticks)
		log.Info(fmt.Sprintf("Restored clock at tick %d from the journal.", ticks))
	}
	return a, nil
}

// Close releases the database, if any.
func (a *App) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

func lastTick(el *events.EventLog) int64 {
	var last int64
	for _, e := range el.Replay() {
		if e.Tick > last {
			last = e.Tick
		}
	}
	return last
}
