// Package postgres persists analysis runs to a Postgres database, falling
// back to a local SQLite file when the server is unreachable.
package postgres

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/windroute/gabarit/internal/database"
	"github.com/windroute/gabarit/internal/storage/gormstore"
	"github.com/windroute/gabarit/pkg/core"
)

// Backend stores runs via the shared database manager.
type Backend struct {
	log     zerolog.Logger
	manager *database.Manager
	store   *gormstore.Backend
}

// New creates a Postgres backend.
func New(log zerolog.Logger) *Backend {
	return &Backend{log: log}
}

// Init connects and migrates the schema.
func (b *Backend) Init() error {
	b.manager = database.NewManager(b.log)
	b.manager.SqliteFilePath = viper.GetString("storage.sqlitePath")

	if err := b.manager.Connect(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := b.manager.Setup(); err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}
	if b.manager.ShouldSaveLocal {
		b.log.Warn().Msg("Postgres unreachable, saving runs to local SQLite")
	}

	b.store = gormstore.New(b.manager.DB)
	return nil
}

// Close releases the connection.
func (b *Backend) Close() error {
	if b.store == nil {
		return nil
	}
	return b.store.Close()
}

// SaveRun writes the run.
func (b *Backend) SaveRun(run core.RunInfo, result *core.Result) error {
	if b.store == nil || !b.manager.IsValid {
		return fmt.Errorf("backend not initialized")
	}
	return b.store.SaveRun(run, result)
}
