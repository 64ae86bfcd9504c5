// Package sqlite persists analysis runs to a local SQLite database. Writes go
// to an in-memory database first and are vacuumed to disk after the run, so a
// slow disk never stalls station processing.
package sqlite

import (
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/windroute/gabarit/internal/database"
	"github.com/windroute/gabarit/internal/storage/gormstore"
	"github.com/windroute/gabarit/pkg/core"
)

// Backend stores runs in SQLite.
type Backend struct {
	path  string
	log   zerolog.Logger
	db    *gorm.DB
	store *gormstore.Backend
}

// New creates a SQLite backend writing to the given file. An empty path keeps
// the database in memory only.
func New(path string, log zerolog.Logger) *Backend {
	return &Backend{path: path, log: log}
}

// Init opens the in-memory database and migrates the schema.
func (b *Backend) Init() error {
	db, err := database.GetSqliteDBStandalone("")
	if err != nil {
		return fmt.Errorf("failed to open SQLite DB: %w", err)
	}
	b.db = db
	b.store = gormstore.New(db)
	return b.store.Init()
}

// Close releases the connection.
func (b *Backend) Close() error {
	if b.store == nil {
		return nil
	}
	return b.store.Close()
}

// SaveRun writes the run and dumps the database to disk when a file path is
// configured.
func (b *Backend) SaveRun(run core.RunInfo, result *core.Result) error {
	if b.store == nil {
		return fmt.Errorf("backend not initialized")
	}
	if err := b.store.SaveRun(run, result); err != nil {
		return err
	}

	if b.path != "" {
		if err := database.DumpMemoryDBToDisk(b.db, b.path); err != nil {
			return fmt.Errorf("failed to dump DB to %s: %w", b.path, err)
		}
		b.log.Info().Str("path", b.path).Msg("Saved run to SQLite file")
	}
	return nil
}
