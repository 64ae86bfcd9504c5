// internal/storage/factory.go
package storage

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/windroute/gabarit/internal/config"
	"github.com/windroute/gabarit/internal/storage/memory"
	"github.com/windroute/gabarit/internal/storage/postgres"
	"github.com/windroute/gabarit/internal/storage/sqlite"
)

// NewBackend creates a result sink backend based on configuration.
func NewBackend(cfg config.StorageConfig, log zerolog.Logger) (Backend, error) {
	switch cfg.Type {
	case "postgres":
		return postgres.New(log), nil
	case "sqlite":
		return sqlite.New(cfg.SqlitePath, log), nil
	case "memory":
		return memory.New(cfg.Memory), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
