package storage

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/windroute/gabarit/internal/config"
)

func TestNewBackend_Memory(t *testing.T) {
	b, err := NewBackend(config.StorageConfig{
		Type:   "memory",
		Memory: config.MemoryConfig{OutputDir: t.TempDir()},
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewBackend failed: %v", err)
	}
	if b == nil {
		t.Fatal("backend is nil")
	}

	// The file export backend supports uploads.
	if _, ok := b.(Uploadable); !ok {
		t.Error("memory backend should implement Uploadable")
	}
}

func TestNewBackend_Sqlite(t *testing.T) {
	b, err := NewBackend(config.StorageConfig{Type: "sqlite"}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewBackend failed: %v", err)
	}
	if b == nil {
		t.Fatal("backend is nil")
	}
}

func TestNewBackend_Postgres(t *testing.T) {
	b, err := NewBackend(config.StorageConfig{Type: "postgres"}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewBackend failed: %v", err)
	}
	if b == nil {
		t.Fatal("backend is nil")
	}
}

func TestNewBackend_Unknown(t *testing.T) {
	if _, err := NewBackend(config.StorageConfig{Type: "tape"}, zerolog.Nop()); err == nil {
		t.Error("expected error for unknown backend type")
	}
}
