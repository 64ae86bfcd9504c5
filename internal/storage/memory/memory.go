// Package memory is the file export backend: it holds the finished run in
// memory and writes a JSON export, a per-station CSV, and a plain-text
// clearance report to the configured output directory.
package memory

import (
	"fmt"
	"sync"

	"github.com/windroute/gabarit/internal/config"
	"github.com/windroute/gabarit/pkg/core"
)

// Backend exports analysis results to files.
type Backend struct {
	cfg config.MemoryConfig

	run    core.RunInfo
	result *core.Result

	lastExportPath string
	mu             sync.Mutex
}

// New creates a new file export backend.
func New(cfg config.MemoryConfig) *Backend {
	return &Backend{cfg: cfg}
}

// Init initializes the backend.
func (b *Backend) Init() error {
	return nil
}

// Close cleans up resources.
func (b *Backend) Close() error {
	return nil
}

// SaveRun stores the result and writes all export files.
func (b *Backend) SaveRun(run core.RunInfo, result *core.Result) error {
	if result == nil {
		return fmt.Errorf("nil result")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.run = run
	b.result = result

	if err := b.exportJSON(); err != nil {
		return err
	}
	if err := b.exportCSV(); err != nil {
		return err
	}
	return b.exportReport()
}

// GetExportedFilePath returns the path of the last JSON export, for upload.
func (b *Backend) GetExportedFilePath() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastExportPath
}

// GetExportMetadata returns the upload form metadata for the last run.
func (b *Backend) GetExportMetadata() core.UploadMetadata {
	b.mu.Lock()
	defer b.mu.Unlock()

	meta := core.UploadMetadata{RunID: b.run.ID, BladeType: b.run.BladeType}
	if b.result != nil {
		meta.Passable = b.result.Summary.Passable
	}
	return meta
}
