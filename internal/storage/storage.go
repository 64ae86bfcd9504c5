// internal/storage/storage.go
package storage

import "github.com/windroute/gabarit/pkg/core"

// Backend is the interface all result sink implementations must satisfy.
// SaveRun receives the complete, immutable analysis result — partial runs
// are never persisted.
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Result persistence
	SaveRun(run core.RunInfo, result *core.Result) error
}

// Uploadable is an optional interface for backends that produce files
// suitable for upload to a hosting application.
type Uploadable interface {
	GetExportedFilePath() string
	GetExportMetadata() core.UploadMetadata
}
