// pkg/core/run.go
package core

import "time"

// RunInfo identifies one analysis invocation. It accompanies the Result
// through storage, upload, and log context.
type RunInfo struct {
	ID           string    `json:"id"`
	StartTime    time.Time `json:"startTime"`
	BladeType    string    `json:"bladeType"`
	PathVertices int       `json:"pathVertices"`
	PathEPSG     int       `json:"pathEpsg"`
	RasterEPSG   int       `json:"rasterEpsg"`
	Version      string    `json:"version"`
}

// UploadMetadata is the form metadata sent with a result upload.
type UploadMetadata struct {
	RunID     string
	BladeType string
	Passable  bool
	Duration  float64 // analysis wall time in seconds
	Tag       string
}
