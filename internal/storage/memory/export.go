// internal/storage/memory/export.go
package memory

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/windroute/gabarit/internal/geo"
	"github.com/windroute/gabarit/pkg/core"
)

// RunExport is the root JSON structure. EnvelopeWKT carries the footprint
// polygon in a form GIS tools load directly.
type RunExport struct {
	RunID       string       `json:"runId"`
	StartTime   time.Time    `json:"startTime"`
	Version     string       `json:"version"`
	PathEPSG    int          `json:"pathEpsg"`
	RasterEPSG  int          `json:"rasterEpsg"`
	Result      *core.Result `json:"result"`
	EnvelopeWKT string       `json:"envelopeWkt,omitempty"`
}

// exportJSON writes the full result to a JSON file, gzipped when configured.
func (b *Backend) exportJSON() error {
	export := RunExport{
		RunID:      b.run.ID,
		StartTime:  b.run.StartTime,
		Version:    b.run.Version,
		PathEPSG:   b.run.PathEPSG,
		RasterEPSG: b.run.RasterEPSG,
		Result:     b.result,
	}
	if poly, err := geo.Polygon(b.result.Envelope.Ring); err == nil {
		export.EnvelopeWKT = poly.AsText()
	}

	var filename string
	if b.cfg.CompressOutput {
		filename = fmt.Sprintf("%s.json.gz", b.run.ID)
	} else {
		filename = fmt.Sprintf("%s.json", b.run.ID)
	}
	outputPath := filepath.Join(b.cfg.OutputDir, filename)

	if err := os.MkdirAll(b.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if b.cfg.CompressOutput {
		if err := b.writeGzipJSON(outputPath, export); err != nil {
			return err
		}
	} else {
		if err := b.writeJSON(outputPath, export); err != nil {
			return err
		}
	}

	b.lastExportPath = outputPath
	return nil
}

func (b *Backend) writeJSON(path string, data RunExport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	return encoder.Encode(data)
}

func (b *Backend) writeGzipJSON(path string, data RunExport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	gzWriter := gzip.NewWriter(f)
	defer gzWriter.Close()

	encoder := json.NewEncoder(gzWriter)
	return encoder.Encode(data)
}
