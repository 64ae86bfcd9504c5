// internal/storage/memory/report.go
package memory

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// reportObstacleLimit caps the obstacle detail section of the text report.
const reportObstacleLimit = 20

// exportCSV writes one row per station.
func (b *Backend) exportCSV() error {
	path := filepath.Join(b.cfg.OutputDir, fmt.Sprintf("%s_stations.csv", b.run.ID))

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"station", "distance_m", "x", "y", "heading_rad", "radius_m",
		"lateral_sweep_m", "dynamic_half_width_m", "status",
		"max_height_m", "mean_height_m", "valid_samples",
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, sr := range b.result.Stations {
		row := []string{
			strconv.Itoa(sr.Station.Index),
			formatFloat(sr.Station.Distance),
			formatFloat(sr.Station.Pos.X),
			formatFloat(sr.Station.Pos.Y),
			formatFloat(sr.Station.Heading),
			formatFloat(sr.Station.Radius),
			formatFloat(sr.Sweep.Sweep),
			formatFloat(sr.Sweep.HalfWidth),
			string(sr.Status),
			formatFloat(sr.MaxHeight),
			formatFloat(sr.MeanHeight),
			strconv.Itoa(sr.ValidSamples),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	w.Flush()
	return w.Error()
}

// exportReport writes the human-readable go/no-go summary.
func (b *Backend) exportReport() error {
	path := filepath.Join(b.cfg.OutputDir, fmt.Sprintf("%s_report.txt", b.run.ID))

	var sb strings.Builder
	rule := strings.Repeat("=", 70)
	res := b.result

	sb.WriteString(rule + "\n")
	sb.WriteString("CLEARANCE ANALYSIS REPORT - WIND TURBINE BLADE TRANSPORT\n")
	sb.WriteString(rule + "\n\n")

	sb.WriteString(fmt.Sprintf("Run: %s\n", b.run.ID))
	sb.WriteString(fmt.Sprintf("Blade type: %s\n", res.Profile.BladeType))
	sb.WriteString(fmt.Sprintf("Blade length: %gm\n", res.Profile.BladeLength))
	sb.WriteString(fmt.Sprintf("Convoy width: %gm\n", res.Profile.ConvoyWidth))
	sb.WriteString(fmt.Sprintf("Required clearance: < %gm\n\n", res.Clearance))

	sb.WriteString(fmt.Sprintf("Total path length: %.1fm\n", res.Summary.TotalLength))
	sb.WriteString(fmt.Sprintf("Stations analyzed: %d\n", res.Summary.StationCount))
	sb.WriteString(fmt.Sprintf("Stations without data: %d\n\n", res.Summary.NoDataCount))

	sb.WriteString(fmt.Sprintf("Maximum required width: %.2fm\n", res.Summary.MaxHalfWidth*2))
	sb.WriteString(fmt.Sprintf("Envelope area: %.1fm2\n\n", res.Summary.EnvelopeArea))

	if res.Summary.ObstacleCount == 0 {
		sb.WriteString("RESULT: PASSAGE POSSIBLE\n")
		sb.WriteString("No obstacle detected.\n")
	} else {
		sb.WriteString(fmt.Sprintf("RESULT: %d OBSTACLES DETECTED\n\n", res.Summary.ObstacleCount))
		sb.WriteString("OBSTACLE DETAIL:\n")
		for i, ob := range res.Obstacles {
			if i >= reportObstacleLimit {
				sb.WriteString(fmt.Sprintf("\n  ... %d further obstacles omitted\n", len(res.Obstacles)-reportObstacleLimit))
				break
			}
			sb.WriteString(fmt.Sprintf("\n  Obstacle #%d:\n", i+1))
			sb.WriteString(fmt.Sprintf("    Chainage: %.3f km\n", ob.Distance/1000))
			sb.WriteString(fmt.Sprintf("    Height: %.2fm\n", ob.Height))
			sb.WriteString(fmt.Sprintf("    Exceedance: +%.2fm\n", ob.Exceedance))
		}
	}

	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}
	return nil
}

// formatFloat renders NaN and ±Inf as empty cells.
func formatFloat(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
