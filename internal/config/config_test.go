package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/windroute/gabarit/internal/heights"
	"github.com/windroute/gabarit/internal/sweep"
	"github.com/windroute/gabarit/pkg/core"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestLoad_DefaultsWithoutConfigFile(t *testing.T) {
	resetViper(t)

	if err := Load(t.TempDir()); err != nil {
		t.Fatalf("Load with missing config file should use defaults: %v", err)
	}

	a, err := GetAnalysis()
	if err != nil {
		t.Fatalf("GetAnalysis failed: %v", err)
	}

	if a.BladeType != "N117" {
		t.Errorf("default bladeType = %s, want N117", a.BladeType)
	}
	if a.Clearance != 5.0 {
		t.Errorf("default clearance = %g, want 5", a.Clearance)
	}
	if a.Spacing != 1.0 {
		t.Errorf("default spacing = %g, want 1", a.Spacing)
	}
	if a.SamplePoints != 9 {
		t.Errorf("default samplePoints = %d, want 9", a.SamplePoints)
	}
	if a.Workers != 0 {
		t.Errorf("default workers = %d, want 0", a.Workers)
	}
	if a.RasterTimeout != 0 {
		t.Errorf("default raster timeout = %v, want 0", a.RasterTimeout)
	}
	if a.Sweep != sweep.DefaultPolicy {
		t.Errorf("default sweep policy = %+v, want %+v", a.Sweep, sweep.DefaultPolicy)
	}
	if a.Filter != heights.DefaultFilter {
		t.Errorf("default height filter = %+v, want %+v", a.Filter, heights.DefaultFilter)
	}
	if a.CRS.PathEPSG != 3857 || a.CRS.RasterEPSG != 3857 || a.CRS.AutoReproject {
		t.Errorf("default CRS = %+v", a.CRS)
	}
	if a.Profile.BladeType != "N117" {
		t.Errorf("profile not resolved, got %+v", a.Profile)
	}
}

func TestLoad_ReadsConfigFile(t *testing.T) {
	resetViper(t)

	dir := t.TempDir()
	cfg := `{
		"analysis": {
			"bladeType": "N149",
			"clearanceHeight": 6.5,
			"stationSpacing": 2.0,
			"rasterTimeoutMs": 250
		},
		"storage": {"type": "sqlite", "sqlitePath": "runs.db"}
	}`
	if err := os.WriteFile(filepath.Join(dir, "gabarit.cfg.json"), []byte(cfg), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	if err := Load(dir); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	a, err := GetAnalysis()
	if err != nil {
		t.Fatalf("GetAnalysis failed: %v", err)
	}
	if a.BladeType != "N149" || a.Clearance != 6.5 || a.Spacing != 2.0 {
		t.Errorf("config file values not applied: %+v", a)
	}
	if a.RasterTimeout != 250*time.Millisecond {
		t.Errorf("raster timeout = %v, want 250ms", a.RasterTimeout)
	}
	// Untouched keys keep their defaults.
	if a.SamplePoints != 9 {
		t.Errorf("samplePoints = %d, want default 9", a.SamplePoints)
	}

	st := GetStorage()
	if st.Type != "sqlite" || st.SqlitePath != "runs.db" {
		t.Errorf("storage config = %+v", st)
	}
}

func TestLoad_MalformedConfigFile(t *testing.T) {
	resetViper(t)

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "gabarit.cfg.json"), []byte("{nope"), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	if err := Load(dir); err == nil {
		t.Error("expected error for malformed config file")
	}
}

func TestGetAnalysis_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value any
	}{
		{"unknown blade", "analysis.bladeType", "X999"},
		{"zero clearance", "analysis.clearanceHeight", 0},
		{"negative spacing", "analysis.stationSpacing", -1},
		{"one sample point", "analysis.samplePoints", 1},
		{"negative workers", "analysis.workers", -2},
		{"bad sweep threshold", "sweep.tightRadius", -5},
		{"inverted height filter", "heightFilter.min", 300},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper(t)
			if err := Load(t.TempDir()); err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			viper.Set(tt.key, tt.value)

			_, err := GetAnalysis()
			var paramErr *core.InvalidParameterError
			if !errors.As(err, &paramErr) {
				t.Errorf("expected InvalidParameterError, got %v", err)
			}
		})
	}
}

func TestGetStorage_Defaults(t *testing.T) {
	resetViper(t)
	if err := Load(t.TempDir()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	st := GetStorage()
	if st.Type != "memory" {
		t.Errorf("default storage type = %s, want memory", st.Type)
	}
	if st.Memory.OutputDir != "./gabarit_out" {
		t.Errorf("default output dir = %s", st.Memory.OutputDir)
	}
	if st.Memory.CompressOutput {
		t.Error("compression should default to off")
	}
}

func TestValidate_ResolvesProfile(t *testing.T) {
	a := Analysis{
		BladeType:    "E82",
		Clearance:    5,
		Spacing:      1,
		SamplePoints: 9,
		Sweep:        sweep.DefaultPolicy,
		Filter:       heights.DefaultFilter,
	}
	if err := a.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if a.Profile.BladeLength != 45.0 {
		t.Errorf("E82 blade length = %g, want 45", a.Profile.BladeLength)
	}
}
