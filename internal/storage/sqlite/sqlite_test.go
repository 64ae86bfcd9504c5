package sqlite

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/windroute/gabarit/pkg/core"
)

func testResult(t *testing.T) *core.Result {
	t.Helper()
	profile, err := core.ProfileByName("E82")
	if err != nil {
		t.Fatalf("ProfileByName failed: %v", err)
	}
	return &core.Result{
		Profile:   profile,
		Clearance: 5,
		Spacing:   1,
		Stations: []core.StationResult{
			{Station: core.Station{Index: 0, Radius: math.Inf(1)}, Status: core.StatusOK, MaxHeight: 1, MeanHeight: 1, ValidSamples: 9},
			{Station: core.Station{Index: 1, Distance: 1, Radius: math.Inf(1)}, Status: core.StatusOK, MaxHeight: 1, MeanHeight: 1, ValidSamples: 9},
		},
		Envelope: core.Envelope{Ring: []core.Position2D{
			{X: 0, Y: 2.5}, {X: 1, Y: 2.5}, {X: 1, Y: -2.5}, {X: 0, Y: -2.5}, {X: 0, Y: 2.5},
		}},
		Summary: core.Summary{TotalLength: 1, StationCount: 2, MaxHeight: 1, MaxHalfWidth: 2.5, EnvelopeArea: 5, Passable: true},
	}
}

func TestSaveRun_DumpsToDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	b := New(path, zerolog.Nop())

	if err := b.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer b.Close()

	run := core.RunInfo{ID: "20260225_101530_E82", StartTime: time.Now(), BladeType: "E82"}
	if err := b.SaveRun(run, testResult(t)); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("database file not written: %v", err)
	}
	if info.Size() == 0 {
		t.Error("database file is empty")
	}
}

func TestSaveRun_BeforeInit(t *testing.T) {
	b := New("", zerolog.Nop())
	if err := b.SaveRun(core.RunInfo{}, testResult(t)); err == nil {
		t.Error("SaveRun before Init should fail")
	}
}
