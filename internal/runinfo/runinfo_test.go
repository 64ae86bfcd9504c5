package runinfo

import (
	"sync"
	"testing"
	"time"

	"github.com/windroute/gabarit/pkg/core"
)

func TestNewRunID(t *testing.T) {
	start := time.Date(2026, 2, 25, 10, 15, 30, 0, time.UTC)
	id := NewRunID(start, "N117")
	if id != "20260225_101530_N117" {
		t.Errorf("run ID = %s, want 20260225_101530_N117", id)
	}
}

func TestNewRunID_ConvertsToUTC(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	start := time.Date(2026, 2, 25, 11, 15, 30, 0, loc) // 10:15:30 UTC
	id := NewRunID(start, "E82")
	if id != "20260225_101530_E82" {
		t.Errorf("run ID = %s, want 20260225_101530_E82", id)
	}
}

func TestContext_Placeholder(t *testing.T) {
	c := NewContext()
	run := c.Get()
	if run.ID != "no-run" {
		t.Errorf("placeholder ID = %s, want no-run", run.ID)
	}
	if run.StartTime.IsZero() {
		t.Error("placeholder start time should be set")
	}
}

func TestContext_SetGet(t *testing.T) {
	c := NewContext()
	want := core.RunInfo{ID: "20260225_101530_N117", BladeType: "N117", PathVertices: 42}
	c.Set(want)

	got := c.Get()
	if got.ID != want.ID || got.BladeType != want.BladeType || got.PathVertices != want.PathVertices {
		t.Errorf("Get = %+v, want %+v", got, want)
	}
}

func TestContext_ConcurrentAccess(t *testing.T) {
	c := NewContext()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Set(core.RunInfo{ID: "run"})
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = c.Get()
			}
		}()
	}
	wg.Wait()
}
