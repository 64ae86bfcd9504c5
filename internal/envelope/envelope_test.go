package envelope

import (
	"math"
	"testing"

	"github.com/windroute/gabarit/internal/geo"
	"github.com/windroute/gabarit/pkg/core"
)

// straightTransects builds transects along the +X axis with the given
// half-widths, one metre apart.
func straightTransects(halfWidths ...float64) []core.Transect {
	out := make([]core.Transect, len(halfWidths))
	for i, hw := range halfWidths {
		x := float64(i)
		out[i] = core.Transect{
			StationIndex: i,
			Center:       core.Position2D{X: x, Y: 0},
			HalfWidth:    hw,
			Points: []core.Position2D{
				{X: x, Y: -hw}, // right rail
				{X: x, Y: hw},  // left rail
			},
		}
	}
	return out
}

func TestBuild_RingShape(t *testing.T) {
	transects := straightTransects(2, 2, 2)

	env, err := Build(transects)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if !env.Closed() {
		t.Fatal("envelope ring must be closed")
	}
	if len(env.Ring) != 2*len(transects)+1 {
		t.Errorf("ring has %d vertices, want %d", len(env.Ring), 2*len(transects)+1)
	}

	// Left rail first in path order, then right rail reversed.
	want := []core.Position2D{
		{X: 0, Y: 2}, {X: 1, Y: 2}, {X: 2, Y: 2},
		{X: 2, Y: -2}, {X: 1, Y: -2}, {X: 0, Y: -2},
		{X: 0, Y: 2},
	}
	for i, v := range want {
		if env.Ring[i] != v {
			t.Errorf("ring[%d] = %v, want %v", i, env.Ring[i], v)
		}
	}
}

func TestBuild_Area(t *testing.T) {
	// Constant half-width 3 over a 4 m straight run: a 4x6 rectangle.
	env, err := Build(straightTransects(3, 3, 3, 3, 3))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	area := geo.RingArea(env.Ring)
	if math.Abs(area-24) > 1e-9 {
		t.Errorf("envelope area = %g, want 24", area)
	}
}

func TestBuild_WidthStepsKept(t *testing.T) {
	// A sudden width change contributes each station's own extremes.
	env, err := Build(straightTransects(2, 5, 2))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	found := false
	for _, v := range env.Ring {
		if v == (core.Position2D{X: 1, Y: 5}) {
			found = true
		}
	}
	if !found {
		t.Error("wide station's left extreme missing from the ring")
	}
}

func TestBuild_TooFewTransects(t *testing.T) {
	if _, err := Build(nil); err == nil {
		t.Error("expected error for no transects")
	}
	if _, err := Build(straightTransects(2)); err == nil {
		t.Error("expected error for a single transect")
	}
}

func TestBuild_MinimumTwoTransects(t *testing.T) {
	env, err := Build(straightTransects(1, 1))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if !env.Closed() {
		t.Error("two-transect envelope must still close")
	}
	if len(env.Ring) != 5 {
		t.Errorf("ring has %d vertices, want 5", len(env.Ring))
	}
}
