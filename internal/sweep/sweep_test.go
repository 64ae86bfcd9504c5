package sweep

import (
	"errors"
	"math"
	"testing"

	"github.com/windroute/gabarit/pkg/core"
)

func testProfile(t *testing.T) core.VehicleProfile {
	t.Helper()
	p, err := core.ProfileByName("N117")
	if err != nil {
		t.Fatalf("ProfileByName failed: %v", err)
	}
	return p
}

func stationWithRadius(r float64) core.Station {
	return core.Station{Index: 1, Radius: r}
}

func TestCalc_StraightNoSweep(t *testing.T) {
	profile := testProfile(t)

	for _, r := range []float64{math.Inf(1), math.Inf(-1), 500, 1000, -800} {
		res := Calc(stationWithRadius(r), profile, DefaultPolicy)
		if res.Sweep != 0 {
			t.Errorf("radius %g: sweep = %g, want 0", r, res.Sweep)
		}
		if res.HalfWidth != profile.HalfWidth() {
			t.Errorf("radius %g: half-width = %g, want static %g", r, res.HalfWidth, profile.HalfWidth())
		}
	}
}

func TestCalc_CurveFormula(t *testing.T) {
	profile := testProfile(t)
	l := profile.EffectiveLength() // 60 + 9 = 69

	res := Calc(stationWithRadius(100), profile, DefaultPolicy)
	want := l * l / (2 * 100)
	if math.Abs(res.Sweep-want) > 1e-9 {
		t.Errorf("sweep at R=100: %g, want %g", res.Sweep, want)
	}
	if math.Abs(res.HalfWidth-(profile.HalfWidth()+want)) > 1e-9 {
		t.Errorf("half-width at R=100: %g, want %g", res.HalfWidth, profile.HalfWidth()+want)
	}
}

func TestCalc_SignIgnored(t *testing.T) {
	profile := testProfile(t)

	left := Calc(stationWithRadius(100), profile, DefaultPolicy)
	right := Calc(stationWithRadius(-100), profile, DefaultPolicy)
	if left.Sweep != right.Sweep {
		t.Errorf("sweep differs by turn direction: %g vs %g", left.Sweep, right.Sweep)
	}
}

func TestCalc_TightFallback(t *testing.T) {
	profile := testProfile(t)
	want := DefaultPolicy.TightFactor * profile.EffectiveLength()

	for _, r := range []float64{9.99, 5, 1, 0.001, -3} {
		res := Calc(stationWithRadius(r), profile, DefaultPolicy)
		if math.Abs(res.Sweep-want) > 1e-9 {
			t.Errorf("radius %g: sweep = %g, want tight fallback %g", r, res.Sweep, want)
		}
	}
}

func TestCalc_TightBoundaryUsesFormula(t *testing.T) {
	// Exactly at the tight threshold the formula applies, not the fallback.
	profile := testProfile(t)
	l := profile.EffectiveLength()

	res := Calc(stationWithRadius(DefaultPolicy.TightRadius), profile, DefaultPolicy)
	want := l * l / (2 * DefaultPolicy.TightRadius)
	if math.Abs(res.Sweep-want) > 1e-9 {
		t.Errorf("sweep at tight boundary: %g, want %g", res.Sweep, want)
	}
}

func TestCalc_StraightBoundary(t *testing.T) {
	profile := testProfile(t)

	// At the straight threshold, no sweep.
	res := Calc(stationWithRadius(DefaultPolicy.StraightRadius), profile, DefaultPolicy)
	if res.Sweep != 0 {
		t.Errorf("sweep at straight boundary: %g, want 0", res.Sweep)
	}

	// Just below it, the formula kicks in.
	res = Calc(stationWithRadius(DefaultPolicy.StraightRadius-0.01), profile, DefaultPolicy)
	if res.Sweep <= 0 {
		t.Errorf("sweep just below straight boundary should be positive, got %g", res.Sweep)
	}
}

func TestCalc_HalfWidthNeverBelowStatic(t *testing.T) {
	profile := testProfile(t)
	for _, r := range []float64{math.Inf(1), 1000, 499, 100, 20, 10, 5, 0.1} {
		res := Calc(stationWithRadius(r), profile, DefaultPolicy)
		if res.HalfWidth < profile.HalfWidth() {
			t.Errorf("radius %g: half-width %g below static %g", r, res.HalfWidth, profile.HalfWidth())
		}
	}
}

func TestCalc_AllProfiles(t *testing.T) {
	// Sweep scales with the square of the effective length, so longer blades
	// must sweep strictly more on the same curve.
	var prev float64
	for _, name := range []string{"E82", "N117", "N131", "N149"} {
		p, err := core.ProfileByName(name)
		if err != nil {
			t.Fatalf("ProfileByName(%s) failed: %v", name, err)
		}
		res := Calc(stationWithRadius(50), p, DefaultPolicy)
		if res.Sweep <= prev {
			t.Errorf("%s: sweep %g not greater than previous %g", name, res.Sweep, prev)
		}
		prev = res.Sweep
	}
}

func TestPolicyValidate(t *testing.T) {
	if err := DefaultPolicy.Validate(); err != nil {
		t.Errorf("default policy rejected: %v", err)
	}

	tests := []struct {
		name string
		pol  Policy
	}{
		{"zero tight radius", Policy{StraightRadius: 500, TightRadius: 0, TightFactor: 0.5}},
		{"negative tight radius", Policy{StraightRadius: 500, TightRadius: -1, TightFactor: 0.5}},
		{"straight below tight", Policy{StraightRadius: 5, TightRadius: 10, TightFactor: 0.5}},
		{"straight equals tight", Policy{StraightRadius: 10, TightRadius: 10, TightFactor: 0.5}},
		{"zero tight factor", Policy{StraightRadius: 500, TightRadius: 10, TightFactor: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.pol.Validate()
			var paramErr *core.InvalidParameterError
			if !errors.As(err, &paramErr) {
				t.Errorf("expected InvalidParameterError, got %v", err)
			}
		})
	}
}
