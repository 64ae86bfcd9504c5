// Package sweep derives the lateral sweep and dynamic half-width a convoy
// needs at each station from its turning radius.
package sweep

import (
	"fmt"
	"math"

	"github.com/windroute/gabarit/pkg/core"
)

// Policy holds the sweep regime thresholds, in metres. Radii at or above
// StraightRadius count as straight. Radii below TightRadius fall back to a
// conservative fixed fraction of the effective length instead of the raw
// L²/(2R) formula, which grows without bound as R approaches zero.
type Policy struct {
	StraightRadius float64
	TightRadius    float64
	TightFactor    float64
}

// DefaultPolicy mirrors the field-calibrated constants: turns wider than
// 500 m are straight, turns tighter than 10 m use half the effective length.
var DefaultPolicy = Policy{
	StraightRadius: 500,
	TightRadius:    10,
	TightFactor:    0.5,
}

// Validate rejects non-positive or inverted thresholds.
func (p Policy) Validate() error {
	if p.TightRadius <= 0 {
		return &core.InvalidParameterError{Param: "sweep.tightRadius", Reason: fmt.Sprintf("must be > 0, got %g", p.TightRadius)}
	}
	if p.StraightRadius <= p.TightRadius {
		return &core.InvalidParameterError{Param: "sweep.straightRadius", Reason: fmt.Sprintf("must be > tightRadius (%g), got %g", p.TightRadius, p.StraightRadius)}
	}
	if p.TightFactor <= 0 {
		return &core.InvalidParameterError{Param: "sweep.tightFactor", Reason: fmt.Sprintf("must be > 0, got %g", p.TightFactor)}
	}
	return nil
}

// Calc computes the sweep and dynamic half-width for one station.
// The dynamic half-width is never below the static convoy half-width.
func Calc(st core.Station, profile core.VehicleProfile, pol Policy) core.SweepResult {
	r := math.Abs(st.Radius)
	l := profile.EffectiveLength()

	var sw float64
	switch {
	case math.IsInf(r, 1) || r >= pol.StraightRadius:
		sw = 0
	case r < pol.TightRadius:
		sw = pol.TightFactor * l
	default:
		sw = l * l / (2 * r)
	}

	return core.SweepResult{
		Sweep:     sw,
		HalfWidth: profile.HalfWidth() + sw,
	}
}
