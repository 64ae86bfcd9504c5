// Package sampler discretizes the input polyline into evenly spaced
// stations, each carrying its position, heading, and signed local turning
// radius.
package sampler

import (
	"fmt"
	"math"

	"github.com/windroute/gabarit/internal/geo"
	"github.com/windroute/gabarit/pkg/core"
)

// spacingFuzz absorbs accumulated float error when deciding whether the last
// regular station coincides with the path end.
const spacingFuzz = 1e-9

// radiusWindow is the station offset on each side of the baseline used for
// the turning radius. Stations interpolated on the polyline sit on chords of
// the underlying curve; a circle through immediate neighbors amplifies that
// chord offset, and the final station can sit arbitrarily close to the last
// regular one. Three stations out keeps the estimate stable.
const radiusWindow = 3

// Stations places analysis stations along the path at ~spacing arc-length
// intervals. The first station is always the path start and the last always
// the path end, so for a path of length L the result holds
// ceil(L/spacing)+1 stations.
func Stations(path core.Polyline, spacing float64) ([]core.Station, error) {
	if spacing <= 0 {
		return nil, &core.InvalidParameterError{Param: "spacing", Reason: fmt.Sprintf("must be > 0, got %g", spacing)}
	}
	if err := geo.ValidatePolyline(path); err != nil {
		return nil, err
	}

	total := path.Length()
	regular := int(math.Ceil(total/spacing - spacingFuzz))

	stations := make([]core.Station, regular+1)
	for k := 0; k < regular; k++ {
		d := float64(k) * spacing
		pos, heading := pointAt(path, d)
		stations[k] = core.Station{Index: k, Distance: d, Pos: pos, Heading: heading}
	}

	// Last station sits exactly on the path end, with the final segment's tangent.
	endPos := path[len(path)-1]
	endHeading := geo.Heading(path[len(path)-2], endPos)
	stations[regular] = core.Station{Index: regular, Distance: total, Pos: endPos, Heading: endHeading}

	// Turning radius from the circle through each station and the stations
	// radiusWindow places before and after it. Stations without a full window
	// on both sides are treated as straight.
	for i := range stations {
		if i < radiusWindow || i+radiusWindow >= len(stations) {
			stations[i].Radius = math.Inf(1)
			continue
		}
		stations[i].Radius = geo.Circumradius(stations[i-radiusWindow].Pos, stations[i].Pos, stations[i+radiusWindow].Pos)
	}

	return stations, nil
}

// pointAt returns the position at arc length d along the path together with
// the tangent heading of the segment it falls on. d must be within
// [0, length]; values beyond the end clamp to the final vertex.
func pointAt(path core.Polyline, d float64) (core.Position2D, float64) {
	remaining := d
	for i := 1; i < len(path); i++ {
		segLen := geo.Dist(path[i-1], path[i])
		if remaining <= segLen {
			heading := geo.Heading(path[i-1], path[i])
			return geo.Lerp(path[i-1], path[i], remaining/segLen), heading
		}
		remaining -= segLen
	}
	last := len(path) - 1
	return path[last], geo.Heading(path[last-1], path[last])
}
