// Package transect builds the perpendicular cross-section at each station,
// sized to the dynamic half-width.
package transect

import (
	"fmt"

	"github.com/windroute/gabarit/internal/geo"
	"github.com/windroute/gabarit/pkg/core"
)

// Build constructs the cross-section segment at a station: samples evenly
// spaced points across the full dynamic width along the normal to the
// heading, endpoints included. Points run right rail to left rail.
func Build(st core.Station, halfWidth float64, samples int) (core.Transect, error) {
	if samples < 2 {
		return core.Transect{}, &core.InvalidParameterError{Param: "samplePoints", Reason: fmt.Sprintf("must be >= 2, got %d", samples)}
	}

	normal := geo.LeftNormal(st.Heading)
	points := make([]core.Position2D, samples)
	step := 2 * halfWidth / float64(samples-1)
	for i := range points {
		offset := -halfWidth + float64(i)*step
		points[i] = geo.Offset(st.Pos, normal, offset)
	}

	return core.Transect{
		StationIndex: st.Index,
		Center:       st.Pos,
		HalfWidth:    halfWidth,
		Points:       points,
	}, nil
}
