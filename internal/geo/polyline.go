package geo

import (
	"encoding/json"
	"fmt"

	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/windroute/gabarit/pkg/core"
)

// ParsePolyline parses a JSON array of coordinates into a core.Polyline.
// Input format: "[[x1,y1],[x2,y2],...]"
func ParsePolyline(input []byte) (core.Polyline, error) {
	var coords [][]float64
	if err := json.Unmarshal(input, &coords); err != nil {
		return nil, fmt.Errorf("failed to parse polyline JSON: %w", err)
	}

	if len(coords) < 2 {
		return nil, &core.InvalidPathError{Index: -1, Reason: fmt.Sprintf("polyline must have at least 2 points, got %d", len(coords))}
	}

	polyline := make(core.Polyline, len(coords))
	for i, coord := range coords {
		if len(coord) < 2 {
			return nil, &core.InvalidPathError{Index: i, Reason: "coordinate has insufficient values"}
		}
		polyline[i] = core.Position2D{X: coord[0], Y: coord[1]}
	}

	return polyline, nil
}

// ValidatePolyline rejects paths with fewer than 2 distinct vertices or with
// consecutive duplicate points.
func ValidatePolyline(p core.Polyline) error {
	if len(p) < 2 {
		return &core.InvalidPathError{Index: -1, Reason: fmt.Sprintf("need at least 2 vertices, got %d", len(p))}
	}
	for i := 1; i < len(p); i++ {
		if p[i] == p[i-1] {
			return &core.InvalidPathError{Index: i, Reason: "consecutive duplicate vertex"}
		}
	}
	return nil
}

// LineString converts a polyline into a simplefeatures LineString.
func LineString(p core.Polyline) geom.LineString {
	flat := make([]float64, 0, len(p)*2)
	for _, v := range p {
		flat = append(flat, v.X, v.Y)
	}
	return geom.NewLineString(geom.NewSequence(flat, geom.DimXY))
}

// Polygon converts a closed ring into a simplefeatures Polygon and validates
// its topology.
func Polygon(ring []core.Position2D) (geom.Polygon, error) {
	flat := make([]float64, 0, len(ring)*2)
	for _, v := range ring {
		flat = append(flat, v.X, v.Y)
	}
	shell := geom.NewLineString(geom.NewSequence(flat, geom.DimXY))
	poly := geom.NewPolygon([]geom.LineString{shell})
	if err := poly.Validate(); err != nil {
		return geom.Polygon{}, fmt.Errorf("invalid envelope polygon: %w", err)
	}
	return poly, nil
}

// RingArea returns the area enclosed by a closed ring. Returns 0 for rings
// that do not form a valid polygon.
func RingArea(ring []core.Position2D) float64 {
	poly, err := Polygon(ring)
	if err != nil {
		return 0
	}
	return poly.Area()
}
