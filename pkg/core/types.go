// pkg/core/types.go
package core

import "math"

// Position2D represents a planar coordinate without GIS dependencies
type Position2D struct {
	X float64 `json:"x"` // easting
	Y float64 `json:"y"` // northing
}

// Polyline is an ordered sequence of planar vertices forming the convoy centerline
type Polyline []Position2D

// Length returns the total arc length of the polyline.
func (p Polyline) Length() float64 {
	var total float64
	for i := 1; i < len(p); i++ {
		total += math.Hypot(p[i].X-p[i-1].X, p[i].Y-p[i-1].Y)
	}
	return total
}

// ClearanceStatus classifies a station's vertical clearance.
type ClearanceStatus string

const (
	StatusOK       ClearanceStatus = "OK"
	StatusObstacle ClearanceStatus = "OBSTACLE"
	StatusNoData   ClearanceStatus = "NO_DATA"
)

// Station is one discrete analysis point along the path.
// Radius is the signed local turning radius: positive for left turns,
// negative for right turns, +Inf for straight segments.
type Station struct {
	Index    int        `json:"station"`
	Distance float64    `json:"distanceM"` // arc length from path start
	Pos      Position2D `json:"pos"`
	Heading  float64    `json:"headingRad"` // direction of the path tangent, radians CCW from +X
	Radius   float64    `json:"radiusM"`
}

// Straight reports whether the station lies on an effectively straight segment.
func (s Station) Straight() bool {
	return math.IsInf(s.Radius, 0)
}

// SweepResult holds the lateral sweep and resulting half-width at one station.
// HalfWidth is never less than the static convoy half-width.
type SweepResult struct {
	Sweep     float64 `json:"lateralSweepM"`
	HalfWidth float64 `json:"dynamicHalfWidthM"`
}

// Transect is the cross-section segment at a station, perpendicular to the
// heading and centered on the station position. Points run from the right
// rail (-HalfWidth) to the left rail (+HalfWidth), endpoints included.
type Transect struct {
	StationIndex int          `json:"station"`
	Center       Position2D   `json:"center"`
	HalfWidth    float64      `json:"halfWidthM"`
	Points       []Position2D `json:"points"`
}

// Left returns the outer point on the left rail.
func (t Transect) Left() Position2D {
	return t.Points[len(t.Points)-1]
}

// Right returns the outer point on the right rail.
func (t Transect) Right() Position2D {
	return t.Points[0]
}

// HeightSample is one raster lookup along a transect. Invalid samples
// (NoData or implausible values) keep their position so downstream profile
// rendering preserves point order.
type HeightSample struct {
	Point  Position2D `json:"point"`
	Offset float64    `json:"offsetM"` // signed offset from the transect center
	Height float64    `json:"heightM"`
	Valid  bool       `json:"valid"`
}

// ObstacleRecord marks a station where the measured height exceeds the
// required clearance. Exceedance is always > 0.
type ObstacleRecord struct {
	StationIndex int        `json:"station"`
	Distance     float64    `json:"distanceM"`
	Pos          Position2D `json:"pos"`
	Height       float64    `json:"maxHeightM"`
	Exceedance   float64    `json:"exceedanceM"`
	HalfWidth    float64    `json:"dynamicHalfWidthM"`
}

// StationResult is the full per-station outcome.
// MaxHeight and MeanHeight are NaN when the station has no valid samples.
type StationResult struct {
	Station      Station         `json:"station"`
	Sweep        SweepResult     `json:"sweep"`
	Status       ClearanceStatus `json:"status"`
	MaxHeight    float64         `json:"maxHeightM"`
	MeanHeight   float64         `json:"meanHeightM"`
	ValidSamples int             `json:"validSamples"`
}

// Envelope is the total ground footprint polygon, stored as a closed ring
// (first vertex repeated last).
type Envelope struct {
	Ring []Position2D `json:"ring"`
}

// Closed reports whether the ring is non-empty and explicitly closed.
func (e Envelope) Closed() bool {
	n := len(e.Ring)
	return n >= 4 && e.Ring[0] == e.Ring[n-1]
}

// Summary holds the reduced statistics for the go/no-go decision.
type Summary struct {
	TotalLength   float64 `json:"totalLengthM"`
	StationCount  int     `json:"stationCount"`
	ObstacleCount int     `json:"obstacleCount"`
	NoDataCount   int     `json:"noDataCount"`
	MaxHeight     float64 `json:"maxHeightM"` // NaN when no station had valid samples
	MaxHalfWidth  float64 `json:"maxHalfWidthM"`
	EnvelopeArea  float64 `json:"envelopeAreaM2"`
	Passable      bool    `json:"passable"`
}

// Result is the immutable output of one analysis run.
type Result struct {
	Profile   VehicleProfile   `json:"profile"`
	Clearance float64          `json:"clearanceM"`
	Spacing   float64          `json:"spacingM"`
	Stations  []StationResult  `json:"stations"`
	Obstacles []ObstacleRecord `json:"obstacles"`
	Envelope  Envelope         `json:"envelope"`
	Summary   Summary          `json:"summary"`
}
