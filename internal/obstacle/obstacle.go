// Package obstacle classifies per-station clearance from the valid height
// samples of a transect.
package obstacle

import (
	"math"

	"github.com/windroute/gabarit/pkg/core"
)

// Detection is the clearance outcome at one station. Record is non-nil only
// when Status is StatusObstacle. MaxHeight and MeanHeight are NaN when the
// station has no valid samples.
type Detection struct {
	Status       core.ClearanceStatus
	MaxHeight    float64
	MeanHeight   float64
	ValidSamples int
	Record       *core.ObstacleRecord
}

// Detect compares the transect's valid samples against the required
// clearance. A station with no valid samples is NO_DATA, which is distinct
// from OK: the raster said nothing, not that the way is clear.
func Detect(st core.Station, sw core.SweepResult, samples []core.HeightSample, clearance float64) Detection {
	maxH := math.Inf(-1)
	var sum float64
	var valid int
	for _, s := range samples {
		if !s.Valid {
			continue
		}
		valid++
		sum += s.Height
		if s.Height > maxH {
			maxH = s.Height
		}
	}

	if valid == 0 {
		return Detection{
			Status:     core.StatusNoData,
			MaxHeight:  math.NaN(),
			MeanHeight: math.NaN(),
		}
	}

	det := Detection{
		Status:       core.StatusOK,
		MaxHeight:    maxH,
		MeanHeight:   sum / float64(valid),
		ValidSamples: valid,
	}

	if maxH > clearance {
		det.Status = core.StatusObstacle
		det.Record = &core.ObstacleRecord{
			StationIndex: st.Index,
			Distance:     st.Distance,
			Pos:          st.Pos,
			Height:       maxH,
			Exceedance:   maxH - clearance,
			HalfWidth:    sw.HalfWidth,
		}
	}

	return det
}
