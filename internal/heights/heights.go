// Package heights samples the raster along a transect and filters out
// values that cannot be real height-above-ground readings.
package heights

import (
	"errors"
	"fmt"

	"github.com/windroute/gabarit/internal/raster"
	"github.com/windroute/gabarit/pkg/core"
)

// Filter bounds the plausible height range. Values outside it are sensor or
// processing artifacts (heights here are deltas above ground, not geodetic
// elevations) and are treated like NoData.
type Filter struct {
	Min float64
	Max float64
}

// DefaultFilter matches the physical sanity range of the source data.
var DefaultFilter = Filter{Min: -100, Max: 200}

// Validate rejects an empty or inverted range.
func (f Filter) Validate() error {
	if f.Max <= f.Min {
		return &core.InvalidParameterError{Param: "heightFilter", Reason: fmt.Sprintf("max (%g) must be > min (%g)", f.Max, f.Min)}
	}
	return nil
}

// Sample queries the provider at every transect point, in order. NoData and
// out-of-range values yield invalid samples but never fail the run; any
// other provider error is an I/O failure and aborts with a RasterAccessError.
func Sample(t core.Transect, prov raster.Provider, filter Filter) ([]core.HeightSample, error) {
	samples := make([]core.HeightSample, len(t.Points))
	step := 2 * t.HalfWidth / float64(len(t.Points)-1)

	for i, pt := range t.Points {
		offset := -t.HalfWidth + float64(i)*step
		samples[i] = core.HeightSample{Point: pt, Offset: offset}

		h, err := prov.HeightAt(pt.X, pt.Y)
		if err != nil {
			if errors.Is(err, raster.ErrNoData) {
				continue
			}
			return nil, &core.RasterAccessError{StationIndex: t.StationIndex, X: pt.X, Y: pt.Y, Err: err}
		}
		if h < filter.Min || h > filter.Max {
			continue
		}

		samples[i].Height = h
		samples[i].Valid = true
	}

	return samples, nil
}
