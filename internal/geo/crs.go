package geo

import (
	"github.com/windroute/gabarit/pkg/core"
	"github.com/wroge/wgs84"
)

// CRS MATCHING
// The path and raster must share a projected coordinate system before any
// station work starts. A mismatch mid-pipeline would silently shift every
// transect, so it is rejected up front as a configuration error.

// CheckCRS returns a CoordinateSystemMismatchError when the path and raster
// EPSG codes differ.
func CheckCRS(pathEPSG, rasterEPSG int) error {
	if pathEPSG != rasterEPSG {
		return &core.CoordinateSystemMismatchError{PathEPSG: pathEPSG, RasterEPSG: rasterEPSG}
	}
	return nil
}

// Reproject transforms every vertex of a polyline from one EPSG code to
// another. Used by the hosting layer when auto-reprojection is enabled;
// the analysis core itself never reprojects.
func Reproject(p core.Polyline, fromEPSG, toEPSG int) core.Polyline {
	if fromEPSG == toEPSG {
		out := make(core.Polyline, len(p))
		copy(out, p)
		return out
	}
	f := wgs84.EPSG().Transform(fromEPSG, toEPSG)
	out := make(core.Polyline, len(p))
	for i, v := range p {
		x, y, _ := f(v.X, v.Y, 0)
		out[i] = core.Position2D{X: x, Y: y}
	}
	return out
}
