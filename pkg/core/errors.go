// pkg/core/errors.go
package core

import "fmt"

// InvalidPathError reports a degenerate or too-short path. It aborts the run
// before any station processing. Index is the offending vertex, or -1 when
// the problem is the path as a whole.
type InvalidPathError struct {
	Index  int
	Reason string
}

func (e *InvalidPathError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("invalid path at vertex %d: %s", e.Index, e.Reason)
	}
	return fmt.Sprintf("invalid path: %s", e.Reason)
}

// InvalidParameterError reports a configuration value rejected before
// processing begins.
type InvalidParameterError struct {
	Param  string
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s: %s", e.Param, e.Reason)
}

// CoordinateSystemMismatchError reports that the path and raster coordinate
// reference systems differ. Surfaced before analysis starts.
type CoordinateSystemMismatchError struct {
	PathEPSG   int
	RasterEPSG int
}

func (e *CoordinateSystemMismatchError) Error() string {
	return fmt.Sprintf("coordinate system mismatch: path EPSG:%d, raster EPSG:%d", e.PathEPSG, e.RasterEPSG)
}

// RasterAccessError reports an I/O failure from the height raster provider.
// Fatal for the run: a partial envelope is useless for a go/no-go decision.
type RasterAccessError struct {
	StationIndex int
	X, Y         float64
	Err          error
}

func (e *RasterAccessError) Error() string {
	return fmt.Sprintf("raster access failed at station %d (%.2f, %.2f): %v", e.StationIndex, e.X, e.Y, e.Err)
}

func (e *RasterAccessError) Unwrap() error {
	return e.Err
}
