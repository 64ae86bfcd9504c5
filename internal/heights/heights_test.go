package heights

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/windroute/gabarit/internal/raster"
	"github.com/windroute/gabarit/pkg/core"
)

func testTransect(samples int) core.Transect {
	points := make([]core.Position2D, samples)
	halfWidth := 4.0
	step := 2 * halfWidth / float64(samples-1)
	for i := range points {
		points[i] = core.Position2D{X: -halfWidth + float64(i)*step, Y: 0}
	}
	return core.Transect{StationIndex: 7, HalfWidth: halfWidth, Points: points}
}

func TestSample_AllValid(t *testing.T) {
	prov := raster.ProviderFunc(func(x, y float64) (float64, error) {
		return 3.5, nil
	})

	samples, err := Sample(testTransect(5), prov, DefaultFilter)
	if err != nil {
		t.Fatalf("Sample failed: %v", err)
	}
	if len(samples) != 5 {
		t.Fatalf("got %d samples, want 5", len(samples))
	}
	for i, s := range samples {
		if !s.Valid {
			t.Errorf("sample %d invalid", i)
		}
		if s.Height != 3.5 {
			t.Errorf("sample %d height = %g, want 3.5", i, s.Height)
		}
	}
}

func TestSample_Offsets(t *testing.T) {
	prov := raster.ProviderFunc(func(x, y float64) (float64, error) { return 0, nil })

	samples, err := Sample(testTransect(5), prov, DefaultFilter)
	if err != nil {
		t.Fatalf("Sample failed: %v", err)
	}

	wantOffsets := []float64{-4, -2, 0, 2, 4}
	for i, s := range samples {
		if math.Abs(s.Offset-wantOffsets[i]) > 1e-9 {
			t.Errorf("sample %d offset = %g, want %g", i, s.Offset, wantOffsets[i])
		}
		// Offset matches the point's position along the transect.
		if math.Abs(s.Point.X-wantOffsets[i]) > 1e-9 {
			t.Errorf("sample %d point = %v, want x=%g", i, s.Point, wantOffsets[i])
		}
	}
}

func TestSample_NoDataSkipsSample(t *testing.T) {
	prov := raster.ProviderFunc(func(x, y float64) (float64, error) {
		if x == 0 {
			return 0, raster.ErrNoData
		}
		return 1.5, nil
	})

	samples, err := Sample(testTransect(5), prov, DefaultFilter)
	if err != nil {
		t.Fatalf("Sample failed: %v", err)
	}

	if samples[2].Valid {
		t.Error("NoData sample should be invalid")
	}
	// Position and order are preserved around the gap.
	if samples[2].Offset != 0 {
		t.Errorf("invalid sample offset = %g, want 0", samples[2].Offset)
	}
	for _, i := range []int{0, 1, 3, 4} {
		if !samples[i].Valid {
			t.Errorf("sample %d should be valid", i)
		}
	}
}

func TestSample_FilterRejectsImplausible(t *testing.T) {
	heights := []float64{3, -150, 250, 199.9, -99.9}
	idx := -1
	prov := raster.ProviderFunc(func(x, y float64) (float64, error) {
		idx++
		return heights[idx], nil
	})

	samples, err := Sample(testTransect(5), prov, DefaultFilter)
	if err != nil {
		t.Fatalf("Sample failed: %v", err)
	}

	wantValid := []bool{true, false, false, true, true}
	for i, s := range samples {
		if s.Valid != wantValid[i] {
			t.Errorf("sample %d (height %g): valid = %v, want %v", i, heights[i], s.Valid, wantValid[i])
		}
	}
}

func TestSample_FilterBoundsInclusive(t *testing.T) {
	heights := []float64{-100, 200}
	idx := -1
	prov := raster.ProviderFunc(func(x, y float64) (float64, error) {
		idx++
		return heights[idx], nil
	})

	samples, err := Sample(testTransect(2), prov, DefaultFilter)
	if err != nil {
		t.Fatalf("Sample failed: %v", err)
	}
	for i, s := range samples {
		if !s.Valid {
			t.Errorf("boundary height %g should pass the filter", heights[i])
		}
	}
}

func TestSample_IOErrorFatal(t *testing.T) {
	ioErr := fmt.Errorf("disk gone")
	prov := raster.ProviderFunc(func(x, y float64) (float64, error) {
		return 0, ioErr
	})

	_, err := Sample(testTransect(3), prov, DefaultFilter)
	var rasterErr *core.RasterAccessError
	if !errors.As(err, &rasterErr) {
		t.Fatalf("expected RasterAccessError, got %v", err)
	}
	if rasterErr.StationIndex != 7 {
		t.Errorf("error station = %d, want 7", rasterErr.StationIndex)
	}
	if !errors.Is(err, ioErr) {
		t.Error("RasterAccessError should unwrap to the provider error")
	}
}

func TestSample_TimeoutFatal(t *testing.T) {
	prov := raster.ProviderFunc(func(x, y float64) (float64, error) {
		return 0, raster.ErrTimeout
	})

	_, err := Sample(testTransect(3), prov, DefaultFilter)
	var rasterErr *core.RasterAccessError
	if !errors.As(err, &rasterErr) {
		t.Fatalf("expected RasterAccessError for timeout, got %v", err)
	}
}

func TestFilterValidate(t *testing.T) {
	if err := DefaultFilter.Validate(); err != nil {
		t.Errorf("default filter rejected: %v", err)
	}
	for _, f := range []Filter{{Min: 10, Max: 10}, {Min: 10, Max: 5}} {
		err := f.Validate()
		var paramErr *core.InvalidParameterError
		if !errors.As(err, &paramErr) {
			t.Errorf("filter %+v: expected InvalidParameterError, got %v", f, err)
		}
	}
}
