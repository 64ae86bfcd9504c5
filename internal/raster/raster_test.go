package raster

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestGrid_HeightAt(t *testing.T) {
	g := NewGrid(10, 10, 0, 100, 10) // covers x 0..100, y 0..100
	g.Fill(2)
	g.SetAt(55, 45, 7.5)

	h, err := g.HeightAt(55, 45)
	if err != nil {
		t.Fatalf("HeightAt failed: %v", err)
	}
	if h != 7.5 {
		t.Errorf("height = %g, want 7.5", h)
	}

	// Any coordinate inside the same cell sees the same value.
	h, err = g.HeightAt(51, 41)
	if err != nil {
		t.Fatalf("HeightAt failed: %v", err)
	}
	if h != 7.5 {
		t.Errorf("same-cell height = %g, want 7.5", h)
	}
}

func TestGrid_OutOfBounds(t *testing.T) {
	g := NewGrid(10, 10, 0, 100, 10)
	for _, pt := range [][2]float64{{-1, 50}, {101, 50}, {50, -1}, {50, 101}} {
		_, err := g.HeightAt(pt[0], pt[1])
		if !errors.Is(err, ErrNoData) {
			t.Errorf("HeightAt(%g,%g): expected ErrNoData, got %v", pt[0], pt[1], err)
		}
	}
}

func TestGrid_NoDataCell(t *testing.T) {
	g := NewGrid(5, 5, 0, 50, 10)
	g.SetNoData(-9999)
	g.SetAt(25, 25, -9999)
	g.SetAt(35, 25, 3)

	if _, err := g.HeightAt(25, 25); !errors.Is(err, ErrNoData) {
		t.Errorf("NoData cell: expected ErrNoData, got %v", err)
	}
	if h, err := g.HeightAt(35, 25); err != nil || h != 3 {
		t.Errorf("valid cell: got %g, %v", h, err)
	}
}

const ascCorner = `ncols 3
nrows 2
xllcorner 100
yllcorner 200
cellsize 10
NODATA_value -9999
1 2 3
4 -9999 6
`

func TestReadASC_Corner(t *testing.T) {
	g, err := ReadASC(strings.NewReader(ascCorner))
	if err != nil {
		t.Fatalf("ReadASC failed: %v", err)
	}

	// Row 0 is the top row: y in (210, 220].
	h, err := g.HeightAt(105, 215)
	if err != nil {
		t.Fatalf("HeightAt failed: %v", err)
	}
	if h != 1 {
		t.Errorf("top-left cell = %g, want 1", h)
	}

	h, err = g.HeightAt(125, 205)
	if err != nil {
		t.Fatalf("HeightAt failed: %v", err)
	}
	if h != 6 {
		t.Errorf("bottom-right cell = %g, want 6", h)
	}

	if _, err := g.HeightAt(115, 205); !errors.Is(err, ErrNoData) {
		t.Errorf("nodata cell: expected ErrNoData, got %v", err)
	}
}

func TestReadASC_CenterOrigin(t *testing.T) {
	src := `ncols 2
nrows 2
xllcenter 105
yllcenter 205
cellsize 10
1 2
3 4
`
	g, err := ReadASC(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ReadASC failed: %v", err)
	}

	// Center origin shifts the lower-left corner to (100, 200).
	h, err := g.HeightAt(101, 201)
	if err != nil {
		t.Fatalf("HeightAt failed: %v", err)
	}
	if h != 3 {
		t.Errorf("bottom-left cell = %g, want 3", h)
	}
}

func TestReadASC_HeaderCaseInsensitive(t *testing.T) {
	src := `NCOLS 1
NROWS 1
XLLCORNER 0
YLLCORNER 0
CELLSIZE 1
5
`
	g, err := ReadASC(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ReadASC failed: %v", err)
	}
	if h, err := g.HeightAt(0.5, 0.5); err != nil || h != 5 {
		t.Errorf("got %g, %v", h, err)
	}
}

func TestReadASC_Invalid(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"missing ncols", "nrows 1\nxllcorner 0\nyllcorner 0\ncellsize 1\n5\n"},
		{"missing origin", "ncols 1\nnrows 1\ncellsize 1\n5\n"},
		{"bad cellsize", "ncols 1\nnrows 1\nxllcorner 0\nyllcorner 0\ncellsize 0\n5\n"},
		{"value count mismatch", "ncols 2\nnrows 2\nxllcorner 0\nyllcorner 0\ncellsize 1\n1 2 3\n"},
		{"garbage value", "ncols 1\nnrows 1\nxllcorner 0\nyllcorner 0\ncellsize 1\nfoo bar baz\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadASC(strings.NewReader(tt.src)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestProviderFunc(t *testing.T) {
	p := ProviderFunc(func(x, y float64) (float64, error) {
		return x + y, nil
	})
	h, err := p.HeightAt(2, 3)
	if err != nil || h != 5 {
		t.Errorf("got %g, %v", h, err)
	}
}

func TestWithTimeout_FastProvider(t *testing.T) {
	p := WithTimeout(ProviderFunc(func(x, y float64) (float64, error) {
		return 4, nil
	}), 100*time.Millisecond)

	h, err := p.HeightAt(0, 0)
	if err != nil || h != 4 {
		t.Errorf("got %g, %v", h, err)
	}
}

func TestWithTimeout_SlowProvider(t *testing.T) {
	p := WithTimeout(ProviderFunc(func(x, y float64) (float64, error) {
		time.Sleep(200 * time.Millisecond)
		return 4, nil
	}), 10*time.Millisecond)

	_, err := p.HeightAt(0, 0)
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("expected ErrTimeout, got %v", err)
	}
}

func TestWithTimeout_ZeroDisables(t *testing.T) {
	inner := ProviderFunc(func(x, y float64) (float64, error) { return 0, nil })
	if p := WithTimeout(inner, 0); p == nil {
		t.Fatal("WithTimeout returned nil")
	}
	// No wrapper type when disabled.
	if _, ok := WithTimeout(inner, 0).(*timeoutProvider); ok {
		t.Error("zero timeout should not wrap the provider")
	}
}

func TestWithTimeout_PassesErrNoData(t *testing.T) {
	p := WithTimeout(ProviderFunc(func(x, y float64) (float64, error) {
		return 0, ErrNoData
	}), time.Second)
	_, err := p.HeightAt(0, 0)
	if !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData passthrough, got %v", err)
	}
}
