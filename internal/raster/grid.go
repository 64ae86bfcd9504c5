package raster

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// Grid is an in-memory height raster with square cells and nearest-cell
// lookup. Values are stored row-major with row 0 at the top edge, matching
// the usual north-up raster layout.
type Grid struct {
	cols, rows int
	originX    float64 // west edge
	topY       float64 // north edge
	cellSize   float64
	nodata     float64
	hasNodata  bool
	values     []float64
}

// NewGrid creates a grid filled with zero heights.
func NewGrid(cols, rows int, originX, topY, cellSize float64) *Grid {
	return &Grid{
		cols:     cols,
		rows:     rows,
		originX:  originX,
		topY:     topY,
		cellSize: cellSize,
		values:   make([]float64, cols*rows),
	}
}

// SetNoData defines the sentinel value treated as NoData.
func (g *Grid) SetNoData(v float64) {
	g.nodata = v
	g.hasNodata = true
}

// Fill sets every cell to the same height.
func (g *Grid) Fill(v float64) {
	for i := range g.values {
		g.values[i] = v
	}
}

// SetCell sets the height of one cell by column/row index.
func (g *Grid) SetCell(col, row int, v float64) {
	g.values[row*g.cols+col] = v
}

// SetAt sets the height of the cell containing a planar coordinate.
func (g *Grid) SetAt(x, y float64, v float64) {
	col := int((x - g.originX) / g.cellSize)
	row := int((g.topY - y) / g.cellSize)
	if col >= 0 && col < g.cols && row >= 0 && row < g.rows {
		g.SetCell(col, row, v)
	}
}

// HeightAt returns the height of the cell containing (x, y).
// Coordinates outside the extent and NoData cells return ErrNoData.
func (g *Grid) HeightAt(x, y float64) (float64, error) {
	col := int(math.Floor((x - g.originX) / g.cellSize))
	row := int(math.Floor((g.topY - y) / g.cellSize))
	if col < 0 || col >= g.cols || row < 0 || row >= g.rows {
		return 0, ErrNoData
	}
	v := g.values[row*g.cols+col]
	if g.hasNodata && v == g.nodata {
		return 0, ErrNoData
	}
	return v, nil
}

// ReadASC parses an ESRI ASCII grid. Header keys are case-insensitive;
// both xllcorner/yllcorner and xllcenter/yllcenter origins are accepted.
func ReadASC(r io.Reader) (*Grid, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 1024*1024), 16*1024*1024)

	header := map[string]float64{}
	var hasNodata bool
	var nodata float64
	var values []float64

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)

		// Header lines are "key value" pairs; the first purely numeric line
		// starts the data block.
		if len(fields) == 2 {
			if _, err := strconv.ParseFloat(fields[0], 64); err != nil {
				key := strings.ToLower(fields[0])
				val, err := strconv.ParseFloat(fields[1], 64)
				if err != nil {
					return nil, fmt.Errorf("invalid header value for %s: %q", key, fields[1])
				}
				if key == "nodata_value" {
					nodata = val
					hasNodata = true
				} else {
					header[key] = val
				}
				continue
			}
		}

		for _, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid cell value %q", f)
			}
			values = append(values, v)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading ascii grid: %w", err)
	}

	cols, ok := header["ncols"]
	if !ok {
		return nil, fmt.Errorf("ascii grid missing ncols")
	}
	rows, ok := header["nrows"]
	if !ok {
		return nil, fmt.Errorf("ascii grid missing nrows")
	}
	cellSize, ok := header["cellsize"]
	if !ok || cellSize <= 0 {
		return nil, fmt.Errorf("ascii grid missing or invalid cellsize")
	}

	nc, nr := int(cols), int(rows)
	if len(values) != nc*nr {
		return nil, fmt.Errorf("ascii grid has %d values, expected %d", len(values), nc*nr)
	}

	var originX, originY float64
	switch {
	case hasKey(header, "xllcorner") && hasKey(header, "yllcorner"):
		originX = header["xllcorner"]
		originY = header["yllcorner"]
	case hasKey(header, "xllcenter") && hasKey(header, "yllcenter"):
		originX = header["xllcenter"] - cellSize/2
		originY = header["yllcenter"] - cellSize/2
	default:
		return nil, fmt.Errorf("ascii grid missing origin (xllcorner/yllcorner)")
	}

	g := NewGrid(nc, nr, originX, originY+float64(nr)*cellSize, cellSize)
	copy(g.values, values)
	if hasNodata {
		g.SetNoData(nodata)
	}
	return g, nil
}

// OpenASC reads an ESRI ASCII grid from disk.
func OpenASC(path string) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening ascii grid: %w", err)
	}
	defer f.Close()
	return ReadASC(f)
}

func hasKey(m map[string]float64, k string) bool {
	_, ok := m[k]
	return ok
}
