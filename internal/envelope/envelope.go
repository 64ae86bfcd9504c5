// Package envelope assembles the per-station dynamic widths into the
// continuous ground-footprint polygon.
package envelope

import (
	"fmt"

	"github.com/windroute/gabarit/pkg/core"
)

// Build connects the outer transect points into a single closed ring: down
// the left rail in path order, back up the right rail, closed at both ends
// by the first and last transect's full width. Each station contributes its
// own extreme points — width discontinuities between stations are kept as
// steps, never interpolated, so sharp local width changes cannot fold the
// boundary into itself.
func Build(transects []core.Transect) (core.Envelope, error) {
	if len(transects) < 2 {
		return core.Envelope{}, fmt.Errorf("envelope needs at least 2 transects, got %d", len(transects))
	}

	ring := make([]core.Position2D, 0, 2*len(transects)+1)
	for _, t := range transects {
		ring = append(ring, t.Left())
	}
	for i := len(transects) - 1; i >= 0; i-- {
		ring = append(ring, transects[i].Right())
	}
	ring = append(ring, ring[0])

	env := core.Envelope{Ring: ring}
	if !env.Closed() {
		return core.Envelope{}, fmt.Errorf("degenerate envelope ring with %d vertices", len(ring))
	}
	return env, nil
}
