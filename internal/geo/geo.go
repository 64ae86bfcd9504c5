// Package geo owns the minimal 2D geometry the analysis needs: headings,
// normals, the circle-through-three-points radius estimate, and conversions
// into simplefeatures types for serialization. The core algorithms work on
// plain core.Position2D values so the pipeline stays deterministic and free
// of any external geometry object model.
package geo

import (
	"math"

	"github.com/windroute/gabarit/pkg/core"
)

// colinearTol is the relative determinant threshold below which three points
// are treated as colinear and the turning radius as infinite.
const colinearTol = 1e-9

// Heading returns the direction angle from one point to another, in radians
// counterclockwise from the +X axis.
func Heading(from, to core.Position2D) float64 {
	return math.Atan2(to.Y-from.Y, to.X-from.X)
}

// LeftNormal returns the unit normal pointing to the left of a heading.
func LeftNormal(heading float64) core.Position2D {
	return core.Position2D{X: -math.Sin(heading), Y: math.Cos(heading)}
}

// Offset translates a point by distance d along a unit direction.
func Offset(p core.Position2D, dir core.Position2D, d float64) core.Position2D {
	return core.Position2D{X: p.X + dir.X*d, Y: p.Y + dir.Y*d}
}

// Dist returns the Euclidean distance between two points.
func Dist(a, b core.Position2D) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// Lerp interpolates between two points at parameter t in [0,1].
func Lerp(a, b core.Position2D, t float64) core.Position2D {
	return core.Position2D{X: a.X + t*(b.X-a.X), Y: a.Y + t*(b.Y-a.Y)}
}

// Circumradius fits a circle through three consecutive points and returns the
// signed radius: positive when the path turns left (counterclockwise),
// negative when it turns right, +Inf when the points are degenerate or
// effectively colinear. Never divides by a near-zero determinant.
func Circumradius(a, b, c core.Position2D) float64 {
	ab := Dist(a, b)
	bc := Dist(b, c)
	ca := Dist(c, a)
	if ab == 0 || bc == 0 {
		return math.Inf(1)
	}

	// Twice the signed triangle area; its sign encodes the turn direction.
	cross := (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
	if math.Abs(cross) < colinearTol*ab*bc {
		return math.Inf(1)
	}

	r := (ab * bc * ca) / (2 * math.Abs(cross))
	if cross < 0 {
		return -r
	}
	return r
}
