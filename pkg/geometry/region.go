package geometry

import (
	"math"

	"github.com/twpayne/go-geos"

	"github.com/statecraft/precinctgraph/pkg/errors"
)

// Region is one precinct: the basic spatial unit that becomes a graph node.
// Regions are immutable inputs; nothing downstream mutates the geometry or
// the attribute bag.
type Region struct {
	ID    string           // Unique, stable identifier
	Geom  *geos.Geom       // Polygon or multipolygon in a projected CRS
	Attrs map[string]Value // Sanitized attribute bag (includes the id attribute)
}

// Point is a location in the working projection's linear unit.
type Point struct {
	X, Y float64
}

// DistanceTo returns the planar Euclidean distance to other.
func (p Point) DistanceTo(other Point) float64 {
	return math.Hypot(p.X-other.X, p.Y-other.Y)
}

// RepresentativePoint returns a point guaranteed to lie inside the region's
// area (GEOS point-on-surface). Unlike the centroid it cannot fall outside
// a crescent-shaped region, which makes it a stable proxy for "location"
// when selecting bridge endpoints.
//
// Returns a DEGENERATE_GEOMETRY error if the geometry is nil, empty, or
// cannot yield an interior point.
func (r Region) RepresentativePoint() (Point, error) {
	if r.Geom == nil || r.Geom.IsEmpty() {
		return Point{}, errors.New(errors.ErrCodeDegenerateGeometry,
			"region %q has no usable geometry for a representative point", r.ID)
	}
	pt := r.Geom.PointOnSurface()
	if pt == nil || pt.IsEmpty() {
		return Point{}, errors.New(errors.ErrCodeDegenerateGeometry,
			"region %q yielded no representative point", r.ID)
	}
	seq := pt.CoordSeq()
	return Point{X: seq.X(0), Y: seq.Y(0)}, nil
}
