package adjacency

import (
	"github.com/twpayne/go-geos"

	"github.com/statecraft/precinctgraph/pkg/geometry"
	"github.com/statecraft/precinctgraph/pkg/spatial"
)

// candidatePairs returns every unordered pair of regions whose bounding
// boxes, expanded by tolerance, intersect. Each pair appears exactly once
// with i < j by insertion index, so downstream iteration is deterministic.
//
// Regions without usable geometry are not indexed: they can produce no
// geometric edge, and connectivity repair handles them later.
func candidatePairs(regions []geometry.Region, tolerance float64) [][2]int {
	boxes := make([]spatial.Bounds, len(regions))
	usable := make([]bool, len(regions))

	var sum float64
	var n int
	for i, r := range regions {
		if r.Geom == nil || r.Geom.IsEmpty() {
			continue
		}
		b := toBounds(r.Geom.Bounds()).Expand(tolerance)
		boxes[i] = b
		usable[i] = true
		sum += max(b.Width(), b.Height())
		n++
	}

	cellSize := 1.0
	if n > 0 && sum > 0 {
		cellSize = sum / float64(n)
	}

	idx := spatial.NewGridIndex(cellSize)
	for i := range regions {
		if usable[i] {
			idx.Insert(i, boxes[i])
		}
	}

	var pairs [][2]int
	for i := range regions {
		if !usable[i] {
			continue
		}
		for _, j := range idx.Search(boxes[i]) {
			if j > i {
				pairs = append(pairs, [2]int{i, j})
			}
		}
	}
	return pairs
}

// toBounds converts a GEOS bounding box to a spatial.Bounds.
func toBounds(b *geos.Box2D) spatial.Bounds {
	return spatial.Bounds{MinX: b.MinX, MinY: b.MinY, MaxX: b.MaxX, MaxY: b.MaxY}
}
