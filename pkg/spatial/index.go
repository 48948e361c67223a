// Package spatial provides bounding-box indexing for candidate neighbor
// queries.
//
// The [Index] interface is the injected capability the candidate pair finder
// depends on: insert expanded bounding boxes, query a box, get candidate
// ids back. The default implementation is a uniform grid, which handles
// state-scale precinct sets (10^2-10^4 boxes) without tuning; any other
// structure (R-tree, k-d tree) can be substituted behind the same interface.
package spatial

import (
	"math"
	"slices"
)

// Bounds is an axis-aligned bounding box in the working projection.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
}

// Expand grows the box by d in all directions.
func (b Bounds) Expand(d float64) Bounds {
	return Bounds{
		MinX: b.MinX - d,
		MinY: b.MinY - d,
		MaxX: b.MaxX + d,
		MaxY: b.MaxY + d,
	}
}

// Intersects reports whether two boxes overlap (touching counts).
func (b Bounds) Intersects(o Bounds) bool {
	return b.MinX <= o.MaxX && o.MinX <= b.MaxX &&
		b.MinY <= o.MaxY && o.MinY <= b.MaxY
}

// Width returns the horizontal extent of the box.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical extent of the box.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Index answers "which inserted boxes intersect this box" queries.
// Implementations must return each matching id exactly once, in ascending
// order, so that candidate pair iteration is deterministic.
type Index interface {
	// Insert adds a box under the given id. Ids are small dense integers
	// (region insertion indices).
	Insert(id int, b Bounds)

	// Search returns the ids of all inserted boxes intersecting b,
	// ascending, each at most once.
	Search(b Bounds) []int
}

// cellKey addresses one grid cell.
type cellKey struct {
	x, y int
}

// GridIndex is a uniform-grid Index. Each inserted box is registered in
// every cell it covers; queries collect the cells the query box covers and
// deduplicate. Not safe for concurrent mutation; concurrent Search is fine
// once building is done.
type GridIndex struct {
	cellSize float64
	cells    map[cellKey][]int
	bounds   map[int]Bounds
}

// NewGridIndex creates a grid index with the given cell size.
// Cell size should be on the order of a typical box diagonal; a degenerate
// (non-positive) size falls back to 1 to keep the index usable.
func NewGridIndex(cellSize float64) *GridIndex {
	if cellSize <= 0 {
		cellSize = 1
	}
	return &GridIndex{
		cellSize: cellSize,
		cells:    make(map[cellKey][]int),
		bounds:   make(map[int]Bounds),
	}
}

// Insert adds a box under the given id.
func (g *GridIndex) Insert(id int, b Bounds) {
	g.bounds[id] = b
	minX, minY := g.cell(b.MinX, b.MinY)
	maxX, maxY := g.cell(b.MaxX, b.MaxY)
	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			k := cellKey{x, y}
			g.cells[k] = append(g.cells[k], id)
		}
	}
}

// Search returns the ids of all inserted boxes intersecting b.
func (g *GridIndex) Search(b Bounds) []int {
	minX, minY := g.cell(b.MinX, b.MinY)
	maxX, maxY := g.cell(b.MaxX, b.MaxY)

	seen := make(map[int]struct{})
	var out []int
	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			for _, id := range g.cells[cellKey{x, y}] {
				if _, dup := seen[id]; dup {
					continue
				}
				seen[id] = struct{}{}
				if g.bounds[id].Intersects(b) {
					out = append(out, id)
				}
			}
		}
	}
	slices.Sort(out)
	return out
}

func (g *GridIndex) cell(x, y float64) (int, int) {
	return int(math.Floor(x / g.cellSize)), int(math.Floor(y / g.cellSize))
}

// Ensure GridIndex implements Index.
var _ Index = (*GridIndex)(nil)
