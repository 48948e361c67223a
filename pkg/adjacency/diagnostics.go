package adjacency

import (
	"slices"

	"github.com/statecraft/precinctgraph/pkg/graph"
)

// Diagnostics summarizes a build for operator visibility. It is
// non-authoritative: the graph itself carries all audit evidence.
type Diagnostics struct {
	RegionCount    int
	CandidatePairs int

	// Component sizes before and after connectivity repair, largest first.
	ComponentSizesBefore []int
	ComponentSizesAfter  []int

	// Edge counts per tier.
	TierCounts map[graph.Tier]int

	// Distances of the added bridges, in the order they were added.
	BridgeDistances []float64

	// Degree distribution over all nodes.
	DegreeMin    int
	DegreeMedian float64
	DegreeMax    int
}

// Summarize recomputes diagnostics from a finished graph. Used when the
// graph came from a cache or a file and no build-time diagnostics exist;
// pre-repair component sizes are not recoverable and are left nil.
func Summarize(g *graph.Graph) *Diagnostics {
	d := &Diagnostics{
		RegionCount:         g.NodeCount(),
		ComponentSizesAfter: componentSizes(g),
		TierCounts:          g.TierCounts(),
	}
	for _, e := range g.Edges() {
		if e.Meta.Tier == graph.TierBridge {
			d.BridgeDistances = append(d.BridgeDistances, e.Meta.BridgeDistance)
		}
	}
	d.DegreeMin, d.DegreeMedian, d.DegreeMax = degreeStats(g)
	return d
}

// componentSizes returns the sizes of the graph's connected components,
// largest first.
func componentSizes(g *graph.Graph) []int {
	comps := g.ConnectedComponents()
	sizes := make([]int, len(comps))
	for i, c := range comps {
		sizes[i] = len(c)
	}
	return sizes
}

// degreeStats computes the minimum, median, and maximum node degree.
// All zeros for an empty graph.
func degreeStats(g *graph.Graph) (minDeg int, median float64, maxDeg int) {
	ids := g.NodeIDs()
	if len(ids) == 0 {
		return 0, 0, 0
	}
	degrees := make([]int, len(ids))
	for i, id := range ids {
		degrees[i] = g.Degree(id)
	}
	slices.Sort(degrees)

	minDeg = degrees[0]
	maxDeg = degrees[len(degrees)-1]
	mid := len(degrees) / 2
	if len(degrees)%2 == 1 {
		median = float64(degrees[mid])
	} else {
		median = float64(degrees[mid-1]+degrees[mid]) / 2
	}
	return minDeg, median, maxDeg
}
