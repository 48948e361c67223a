package adjacency

import (
	"strings"

	"github.com/charmbracelet/log"

	"github.com/statecraft/precinctgraph/pkg/errors"
	"github.com/statecraft/precinctgraph/pkg/geometry"
	"github.com/statecraft/precinctgraph/pkg/graph"
)

// repPoints caches representative points per region id. Failures are
// remembered so a degenerate geometry is probed only once.
type repPoints struct {
	regions map[string]geometry.Region
	points  map[string]geometry.Point
	failed  map[string]bool
}

func newRepPoints(regions map[string]geometry.Region) *repPoints {
	return &repPoints{
		regions: regions,
		points:  make(map[string]geometry.Point),
		failed:  make(map[string]bool),
	}
}

// get returns the representative point for id, or ok=false if the region's
// geometry cannot yield one.
func (rp *repPoints) get(id string) (geometry.Point, bool) {
	if p, ok := rp.points[id]; ok {
		return p, true
	}
	if rp.failed[id] {
		return geometry.Point{}, false
	}
	p, err := rp.regions[id].RepresentativePoint()
	if err != nil {
		rp.failed[id] = true
		return geometry.Point{}, false
	}
	rp.points[id] = p
	return p, true
}

// repairConnectivity adds bridge edges until the graph has one connected
// component, returning the bridge distances in the order the bridges were
// added.
//
// Components are processed largest first: the largest becomes the main
// component, and each pending component is joined to it by a single bridge
// between the globally nearest representative-point pair. After each bridge
// the pending component's nodes are absorbed into the main set, so later
// components may attach to any node joined so far. Exact distance ties are
// broken by id order (pending id first, then main id).
//
// A pending component none of whose nodes yields a representative point
// cannot be bridged; that is a fatal DEGENERATE_GEOMETRY error naming the
// offending ids. Degenerate nodes inside a bridgeable component are skipped
// as endpoints and logged.
func repairConnectivity(g *graph.Graph, regions map[string]geometry.Region, logger *log.Logger) ([]float64, error) {
	comps := g.ConnectedComponents()
	if len(comps) <= 1 {
		return nil, nil
	}

	logger.Debug("repairing connectivity", "components", len(comps))
	rp := newRepPoints(regions)

	main := append([]string(nil), comps[0]...)
	distances := make([]float64, 0, len(comps)-1)

	for _, pending := range comps[1:] {
		var (
			bestPending string
			bestMain    string
			bestDist    float64
			found       bool
		)
		for _, p := range pending {
			pPoint, ok := rp.get(p)
			if !ok {
				logger.Warn("skipping bridge endpoint with degenerate geometry", "id", p)
				continue
			}
			for _, m := range main {
				mPoint, ok := rp.get(m)
				if !ok {
					continue
				}
				d := pPoint.DistanceTo(mPoint)
				if !found || d < bestDist ||
					(d == bestDist && (p < bestPending || (p == bestPending && m < bestMain))) {
					bestPending, bestMain, bestDist = p, m, d
					found = true
				}
			}
		}
		if !found {
			return nil, errors.New(errors.ErrCodeDegenerateGeometry,
				"cannot bridge component {%s}: no member yields a representative point",
				strings.Join(pending, ", "))
		}

		meta := graph.EdgeMeta{Tier: graph.TierBridge, BridgeDistance: bestDist}
		if err := g.AddEdge(bestPending, bestMain, meta); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err,
				"add bridge %s-%s", bestPending, bestMain)
		}
		logger.Debug("bridge added",
			"from", bestPending, "to", bestMain, "distance_m", bestDist)
		distances = append(distances, bestDist)
		main = append(main, pending...)
	}
	return distances, nil
}
