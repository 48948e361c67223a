package adjacency

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/statecraft/precinctgraph/pkg/errors"
	"github.com/statecraft/precinctgraph/pkg/geometry"
	"github.com/statecraft/precinctgraph/pkg/graph"
)

// Build constructs the connected adjacency graph over regions.
//
// The returned graph contains one node per input region (node preservation
// holds even for regions with no geometric neighbors) and at most one edge
// per unordered pair. After Build returns without error the graph has
// exactly one connected component, with bridge edges making up the
// difference.
//
// Build validates cfg first and fails with INVALID_PARAMETER before any
// geometry work. A nil logger disables logging.
func Build(ctx context.Context, regions []geometry.Region, cfg Config, logger *log.Logger) (*graph.Graph, *Diagnostics, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	g := graph.New(map[string]geometry.Value{
		"min_shared_boundary_m": geometry.Number(cfg.minSharedMeters()),
		"proximity_tolerance_m": geometry.Number(cfg.toleranceMeters()),
		"fuzz_m":                geometry.Number(cfg.FuzzMeters),
	})

	byID := make(map[string]geometry.Region, len(regions))
	for _, r := range regions {
		if err := g.AddNode(graph.Node{ID: r.ID, Attrs: r.Attrs}); err != nil {
			return nil, nil, errors.Wrap(errors.ErrCodeInvalidInput, err,
				"add region %q", r.ID)
		}
		byID[r.ID] = r
	}

	start := time.Now()
	pairs := candidatePairs(regions, cfg.toleranceMeters())
	logger.Debug("candidate pairs found",
		"regions", len(regions), "pairs", len(pairs), "duration", time.Since(start))

	start = time.Now()
	results, err := classifyPairs(ctx, regions, pairs, cfg)
	if err != nil {
		return nil, nil, err
	}
	for i, res := range results {
		if !res.ok {
			continue
		}
		p := pairs[i]
		if err := g.AddEdge(regions[p[0]].ID, regions[p[1]].ID, res.meta); err != nil {
			return nil, nil, errors.Wrap(errors.ErrCodeInternal, err,
				"add edge %s-%s", regions[p[0]].ID, regions[p[1]].ID)
		}
	}
	logger.Debug("pairs classified",
		"pairs", len(pairs), "edges", g.EdgeCount(), "duration", time.Since(start))

	diag := &Diagnostics{
		RegionCount:          len(regions),
		CandidatePairs:       len(pairs),
		ComponentSizesBefore: componentSizes(g),
	}

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	start = time.Now()
	bridges, err := repairConnectivity(g, byID, logger)
	if err != nil {
		return nil, nil, err
	}
	if len(bridges) > 0 {
		logger.Debug("connectivity repaired",
			"bridges", len(bridges), "duration", time.Since(start))
	}

	diag.ComponentSizesAfter = componentSizes(g)
	diag.TierCounts = g.TierCounts()
	diag.BridgeDistances = bridges
	diag.DegreeMin, diag.DegreeMedian, diag.DegreeMax = degreeStats(g)
	return g, diag, nil
}
