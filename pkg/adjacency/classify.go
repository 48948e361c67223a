package adjacency

import (
	"context"
	"sync"

	"github.com/twpayne/go-geos"

	"github.com/statecraft/precinctgraph/pkg/geometry"
	"github.com/statecraft/precinctgraph/pkg/graph"
)

// classification is the outcome for one candidate pair. ok is false when
// the pair produced no edge.
type classification struct {
	meta graph.EdgeMeta
	ok   bool
}

// classifyPair decides whether two geometries are adjacent and at which
// tier.
//
// Intersecting polygons are tested on the length of their boundary
// intersection: at or above minShared they get a strict edge, below it no
// edge (a corner touch or sliver is not adjacency). Non-intersecting
// polygons within tolerance are tested on their buffered boundaries, with
// one side fuzzed so near-coincident rings register an overlap.
//
// Degenerate intermediate geometries never raise an error; the pair is
// classified as no edge.
func classifyPair(a, b *geos.Geom, minShared, tolerance, fuzz float64) classification {
	if a == nil || b == nil || a.IsEmpty() || b.IsEmpty() {
		return classification{}
	}

	if a.Intersects(b) {
		shared := boundaryOverlap(a, b)
		if shared >= minShared {
			return classification{
				meta: graph.EdgeMeta{Tier: graph.TierStrict, SharedLength: shared},
				ok:   true,
			}
		}
		return classification{}
	}

	if a.Distance(b) > tolerance {
		return classification{}
	}

	shared := bufferedBoundaryOverlap(a, b, tolerance, fuzz)
	if shared >= minShared {
		return classification{
			meta: graph.EdgeMeta{
				Tier:         graph.TierTolerance,
				SharedLength: shared,
				Tolerance:    tolerance,
				Fuzz:         fuzz,
			},
			ok: true,
		}
	}
	return classification{}
}

// boundaryOverlap returns the length of the intersection of the two
// geometries' boundaries, or zero if the intersection is degenerate.
func boundaryOverlap(a, b *geos.Geom) float64 {
	ba := a.Boundary()
	bb := b.Boundary()
	if ba == nil || bb == nil {
		return 0
	}
	overlap := ba.Intersection(bb)
	if overlap == nil || overlap.IsEmpty() {
		return 0
	}
	return overlap.Length()
}

// bufferedBoundaryOverlap returns the length of the intersection of a's
// boundary buffered outward by tolerance with b's buffered boundary fuzzed
// by fuzz. Zero on any degenerate intermediate.
func bufferedBoundaryOverlap(a, b *geos.Geom, tolerance, fuzz float64) float64 {
	ba := a.Buffer(tolerance, bufferQuadSegs)
	bb := b.Buffer(tolerance, bufferQuadSegs)
	if ba == nil || bb == nil {
		return 0
	}
	ringA := ba.Boundary()
	ringB := bb.Boundary()
	if ringA == nil || ringB == nil {
		return 0
	}
	fuzzed := ringB.Buffer(fuzz, bufferQuadSegs)
	if fuzzed == nil {
		return 0
	}
	overlap := ringA.Intersection(fuzzed)
	if overlap == nil || overlap.IsEmpty() {
		return 0
	}
	return overlap.Length()
}

// classifyPairs classifies every candidate pair and returns one result per
// pair, index-aligned with pairs. With more than one worker the pair list
// is split into contiguous shards classified concurrently; results land in
// their pair's slot, so output is identical to the serial order.
func classifyPairs(ctx context.Context, regions []geometry.Region, pairs [][2]int, cfg Config) ([]classification, error) {
	results := make([]classification, len(pairs))
	minShared := cfg.minSharedMeters()
	tolerance := cfg.toleranceMeters()

	workers := cfg.Workers
	if workers <= 1 || len(pairs) < 2 {
		for i, p := range pairs {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			results[i] = classifyPair(regions[p[0]].Geom, regions[p[1]].Geom, minShared, tolerance, cfg.FuzzMeters)
		}
		return results, nil
	}
	if workers > len(pairs) {
		workers = len(pairs)
	}

	var wg sync.WaitGroup
	chunk := (len(pairs) + workers - 1) / workers
	for start := 0; start < len(pairs); start += chunk {
		end := min(start+chunk, len(pairs))
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				if ctx.Err() != nil {
					return
				}
				p := pairs[i]
				results[i] = classifyPair(regions[p[0]].Geom, regions[p[1]].Geom, minShared, tolerance, cfg.FuzzMeters)
			}
		}(start, end)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
