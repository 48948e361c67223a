package adjacency

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/twpayne/go-geos"

	"github.com/statecraft/precinctgraph/pkg/errors"
	"github.com/statecraft/precinctgraph/pkg/geometry"
	"github.com/statecraft/precinctgraph/pkg/graph"
)

// square returns a region covering the axis-aligned square with lower-left
// corner (x, y) and the given side length, in meters.
func square(t *testing.T, id string, x, y, side float64) geometry.Region {
	t.Helper()
	gj := fmt.Sprintf(
		`{"type":"Polygon","coordinates":[[[%g,%g],[%g,%g],[%g,%g],[%g,%g],[%g,%g]]]}`,
		x, y, x+side, y, x+side, y+side, x, y+side, x, y)
	geom, err := geos.NewGeomFromGeoJSON(gj)
	if err != nil {
		t.Fatalf("square %s: %v", id, err)
	}
	return geometry.Region{
		ID:    id,
		Geom:  geom,
		Attrs: map[string]geometry.Value{"GEOID": geometry.String(id)},
	}
}

func mustBuild(t *testing.T, regions []geometry.Region, cfg Config) (*graph.Graph, *Diagnostics) {
	t.Helper()
	g, diag, err := Build(context.Background(), regions, cfg, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return g, diag
}

func TestBuildStrictRow(t *testing.T) {
	// Three 1000 m squares in a row, each sharing a full side with the
	// next. The full side clears the 200 ft threshold, the outer pair is
	// 1000 m apart and gets nothing.
	regions := []geometry.Region{
		square(t, "a", 0, 0, 1000),
		square(t, "b", 1000, 0, 1000),
		square(t, "c", 2000, 0, 1000),
	}

	g, diag := mustBuild(t, regions, Default())

	if g.NodeCount() != 3 {
		t.Fatalf("NodeCount = %d, want 3", g.NodeCount())
	}
	counts := g.TierCounts()
	if counts[graph.TierStrict] != 2 || counts[graph.TierTolerance] != 0 || counts[graph.TierBridge] != 0 {
		t.Fatalf("TierCounts = %v, want 2 strict only", counts)
	}

	for _, pair := range [][2]string{{"a", "b"}, {"b", "c"}} {
		meta, ok := g.EdgeBetween(pair[0], pair[1])
		if !ok {
			t.Fatalf("missing edge %s-%s", pair[0], pair[1])
		}
		if meta.Tier != graph.TierStrict {
			t.Errorf("edge %s-%s tier = %s, want strict", pair[0], pair[1], meta.Tier)
		}
		if math.Abs(meta.SharedLength-1000) > 1 {
			t.Errorf("edge %s-%s shared length = %v, want ~1000", pair[0], pair[1], meta.SharedLength)
		}
	}
	if g.HasEdge("a", "c") {
		t.Error("unexpected edge a-c")
	}

	if !g.Connected() {
		t.Error("graph not connected")
	}
	if len(diag.ComponentSizesBefore) != 1 || diag.ComponentSizesBefore[0] != 3 {
		t.Errorf("components before = %v, want [3]", diag.ComponentSizesBefore)
	}
	if len(diag.BridgeDistances) != 0 {
		t.Errorf("bridges = %v, want none", diag.BridgeDistances)
	}
}

func TestBuildToleranceGap(t *testing.T) {
	// Two squares separated by a 15 m gap, under the 60.96 m tolerance.
	// The fuzz must cover twice the tolerance minus the gap for the
	// buffered boundaries to register their overlap.
	regions := []geometry.Region{
		square(t, "a", 0, 0, 1000),
		square(t, "b", 1015, 0, 1000),
	}
	cfg := Default()
	cfg.FuzzMeters = 120

	g, diag := mustBuild(t, regions, cfg)

	meta, ok := g.EdgeBetween("a", "b")
	if !ok {
		t.Fatal("missing edge a-b")
	}
	if meta.Tier != graph.TierTolerance {
		t.Fatalf("tier = %s, want tolerance", meta.Tier)
	}
	if meta.SharedLength < 1000 {
		t.Errorf("shared length = %v, want at least the facing side (1000)", meta.SharedLength)
	}
	if math.Abs(meta.Tolerance-60.96) > 1e-9 {
		t.Errorf("recorded tolerance = %v, want 60.96", meta.Tolerance)
	}
	if meta.Fuzz != 120 {
		t.Errorf("recorded fuzz = %v, want 120", meta.Fuzz)
	}
	if diag.TierCounts[graph.TierTolerance] != 1 {
		t.Errorf("TierCounts = %v, want 1 tolerance", diag.TierCounts)
	}
}

func TestBuildToleranceGapTooWide(t *testing.T) {
	// Gap beyond the tolerance distance: no edge, repaired by a bridge.
	regions := []geometry.Region{
		square(t, "a", 0, 0, 1000),
		square(t, "b", 1100, 0, 1000),
	}

	g, _ := mustBuild(t, regions, Default())

	meta, ok := g.EdgeBetween("a", "b")
	if !ok {
		t.Fatal("missing edge a-b")
	}
	if meta.Tier != graph.TierBridge {
		t.Errorf("tier = %s, want bridge", meta.Tier)
	}
}

func TestBuildBridgesFarComponent(t *testing.T) {
	// c sits 100 km away from the touching pair a-b. Exactly one bridge
	// connects it to b, whose representative point is nearer, and the
	// recorded distance is the true point distance.
	regions := []geometry.Region{
		square(t, "a", 0, 0, 1000),
		square(t, "b", 1000, 0, 1000),
		square(t, "c", 100000, 0, 1000),
	}

	g, diag := mustBuild(t, regions, Default())

	if !g.Connected() {
		t.Fatal("graph not connected")
	}
	if diag.TierCounts[graph.TierBridge] != 1 {
		t.Fatalf("TierCounts = %v, want 1 bridge", diag.TierCounts)
	}

	meta, ok := g.EdgeBetween("b", "c")
	if !ok {
		t.Fatal("missing bridge b-c")
	}
	if meta.Tier != graph.TierBridge {
		t.Fatalf("tier = %s, want bridge", meta.Tier)
	}
	// Representative points sit at the square centers: (1500,500) and
	// (100500,500), 99000 m apart.
	if math.Abs(meta.BridgeDistance-99000) > 1 {
		t.Errorf("bridge distance = %v, want ~99000", meta.BridgeDistance)
	}
	if g.HasEdge("a", "c") {
		t.Error("unexpected edge a-c")
	}

	if len(diag.ComponentSizesBefore) != 2 {
		t.Errorf("components before = %v, want two", diag.ComponentSizesBefore)
	}
	if len(diag.ComponentSizesAfter) != 1 {
		t.Errorf("components after = %v, want one", diag.ComponentSizesAfter)
	}
}

func TestBuildBridgeChain(t *testing.T) {
	// A threshold above every shared side suppresses all geometric edges,
	// leaving three singleton components. Repair must add exactly two
	// bridges, and later components may attach to previously absorbed
	// nodes.
	regions := []geometry.Region{
		square(t, "a", 0, 0, 1000),
		square(t, "b", 1000, 0, 1000),
		square(t, "c", 2000, 0, 1000),
	}
	cfg := Default()
	cfg.MinSharedBoundaryFeet = 5000 // 1524 m, above the 1000 m sides
	cfg.ProximityToleranceFeet = 5000

	g, _ := mustBuild(t, regions, cfg)

	if !g.Connected() {
		t.Fatal("graph not connected")
	}
	counts := g.TierCounts()
	if counts[graph.TierStrict] != 0 || counts[graph.TierBridge] != 2 {
		t.Fatalf("TierCounts = %v, want 2 bridges only", counts)
	}
	// a is the main seed (singletons order by id); b bridges to a, then c
	// bridges to the absorbed b rather than the farther a.
	if !g.HasEdge("a", "b") || !g.HasEdge("b", "c") {
		t.Errorf("bridge chain wrong: edges = %v", g.Edges())
	}
}

func TestBuildBridgeTieBreak(t *testing.T) {
	// c's representative point is equidistant from a's and b's. The tie
	// goes to the lexicographically smaller main id.
	regions := []geometry.Region{
		square(t, "a", 0, 0, 1000),
		square(t, "b", 1000, 0, 1000),
		square(t, "c", 500, 99500, 1000),
	}

	g, _ := mustBuild(t, regions, Default())

	if !g.HasEdge("a", "c") {
		t.Error("tie not broken toward a")
	}
	if g.HasEdge("b", "c") {
		t.Error("tie broken toward b")
	}
}

func TestBuildDegenerateIsolatedRegion(t *testing.T) {
	// A region without usable geometry gets no geometric edges; once the
	// repairer needs its representative point to bridge it, the build
	// fails naming the region.
	regions := []geometry.Region{
		square(t, "a", 0, 0, 1000),
		square(t, "b", 1000, 0, 1000),
		{ID: "bad", Attrs: map[string]geometry.Value{"GEOID": geometry.String("bad")}},
	}

	_, _, err := Build(context.Background(), regions, Default(), nil)
	if !errors.Is(err, errors.ErrCodeDegenerateGeometry) {
		t.Fatalf("Build = %v, want DEGENERATE_GEOMETRY", err)
	}
	if !strings.Contains(err.Error(), "bad") {
		t.Errorf("error does not name the region: %v", err)
	}
}

func TestBuildDegenerateConnectedRegionTolerated(t *testing.T) {
	// With a single component no bridging is needed, so a degenerate
	// region is tolerated as long as it is the only one.
	regions := []geometry.Region{
		{ID: "only", Attrs: map[string]geometry.Value{"GEOID": geometry.String("only")}},
	}

	g, _ := mustBuild(t, regions, Default())
	if g.NodeCount() != 1 || g.EdgeCount() != 0 {
		t.Errorf("graph = %d nodes / %d edges, want 1/0", g.NodeCount(), g.EdgeCount())
	}
}

func TestBuildThresholdMonotonicity(t *testing.T) {
	regions := []geometry.Region{
		square(t, "a", 0, 0, 1000),
		square(t, "b", 1000, 0, 1000),
		square(t, "c", 2000, 0, 1000),
		square(t, "d", 1000, 1000, 1000),
	}

	var prev int = -1
	for _, feet := range []float64{200, 2000, 5000} {
		cfg := Default()
		cfg.MinSharedBoundaryFeet = feet
		cfg.ProximityToleranceFeet = feet

		g, _ := mustBuild(t, regions, cfg)
		counts := g.TierCounts()
		geometric := counts[graph.TierStrict] + counts[graph.TierTolerance]
		if prev >= 0 && geometric > prev {
			t.Errorf("raising threshold to %g ft grew edges: %d > %d", feet, geometric, prev)
		}
		prev = geometric
	}
}

func TestBuildDeterministic(t *testing.T) {
	regions := []geometry.Region{
		square(t, "a", 0, 0, 1000),
		square(t, "b", 1000, 0, 1000),
		square(t, "c", 100000, 0, 1000),
		square(t, "d", 100000, 1000, 1000),
	}

	g1, _ := mustBuild(t, regions, Default())
	g2, _ := mustBuild(t, regions, Default())

	d1, err := graph.Marshal(g1)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	d2, err := graph.Marshal(g2)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !bytes.Equal(d1, d2) {
		t.Error("repeated builds differ")
	}
}

func TestBuildParallelMatchesSerial(t *testing.T) {
	var regions []geometry.Region
	for row := 0; row < 2; row++ {
		for col := 0; col < 5; col++ {
			id := fmt.Sprintf("r%dc%d", row, col)
			regions = append(regions, square(t, id, float64(col)*1000, float64(row)*1000, 1000))
		}
	}

	serial, _ := mustBuild(t, regions, Default())

	cfg := Default()
	cfg.Workers = 4
	parallel, _ := mustBuild(t, regions, cfg)

	ds, err := graph.Marshal(serial)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	dp, err := graph.Marshal(parallel)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !bytes.Equal(ds, dp) {
		t.Error("parallel classification diverged from serial")
	}
}

func TestBuildNodePreservation(t *testing.T) {
	regions := []geometry.Region{
		square(t, "x", 0, 0, 1000),
		square(t, "y", 5000, 5000, 10),
		square(t, "z", -9000, 0, 1000),
	}

	g, _ := mustBuild(t, regions, Default())

	if g.NodeCount() != len(regions) {
		t.Fatalf("NodeCount = %d, want %d", g.NodeCount(), len(regions))
	}
	for _, r := range regions {
		if _, ok := g.Node(r.ID); !ok {
			t.Errorf("node %s dropped", r.ID)
		}
	}
	if !g.Connected() {
		t.Error("graph not connected")
	}
}

func TestBuildRejectsBadConfig(t *testing.T) {
	cfg := Default()
	cfg.FuzzMeters = -1
	_, _, err := Build(context.Background(), nil, cfg, nil)
	if !errors.Is(err, errors.ErrCodeInvalidParameter) {
		t.Errorf("Build = %v, want INVALID_PARAMETER", err)
	}
}

func TestBuildCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	regions := []geometry.Region{
		square(t, "a", 0, 0, 1000),
		square(t, "b", 1000, 0, 1000),
	}
	if _, _, err := Build(ctx, regions, Default(), nil); err == nil {
		t.Error("Build succeeded with cancelled context")
	}
}
