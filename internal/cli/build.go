package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/statecraft/precinctgraph/pkg/adjacency"
	"github.com/statecraft/precinctgraph/pkg/graph"
	"github.com/statecraft/precinctgraph/pkg/pipeline"
)

// buildOpts holds the command-line flags for the build command.
type buildOpts struct {
	output          string
	secondaryOutput string
	formats         string
	detailed        bool
	configFile      string

	minSharedBoundary float64
	tolerance         float64
	fuzz              float64
	idAttribute       string
	workers           int

	noCache bool
	refresh bool
}

// buildCommand creates the build command.
//
// Parameter precedence: defaults, then the TOML config file, then any
// explicitly set flags.
func (c *CLI) buildCommand() *cobra.Command {
	defaults := adjacency.Default()
	opts := buildOpts{
		output:            "graph.json",
		minSharedBoundary: defaults.MinSharedBoundaryFeet,
		tolerance:         defaults.ProximityToleranceFeet,
		fuzz:              defaults.FuzzMeters,
		idAttribute:       defaults.IDAttribute,
	}

	cmd := &cobra.Command{
		Use:   "build <regions.geojson>",
		Short: "Build the adjacency graph from a GeoJSON FeatureCollection",
		Long: `Build the precinct adjacency graph from a GeoJSON FeatureCollection.

Each feature becomes one node, keyed by the id attribute. Edges are
classified as strict (shared boundary at or above the threshold) or
tolerance (separated by a small gap, with buffered boundaries
overlapping); bridge edges are added where needed so the graph always
has a single connected component.

Examples:
  precinctgraph build precincts.geojson
  precinctgraph build precincts.geojson -o al.json --formats json,dot,svg
  precinctgraph build precincts.geojson --min-shared-boundary 150 --tolerance 150
  precinctgraph build precincts.geojson --config thresholds.toml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBuild(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "output path for the graph JSON")
	cmd.Flags().StringVar(&opts.secondaryOutput, "secondary-output", "", "optional second path receiving a copy of the graph JSON")
	cmd.Flags().StringVar(&opts.formats, "formats", "json", "comma-separated output formats (json, dot, svg)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "label dot/svg edges with their evidence")
	cmd.Flags().StringVar(&opts.configFile, "config", "", "TOML file with build parameters")
	cmd.Flags().Float64Var(&opts.minSharedBoundary, "min-shared-boundary", opts.minSharedBoundary, "minimum shared boundary length in feet")
	cmd.Flags().Float64Var(&opts.tolerance, "tolerance", opts.tolerance, "proximity tolerance for near-adjacent pairs in feet")
	cmd.Flags().Float64Var(&opts.fuzz, "fuzz", opts.fuzz, "buffer in meters applied during the tolerance test")
	cmd.Flags().StringVar(&opts.idAttribute, "id-attribute", opts.idAttribute, "feature property naming the region id")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "parallel classification workers (0 = serial)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the build cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "rebuild even if a cached graph exists")

	return cmd
}

func (c *CLI) runBuild(cmd *cobra.Command, input string, opts buildOpts) error {
	cfg := adjacency.Default()
	if opts.configFile != "" {
		if err := applyConfigFile(opts.configFile, &cfg); err != nil {
			return err
		}
	}
	applyFlag := map[string]func(){
		"min-shared-boundary": func() { cfg.MinSharedBoundaryFeet = opts.minSharedBoundary },
		"tolerance":           func() { cfg.ProximityToleranceFeet = opts.tolerance },
		"fuzz":                func() { cfg.FuzzMeters = opts.fuzz },
		"id-attribute":        func() { cfg.IDAttribute = opts.idAttribute },
		"workers":             func() { cfg.Workers = opts.workers },
	}
	for name, apply := range applyFlag {
		if cmd.Flags().Changed(name) {
			apply()
		}
	}

	runner := c.newRunner(opts.noCache)
	prog := newProgress(c.Logger)
	result, err := runner.Execute(cmd.Context(), pipeline.Options{
		Input:           input,
		Output:          opts.output,
		SecondaryOutput: opts.secondaryOutput,
		Formats:         parseFormats(opts.formats),
		Detailed:        opts.detailed,
		Config:          cfg,
		NoCache:         opts.noCache,
		Refresh:         opts.refresh,
	})
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Built graph with %d nodes and %d edges",
		result.Stats.RegionCount, result.Stats.EdgeCount))

	printSuccess("Adjacency graph built")
	printStats(result.Stats.RegionCount, result.Stats.EdgeCount, result.CacheHit)
	printDiagnostics(result)

	printFile(opts.output)
	if opts.secondaryOutput != "" {
		printFile(opts.secondaryOutput)
	}
	for _, format := range []string{"dot", "svg"} {
		if _, ok := result.Artifacts[format]; ok {
			printFile(strings.TrimSuffix(opts.output, filepath.Ext(opts.output)) + "." + format)
		}
	}
	return nil
}

// printDiagnostics prints the build diagnostics detail lines.
func printDiagnostics(result *pipeline.Result) {
	d := result.Diagnostics
	if d == nil {
		return
	}
	printDetail("edges: %d strict · %d tolerance · %d bridge",
		d.TierCounts[graph.TierStrict],
		d.TierCounts[graph.TierTolerance],
		d.TierCounts[graph.TierBridge])
	if len(d.ComponentSizesBefore) > 1 {
		printDetail("components before repair: %v", d.ComponentSizesBefore)
	}
	printDetail("degree: min %d · median %.1f · max %d", d.DegreeMin, d.DegreeMedian, d.DegreeMax)
	for i, dist := range d.BridgeDistances {
		printDetail("bridge %d: %.1f m", i+1, dist)
	}
}
