// Package pipeline orchestrates the full build: read regions, build the
// adjacency graph (with caching), and write the output artifacts.
//
// The [Runner] is the single entry point used by both the CLI and tests.
// It is stateless apart from its cache and logger; the same Runner can
// execute many option sets.
package pipeline

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/statecraft/precinctgraph/pkg/adjacency"
	"github.com/statecraft/precinctgraph/pkg/graph"
)

// ValidFormats lists the supported output formats.
var ValidFormats = map[string]bool{
	"json": true,
	"dot":  true,
	"svg":  true,
}

// Options configures one pipeline execution.
type Options struct {
	// Input is the path to the GeoJSON FeatureCollection of regions.
	Input string

	// Output is the path for the graph JSON artifact. Empty means no
	// files are written; artifacts are still returned on the Result.
	Output string

	// SecondaryOutput optionally receives a second copy of the graph
	// JSON, for pipelines that consume the graph from two locations.
	SecondaryOutput string

	// Formats selects the artifacts to produce. json is always
	// included; dot and svg are written next to Output with swapped
	// extensions.
	Formats []string

	// Detailed adds evidence labels to DOT/SVG edges.
	Detailed bool

	// Config holds the adjacency build parameters. A zero Config is
	// replaced with adjacency.Default().
	Config adjacency.Config

	// NoCache disables the cache entirely for this run.
	NoCache bool

	// Refresh bypasses the cache on read but still stores the fresh
	// result.
	Refresh bool

	// Logger overrides the Runner's logger for this run.
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// Idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Config == (adjacency.Config{}) {
		o.Config = adjacency.Default()
	}
	if err := o.Config.Validate(); err != nil {
		return err
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{"json"}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if !hasFormat(o.Formats, "json") {
		o.Formats = append([]string{"json"}, o.Formats...)
	}
	o.validated = true
	return nil
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: json, dot, svg)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

func hasFormat(formats []string, want string) bool {
	for _, f := range formats {
		if f == want {
			return true
		}
	}
	return false
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the built adjacency graph.
	Graph *graph.Graph

	// GraphHash is the content hash of the serialized graph.
	GraphHash string

	// RunID uniquely identifies this execution in logs and stats.
	RunID string

	// Artifacts contains produced outputs keyed by format.
	Artifacts map[string][]byte

	// Diagnostics summarizes the build. Recomputed from the graph on a
	// cache hit, so pre-repair component sizes may be missing.
	Diagnostics *adjacency.Diagnostics

	// Stats contains timing and size information.
	Stats Stats

	// CacheHit reports whether the graph came from the cache.
	CacheHit bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	RegionCount    int
	EdgeCount      int
	StrictEdges    int
	ToleranceEdges int
	BridgeEdges    int
	ReadTime       time.Duration
	BuildTime      time.Duration
	WriteTime      time.Duration
}
