package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/statecraft/precinctgraph/pkg/adjacency"
	"github.com/statecraft/precinctgraph/pkg/cache"
	"github.com/statecraft/precinctgraph/pkg/errors"
	"github.com/statecraft/precinctgraph/pkg/geometry"
	"github.com/statecraft/precinctgraph/pkg/graph"
)

// Runner executes the build pipeline with caching.
//
// The Runner is stateless except for the cache and logger; multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache.
// A nil cache disables caching; a nil logger uses the default logger.
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Logger: logger}
}

// Execute runs the complete read -> build -> serialize -> write pipeline.
//
// The graph artifact is content addressed: the cache key combines the
// SHA-256 of the input bytes with the build parameters, so a hit is always
// equivalent to a fresh build. The serialized graph carries no per-run
// state; the run id appears only in logs and on the Result.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := r.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	}

	result := &Result{
		RunID:     uuid.NewString(),
		Artifacts: make(map[string][]byte),
	}
	logger.Debug("starting run", "run_id", result.RunID, "input", opts.Input)

	// Stage 1: Read
	readStart := time.Now()
	raw, err := os.ReadFile(opts.Input)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "input file %s", opts.Input)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read input %s", opts.Input)
	}
	inputHash := cache.Hash(raw)
	result.Stats.ReadTime = time.Since(readStart)

	c := r.Cache
	if opts.NoCache {
		c = cache.NewNullCache()
	}
	cacheKey := cache.GraphKey(inputHash, opts.Config)

	// Stage 2: Build (or cache hit)
	buildStart := time.Now()
	var g *graph.Graph
	if !opts.Refresh {
		if data, hit, err := c.Get(ctx, cacheKey); err == nil && hit {
			if cached, err := graph.ReadGraph(bytes.NewReader(data)); err == nil {
				g = cached
				result.CacheHit = true
				result.Diagnostics = adjacency.Summarize(g)
				logger.Debug("cache hit", "key", cacheKey)
			}
		}
	}
	if g == nil {
		regions, err := geometry.ReadRegions(bytes.NewReader(raw), opts.Config.IDAttribute)
		if err != nil {
			return nil, err
		}
		built, diag, err := adjacency.Build(ctx, regions, opts.Config, logger)
		if err != nil {
			return nil, err
		}
		g = built
		result.Diagnostics = diag
	}
	result.Graph = g
	result.Stats.BuildTime = time.Since(buildStart)
	fillStats(&result.Stats, g)

	logger.Info("graph built",
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"cache_hit", result.CacheHit,
		"duration", result.Stats.BuildTime)

	// Stage 3: Serialize
	data, err := graph.Marshal(g)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "serialize graph")
	}
	result.GraphHash = cache.Hash(data)
	result.Artifacts["json"] = data
	if !result.CacheHit {
		_ = c.Set(ctx, cacheKey, data, cache.TTLGraph)
	}

	if hasFormat(opts.Formats, "dot") || hasFormat(opts.Formats, "svg") {
		dot := graph.ToDOT(g, graph.DOTOptions{Detailed: opts.Detailed})
		if hasFormat(opts.Formats, "dot") {
			result.Artifacts["dot"] = []byte(dot)
		}
		if hasFormat(opts.Formats, "svg") {
			svg, err := graph.RenderSVG(dot)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInternal, err, "render svg")
			}
			result.Artifacts["svg"] = svg
		}
	}

	// Stage 4: Write
	writeStart := time.Now()
	if err := r.writeArtifacts(opts, result); err != nil {
		return nil, err
	}
	result.Stats.WriteTime = time.Since(writeStart)

	return result, nil
}

func fillStats(s *Stats, g *graph.Graph) {
	s.RegionCount = g.NodeCount()
	s.EdgeCount = g.EdgeCount()
	counts := g.TierCounts()
	s.StrictEdges = counts[graph.TierStrict]
	s.ToleranceEdges = counts[graph.TierTolerance]
	s.BridgeEdges = counts[graph.TierBridge]
}

// writeArtifacts writes the produced artifacts to disk. The json artifact
// goes to Output (and SecondaryOutput when set); dot and svg artifacts are
// written next to Output with swapped extensions.
func (r *Runner) writeArtifacts(opts Options, result *Result) error {
	if opts.Output == "" {
		return nil
	}
	if err := writeFile(opts.Output, result.Artifacts["json"]); err != nil {
		return err
	}
	if opts.SecondaryOutput != "" {
		if err := writeFile(opts.SecondaryOutput, result.Artifacts["json"]); err != nil {
			return err
		}
	}
	for _, format := range []string{"dot", "svg"} {
		data, ok := result.Artifacts[format]
		if !ok {
			continue
		}
		if err := writeFile(swapExt(opts.Output, "."+format), data); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output dir %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func swapExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
