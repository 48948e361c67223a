package graph

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/goccy/go-graphviz"
)

// DOTOptions configures DOT export.
type DOTOptions struct {
	// Detailed includes edge evidence (shared length or bridge distance)
	// as edge labels. When false, edges carry only their tier styling.
	Detailed bool
}

// ToDOT converts a graph to Graphviz DOT format for node-link inspection.
// The resulting DOT string can be rendered with [RenderSVG].
//
// Edge styling encodes the tier: strict edges are solid, tolerance edges
// dashed, and bridge edges dashed red so synthetic connectivity is visible
// at a glance. Nodes and edges are emitted in sorted order so output is
// deterministic.
func ToDOT(g *Graph, opts DOTOptions) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=point, width=0.08];\n")
	buf.WriteString("  edge [fontsize=10];\n")
	buf.WriteString("\n")

	ids := g.NodeIDs()
	slices.Sort(ids)
	for _, id := range ids {
		fmt.Fprintf(&buf, "  %q;\n", id)
	}

	buf.WriteString("\n")
	wire := toWire(g)
	for _, e := range wire.Edges {
		attrs := edgeAttrs(e, opts.Detailed)
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %q -- %q;\n", e.Source, e.Target)
			continue
		}
		fmt.Fprintf(&buf, "  %q -- %q [%s];\n", e.Source, e.Target, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func edgeAttrs(e edgeJSON, detailed bool) []string {
	var attrs []string
	switch e.Tier {
	case TierTolerance:
		attrs = append(attrs, "style=dashed")
	case TierBridge:
		attrs = append(attrs, "style=dashed", "color=red")
	}
	if detailed {
		switch e.Tier {
		case TierBridge:
			attrs = append(attrs, fmt.Sprintf("label=\"%.0fm\"", e.BridgeDistance))
		default:
			attrs = append(attrs, fmt.Sprintf("label=\"%.0fm\"", e.SharedLength))
		}
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz in-process.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	parsed, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer parsed.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, parsed, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

// SortedMetaKeys returns the graph metadata keys in sorted order, for
// stable display in diagnostics output.
func SortedMetaKeys(g *Graph) []string {
	return slices.Sorted(maps.Keys(g.meta))
}
