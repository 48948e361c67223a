package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/statecraft/precinctgraph/pkg/geometry"
)

// =============================================================================
// Wire Format
// =============================================================================

// graphJSON is the canonical node-link serialization of a Graph.
type graphJSON struct {
	Meta  map[string]geometry.Value `json:"meta,omitempty"`
	Nodes []nodeJSON                `json:"nodes"`
	Edges []edgeJSON                `json:"edges"`
}

type nodeJSON struct {
	ID    string                    `json:"id"`
	Attrs map[string]geometry.Value `json:"attributes,omitempty"`
}

type edgeJSON struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Tier   Tier   `json:"tier"`

	// Tier-specific evidence. A zero value is never legitimate for the
	// fields a tier sets (thresholds and distances are strictly positive),
	// so omitempty doubles as the tier discriminator.
	SharedLength   float64 `json:"shared_length,omitempty"`
	Tolerance      float64 `json:"tolerance,omitempty"`
	Fuzz           float64 `json:"fuzz,omitempty"`
	BridgeDistance float64 `json:"bridge_distance,omitempty"`
}

// =============================================================================
// Serialization API
// =============================================================================

// Marshal converts a graph to JSON bytes.
// Nodes are sorted by id and edges by (source, target) for deterministic
// output: the same graph always marshals to the same bytes.
func Marshal(g *Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeTo(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteGraph writes a graph as JSON to an io.Writer.
func WriteGraph(g *Graph, w io.Writer) error {
	return writeTo(g, w)
}

// WriteGraphFile writes a graph to a JSON file.
// The file is created with 0644 permissions.
func WriteGraphFile(g *Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeTo(g, f)
}

// ReadGraph decodes a JSON graph from an io.Reader.
// Returns validation errors for malformed graphs (unknown endpoints,
// self-loops, invalid tiers, duplicate pairs).
func ReadGraph(r io.Reader) (*Graph, error) {
	var data graphJSON
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return fromWire(data)
}

// ReadGraphFile reads a JSON file and returns the decoded graph.
func ReadGraphFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadGraph(f)
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeTo(g *Graph, w io.Writer) error {
	out := toWire(g)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func toWire(g *Graph) graphJSON {
	out := graphJSON{
		Nodes: make([]nodeJSON, 0, g.NodeCount()),
		Edges: make([]edgeJSON, 0, g.EdgeCount()),
	}
	if len(g.meta) > 0 {
		out.Meta = g.meta
	}

	ids := g.NodeIDs()
	slices.Sort(ids)
	for _, id := range ids {
		n := g.nodes[id]
		nj := nodeJSON{ID: n.ID}
		if len(n.Attrs) > 0 {
			nj.Attrs = n.Attrs
		}
		out.Nodes = append(out.Nodes, nj)
	}

	for _, e := range g.edges {
		src, dst := e.A, e.B
		if dst < src {
			src, dst = dst, src
		}
		out.Edges = append(out.Edges, edgeJSON{
			Source:         src,
			Target:         dst,
			Tier:           e.Meta.Tier,
			SharedLength:   e.Meta.SharedLength,
			Tolerance:      e.Meta.Tolerance,
			Fuzz:           e.Meta.Fuzz,
			BridgeDistance: e.Meta.BridgeDistance,
		})
	}
	slices.SortFunc(out.Edges, func(a, b edgeJSON) int {
		if a.Source != b.Source {
			if a.Source < b.Source {
				return -1
			}
			return 1
		}
		if a.Target < b.Target {
			return -1
		}
		if a.Target > b.Target {
			return 1
		}
		return 0
	})
	return out
}

func fromWire(data graphJSON) (*Graph, error) {
	g := New(data.Meta)
	for _, nj := range data.Nodes {
		if err := g.AddNode(Node{ID: nj.ID, Attrs: nj.Attrs}); err != nil {
			return nil, fmt.Errorf("add node %s: %w", nj.ID, err)
		}
	}
	for _, ej := range data.Edges {
		meta := EdgeMeta{
			Tier:           ej.Tier,
			SharedLength:   ej.SharedLength,
			Tolerance:      ej.Tolerance,
			Fuzz:           ej.Fuzz,
			BridgeDistance: ej.BridgeDistance,
		}
		if err := g.AddEdge(ej.Source, ej.Target, meta); err != nil {
			return nil, fmt.Errorf("add edge %s-%s: %w", ej.Source, ej.Target, err)
		}
	}
	return g, nil
}
