package graph

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/statecraft/precinctgraph/pkg/geometry"
)

func sampleGraph(t *testing.T) *Graph {
	t.Helper()
	g := New(map[string]geometry.Value{"state": geometry.String("AL")})
	for _, id := range []string{"b", "a", "c"} {
		if err := g.AddNode(Node{ID: id, Attrs: map[string]geometry.Value{
			"pop": geometry.Number(1000),
		}}); err != nil {
			t.Fatalf("AddNode: %v", err)
		}
	}
	if err := g.AddEdge("b", "a", EdgeMeta{Tier: TierStrict, SharedLength: 431.25}); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	if err := g.AddEdge("c", "a", EdgeMeta{Tier: TierTolerance, SharedLength: 88, Tolerance: 60.96, Fuzz: 1}); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	if err := g.AddEdge("b", "c", EdgeMeta{Tier: TierBridge, BridgeDistance: 90210.5}); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	return g
}

func TestMarshalRoundTrip(t *testing.T) {
	g := sampleGraph(t)

	data, err := Marshal(g)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	back, err := ReadGraph(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ReadGraph: %v", err)
	}

	if back.NodeCount() != 3 || back.EdgeCount() != 3 {
		t.Fatalf("round trip = %d nodes / %d edges, want 3/3", back.NodeCount(), back.EdgeCount())
	}
	if v, _ := back.Meta()["state"].Str(); v != "AL" {
		t.Errorf("meta state = %q, want AL", v)
	}

	meta, ok := back.EdgeBetween("a", "b")
	if !ok || meta.Tier != TierStrict || meta.SharedLength != 431.25 {
		t.Errorf("strict edge = %+v", meta)
	}
	meta, ok = back.EdgeBetween("a", "c")
	if !ok || meta.Tier != TierTolerance || meta.Tolerance != 60.96 || meta.Fuzz != 1 {
		t.Errorf("tolerance edge = %+v", meta)
	}
	meta, ok = back.EdgeBetween("b", "c")
	if !ok || meta.Tier != TierBridge || meta.BridgeDistance != 90210.5 {
		t.Errorf("bridge edge = %+v", meta)
	}

	n, _ := back.Node("a")
	if v, _ := n.Attrs["pop"].Float(); v != 1000 {
		t.Errorf("node attribute pop = %v, want 1000", v)
	}
}

func TestMarshalDeterministic(t *testing.T) {
	// Two graphs with the same content built in different orders must
	// marshal to identical bytes.
	g1 := sampleGraph(t)

	g2 := New(map[string]geometry.Value{"state": geometry.String("AL")})
	for _, id := range []string{"c", "b", "a"} {
		g2.AddNode(Node{ID: id, Attrs: map[string]geometry.Value{
			"pop": geometry.Number(1000),
		}})
	}
	g2.AddEdge("c", "b", EdgeMeta{Tier: TierBridge, BridgeDistance: 90210.5})
	g2.AddEdge("a", "c", EdgeMeta{Tier: TierTolerance, SharedLength: 88, Tolerance: 60.96, Fuzz: 1})
	g2.AddEdge("a", "b", EdgeMeta{Tier: TierStrict, SharedLength: 431.25})

	d1, err := Marshal(g1)
	if err != nil {
		t.Fatalf("Marshal g1: %v", err)
	}
	d2, err := Marshal(g2)
	if err != nil {
		t.Fatalf("Marshal g2: %v", err)
	}
	if !bytes.Equal(d1, d2) {
		t.Error("marshaled bytes differ for equivalent graphs")
	}
}

func TestMarshalShape(t *testing.T) {
	data, err := Marshal(sampleGraph(t))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var raw struct {
		Nodes []map[string]any `json:"nodes"`
		Edges []map[string]any `json:"edges"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	// Nodes sorted by id.
	ids := make([]string, len(raw.Nodes))
	for i, n := range raw.Nodes {
		ids[i] = n["id"].(string)
	}
	if ids[0] != "a" || ids[1] != "b" || ids[2] != "c" {
		t.Errorf("node order = %v, want [a b c]", ids)
	}

	// Bridge edge omits shared_length, carries bridge_distance.
	for _, e := range raw.Edges {
		if e["tier"] == "bridge" {
			if _, has := e["shared_length"]; has {
				t.Error("bridge edge carries shared_length")
			}
			if _, has := e["bridge_distance"]; !has {
				t.Error("bridge edge missing bridge_distance")
			}
		}
		if e["tier"] == "strict" {
			if _, has := e["bridge_distance"]; has {
				t.Error("strict edge carries bridge_distance")
			}
		}
	}
}

func TestReadGraphRejectsBadData(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "UnknownEndpoint",
			input: `{"nodes":[{"id":"a"}],"edges":[{"source":"a","target":"ghost","tier":"strict","shared_length":100}]}`,
		},
		{
			name:  "SelfLoop",
			input: `{"nodes":[{"id":"a"}],"edges":[{"source":"a","target":"a","tier":"strict","shared_length":100}]}`,
		},
		{
			name:  "BadTier",
			input: `{"nodes":[{"id":"a"},{"id":"b"}],"edges":[{"source":"a","target":"b","tier":"psychic"}]}`,
		},
		{
			name:  "DuplicatePair",
			input: `{"nodes":[{"id":"a"},{"id":"b"}],"edges":[{"source":"a","target":"b","tier":"strict","shared_length":1},{"source":"b","target":"a","tier":"strict","shared_length":2}]}`,
		},
		{
			name:  "DuplicateNode",
			input: `{"nodes":[{"id":"a"},{"id":"a"}],"edges":[]}`,
		},
		{
			name:  "NotJSON",
			input: `not a graph`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadGraph(strings.NewReader(tt.input)); err == nil {
				t.Error("ReadGraph succeeded, want error")
			}
		})
	}
}
