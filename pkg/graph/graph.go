package graph

import (
	"errors"
	"slices"

	"github.com/statecraft/precinctgraph/pkg/geometry"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is
	// empty. All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists. Node IDs must be unique.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownNode is returned by [Graph.AddEdge] when either endpoint
	// does not exist in the graph.
	ErrUnknownNode = errors.New("unknown node")

	// ErrSelfLoop is returned by [Graph.AddEdge] when both endpoints name
	// the same node. A region is never adjacent to itself.
	ErrSelfLoop = errors.New("self-loop edge")

	// ErrDuplicateEdge is returned by [Graph.AddEdge] when an edge already
	// exists between the unordered pair. At most one edge per pair.
	ErrDuplicateEdge = errors.New("duplicate edge")

	// ErrInvalidTier is returned by [Graph.AddEdge] and [Graph.Validate]
	// when edge metadata carries an unknown tier.
	ErrInvalidTier = errors.New("invalid edge tier")
)

// Tier identifies which classification produced an edge.
type Tier string

const (
	// TierStrict marks edges whose polygons intersect and share at least
	// the minimum boundary length.
	TierStrict Tier = "strict"
	// TierTolerance marks edges whose polygons are within the proximity
	// tolerance and whose buffered boundaries share enough length.
	TierTolerance Tier = "tolerance"
	// TierBridge marks synthetic edges added purely to restore
	// connectivity.
	TierBridge Tier = "bridge"
)

// Valid reports whether t is one of the three known tiers.
func (t Tier) Valid() bool {
	return t == TierStrict || t == TierTolerance || t == TierBridge
}

// EdgeMeta records the tier that produced an edge and the numeric evidence
// behind the decision. Exactly the fields relevant to the tier are set:
//
//   - strict: SharedLength
//   - tolerance: SharedLength, Tolerance, Fuzz
//   - bridge: BridgeDistance
type EdgeMeta struct {
	Tier Tier

	// SharedLength is the measured shared-boundary length in the
	// projection's linear unit (strict and tolerance tiers).
	SharedLength float64

	// Tolerance is the proximity tolerance used for a tolerance edge.
	Tolerance float64

	// Fuzz is the fuzz buffer used for a tolerance edge.
	Fuzz float64

	// BridgeDistance is the representative-point distance used to select a
	// bridge edge's endpoints.
	BridgeDistance float64
}

// Node is one region in the graph: its id plus the pass-through attribute
// bag from the input.
type Node struct {
	ID    string
	Attrs map[string]geometry.Value
}

// Edge is an undirected edge between two region ids.
type Edge struct {
	A, B string
	Meta EdgeMeta
}

// pairKey returns the canonical unordered key for two ids.
func pairKey(a, b string) [2]string {
	if b < a {
		a, b = b, a
	}
	return [2]string{a, b}
}

// Graph is an undirected adjacency graph over region ids.
// The zero value is not usable - use [New]. Graph is not safe for
// concurrent writes.
type Graph struct {
	nodes    map[string]*Node
	order    []string // node ids in insertion order
	edges    []Edge
	edgeIdx  map[[2]string]int // canonical pair -> index into edges
	adjacent map[string][]string
	meta     map[string]geometry.Value
}

// New creates an empty graph with optional graph-level metadata
// (build parameters, run id). A nil meta creates an empty map.
func New(meta map[string]geometry.Value) *Graph {
	if meta == nil {
		meta = map[string]geometry.Value{}
	}
	return &Graph{
		nodes:    make(map[string]*Node),
		edgeIdx:  make(map[[2]string]int),
		adjacent: make(map[string][]string),
		meta:     meta,
	}
}

// Meta returns the graph-level metadata map.
// The returned map is never nil and can be safely modified.
func (g *Graph) Meta() map[string]geometry.Value { return g.meta }

// AddNode adds a node. Returns ErrInvalidNodeID for an empty id or
// ErrDuplicateNodeID if the id already exists. The node's Attrs field is
// initialized to an empty map if nil.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	if n.Attrs == nil {
		n.Attrs = map[string]geometry.Value{}
	}
	node := &n
	g.nodes[node.ID] = node
	g.order = append(g.order, node.ID)
	return nil
}

// AddEdge adds an undirected edge between two existing nodes.
// Returns ErrUnknownNode if an endpoint is missing, ErrSelfLoop if a == b,
// ErrDuplicateEdge if the unordered pair already has an edge, and
// ErrInvalidTier if meta.Tier is not a known tier.
func (g *Graph) AddEdge(a, b string, meta EdgeMeta) error {
	if a == b {
		return ErrSelfLoop
	}
	if _, ok := g.nodes[a]; !ok {
		return ErrUnknownNode
	}
	if _, ok := g.nodes[b]; !ok {
		return ErrUnknownNode
	}
	if !meta.Tier.Valid() {
		return ErrInvalidTier
	}
	key := pairKey(a, b)
	if _, exists := g.edgeIdx[key]; exists {
		return ErrDuplicateEdge
	}
	g.edgeIdx[key] = len(g.edges)
	g.edges = append(g.edges, Edge{A: a, B: b, Meta: meta})
	g.adjacent[a] = append(g.adjacent[a], b)
	g.adjacent[b] = append(g.adjacent[b], a)
	return nil
}

// HasEdge reports whether an edge exists between the unordered pair.
func (g *Graph) HasEdge(a, b string) bool {
	_, ok := g.edgeIdx[pairKey(a, b)]
	return ok
}

// EdgeBetween returns the edge metadata for the unordered pair, if any.
// (A, B) and (B, A) resolve to the same record.
func (g *Graph) EdgeBetween(a, b string) (EdgeMeta, bool) {
	i, ok := g.edgeIdx[pairKey(a, b)]
	if !ok {
		return EdgeMeta{}, false
	}
	return g.edges[i].Meta, true
}

// Node returns the node with the given ID and true, or nil and false.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all nodes in insertion order. The slice contains pointers
// to the actual node structs, so modifications affect the graph.
func (g *Graph) Nodes() []*Node {
	nodes := make([]*Node, 0, len(g.order))
	for _, id := range g.order {
		nodes = append(nodes, g.nodes[id])
	}
	return nodes
}

// NodeIDs returns all node ids in insertion order.
func (g *Graph) NodeIDs() []string { return slices.Clone(g.order) }

// Edges returns a copy of all edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// Neighbors returns the ids adjacent to the node, in edge insertion order.
// The returned slice should not be modified.
func (g *Graph) Neighbors(id string) []string { return g.adjacent[id] }

// Degree returns the number of edges incident to the node.
// Returns 0 if the node doesn't exist.
func (g *Graph) Degree(id string) int { return len(g.adjacent[id]) }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// TierCounts returns the number of edges per tier.
func (g *Graph) TierCounts() map[Tier]int {
	counts := make(map[Tier]int, 3)
	for _, e := range g.edges {
		counts[e.Meta.Tier]++
	}
	return counts
}

// Validate checks graph integrity and returns nil if valid.
// It verifies that every edge connects existing distinct nodes and carries
// a known tier. AddEdge already enforces these, so Validate only fails on
// graphs reconstructed from untrusted serialized data.
func (g *Graph) Validate() error {
	for _, e := range g.edges {
		if e.A == e.B {
			return ErrSelfLoop
		}
		if _, ok := g.nodes[e.A]; !ok {
			return ErrUnknownNode
		}
		if _, ok := g.nodes[e.B]; !ok {
			return ErrUnknownNode
		}
		if !e.Meta.Tier.Valid() {
			return ErrInvalidTier
		}
	}
	return nil
}
