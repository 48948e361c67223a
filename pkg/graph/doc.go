// Package graph provides the undirected adjacency graph over region ids and
// its canonical serialization format.
//
// # Structure
//
// [Graph] is a simple undirected graph: the node set is exactly the set of
// added region ids, self-loops are rejected, and at most one edge exists per
// unordered pair. Every edge carries an [EdgeMeta] naming the tier that
// produced it (strict, tolerance, or bridge) together with the numeric
// evidence for that decision - no edge exists without a recorded reason.
//
// # Wire Format
//
// Graphs serialize to a node-link JSON format:
//
//	{
//	  "meta":  {"run_id": "..."},
//	  "nodes": [{"id": "01-001", "attributes": {"pop": 1200}}],
//	  "edges": [{"source": "01-001", "target": "01-002",
//	             "tier": "strict", "shared_length": 431.7}]
//	}
//
// Nodes are sorted by id and edges by (source, target), so identical inputs
// produce byte-identical output. The format is consumable by any node-link
// graph loader that builds an adjacency representation keyed by node id.
//
// Common operations:
//
//	g, _ := graph.ReadGraphFile("AL_graph.json")   // File -> Graph
//	graph.WriteGraphFile(g, "out.json")            // Graph -> File
//	data, _ := graph.Marshal(g)                    // Graph -> []byte
//
// # Diagnostics
//
// [ToDOT] exports Graphviz DOT with per-tier edge styling, and [RenderSVG]
// rasterizes it in-process for operator inspection.
//
// # Concurrency
//
// A Graph is safe for concurrent reads but not concurrent writes.
package graph
