// Package adjacency builds a connected precinct adjacency graph from region
// polygons.
//
// The build runs in three phases:
//
//  1. Candidate pairs: each region's bounding box is expanded by the
//     proximity tolerance and indexed; only pairs with intersecting expanded
//     boxes are tested geometrically. Every true neighbor pair survives this
//     filter, and the pair count stays sub-quadratic in practice.
//  2. Classification: each candidate pair is classified as strict (the
//     polygons intersect and share at least the minimum boundary length),
//     tolerance (separated by at most the proximity tolerance, with buffered
//     boundaries overlapping by at least the minimum length), or no edge.
//  3. Connectivity repair: if the classified graph is disconnected, bridge
//     edges are added between nearest representative points until one
//     component remains. Exactly one bridge is added per extra component.
//
// Every emitted edge carries its tier and the numeric evidence that produced
// it, so downstream consumers can audit or filter edges (for example,
// dropping bridges to recover the geometrically pure subgraph).
package adjacency
