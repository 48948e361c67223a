package graph

import (
	"slices"
)

// ConnectedComponents returns the graph's connected components.
//
// The result is deterministic regardless of construction order: ids within
// a component are sorted ascending, components are ordered by descending
// size, and equal-size components are ordered by their smallest member id.
// An empty graph yields no components; an isolated node is a component of
// size one.
//
// Time: O(N + E). Memory: O(N) for visited flags and the queue.
func (g *Graph) ConnectedComponents() [][]string {
	seen := make(map[string]bool, len(g.order))
	var comps [][]string

	for _, start := range g.order {
		if seen[start] {
			continue
		}
		// BFS to collect the component containing start.
		queue := []string{start}
		seen[start] = true
		var comp []string

		for qi := 0; qi < len(queue); qi++ {
			u := queue[qi]
			comp = append(comp, u)
			for _, v := range g.adjacent[u] {
				if !seen[v] {
					seen[v] = true
					queue = append(queue, v)
				}
			}
		}

		slices.Sort(comp)
		comps = append(comps, comp)
	}

	slices.SortFunc(comps, func(a, b []string) int {
		if len(a) != len(b) {
			return len(b) - len(a)
		}
		if a[0] < b[0] {
			return -1
		}
		if a[0] > b[0] {
			return 1
		}
		return 0
	})
	return comps
}

// ComponentCount returns the number of connected components.
func (g *Graph) ComponentCount() int {
	return len(g.ConnectedComponents())
}

// Connected reports whether the graph has exactly one connected component.
// The empty graph is not connected.
func (g *Graph) Connected() bool {
	return g.ComponentCount() == 1
}
