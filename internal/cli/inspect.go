package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/statecraft/precinctgraph/pkg/adjacency"
	"github.com/statecraft/precinctgraph/pkg/graph"
)

// inspectCommand creates the inspect command, which summarizes a
// previously built graph file.
func (c *CLI) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <graph.json>",
		Short: "Summarize a built adjacency graph",
		Long: `Inspect a previously built graph JSON file: node and edge counts,
edge tiers, degree distribution, and the connectivity check.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := graph.ReadGraphFile(args[0])
			if err != nil {
				return err
			}

			d := adjacency.Summarize(g)

			printKeyValue("nodes", fmt.Sprintf("%d", g.NodeCount()))
			printKeyValue("edges", fmt.Sprintf("%d", g.EdgeCount()))
			printKeyValue("strict", fmt.Sprintf("%d", d.TierCounts[graph.TierStrict]))
			printKeyValue("tolerance", fmt.Sprintf("%d", d.TierCounts[graph.TierTolerance]))
			printKeyValue("bridge", fmt.Sprintf("%d", d.TierCounts[graph.TierBridge]))
			printKeyValue("degree", fmt.Sprintf("min %d · median %.1f · max %d",
				d.DegreeMin, d.DegreeMedian, d.DegreeMax))

			for _, key := range graph.SortedMetaKeys(g) {
				if v, ok := g.Meta()[key].Float(); ok {
					printKeyValue(key, fmt.Sprintf("%g", v))
				}
			}

			if g.Connected() {
				printSuccess("Graph is connected")
			} else {
				printError("Graph has %d components", len(d.ComponentSizesAfter))
			}
			return nil
		},
	}
}
