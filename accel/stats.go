package accel

import (
	"bytes"
	"fmt"
	"math"
	"time"

	"github.com/olekukonko/tablewriter"
)

type Stats struct {
	// Number of partitioned primitives.
	Primitives int

	// Internal node, leaf count and tree depth.
	Nodes    int
	Leafs    int
	MaxDepth int

	// Expected cost of a random ray query relative to a single primitive
	// test.
	SAHCost float32

	// Wall clock build time; zero for restored trees.
	BuildTime time.Duration
}

// Build a tabular representation of the tree statistics.
func (s Stats) Table() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Metric", "Value"})
	table.Append([]string{"Primitives", fmt.Sprintf("%d", s.Primitives)})
	table.Append([]string{"Internal nodes", fmt.Sprintf("%d", s.Nodes)})
	table.Append([]string{"Leafs", fmt.Sprintf("%d", s.Leafs)})
	table.Append([]string{"Max depth", fmt.Sprintf("%d", s.MaxDepth)})
	table.Append([]string{"SAH cost", fmt.Sprintf("%.3f", s.SAHCost)})
	table.SetFooter([]string{"Build time", s.BuildTime.String()})
	table.Render()
	return buf.String()
}

// Evaluate the SAH cost of a tree: internal nodes contribute traversalCost
// and leafs their primitive count, each weighted by the probability that a
// ray hitting the root also hits the node.
func treeCost(nodes []BvhNode) float32 {
	if len(nodes) == 0 {
		return 0
	}

	rootArea := nodes[0].Bounds.surfaceArea64()
	if rootArea <= 0 || math.IsInf(rootArea, 1) {
		return 0
	}

	var cost float64
	for i := range nodes {
		weight := nodes[i].Bounds.surfaceArea64() / rootArea
		if nodes[i].IsLeaf() {
			_, count := nodes[i].Primitives()
			cost += weight * float64(count)
		} else {
			cost += weight * traversalCost
		}
	}
	return float32(cost)
}
