package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/GoSim-25-26J-441/medinav-backend/internal/navigation/domain"
)

// ToDOT renders the facility graph as Graphviz DOT with one cluster per floor.
// Edges are undirected; elevator and stairs edges are dashed.
func ToDOT(g *Graph) []byte {
	var b strings.Builder
	b.WriteString("graph Facility {\n")
	b.WriteString(`  node [shape=box, style="rounded,filled", fillcolor=white];` + "\n")

	byFloor := map[int][]domain.Node{}
	for _, n := range g.Nodes() {
		byFloor[n.FloorID] = append(byFloor[n.FloorID], n)
	}
	floors := make([]int, 0, len(byFloor))
	for f := range byFloor {
		floors = append(floors, f)
	}
	sort.Ints(floors)

	for _, f := range floors {
		fmt.Fprintf(&b, "  subgraph cluster_floor_%d {\n", f)
		fmt.Fprintf(&b, "    label=\"Floor %d\";\n", f)
		for _, n := range byFloor[f] {
			label := n.ID
			if n.Label != "" {
				label = n.Label
			}
			fmt.Fprintf(&b, "    %q [label=%q, fillcolor=%q];\n", n.ID, label, nodeColor(n.Type))
		}
		b.WriteString("  }\n")
	}

	for _, e := range g.Edges() {
		style := "solid"
		if e.Type == domain.EdgeElevator || e.Type == domain.EdgeStairs {
			style = "dashed"
		}
		fmt.Fprintf(&b, "  %q -- %q [label=\"%g\", style=%s];\n", e.From, e.To, e.Weight, style)
	}
	b.WriteString("}\n")
	return []byte(b.String())
}

func nodeColor(t domain.NodeType) string {
	switch t {
	case domain.NodeCorridor:
		return "lightgrey"
	case domain.NodeElevator, domain.NodeStairs:
		return "lightblue"
	case domain.NodeEmergency:
		return "salmon"
	case domain.NodeExit:
		return "palegreen"
	default:
		return "white"
	}
}
