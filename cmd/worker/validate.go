package main

import (
	"fmt"
	"log"
)

func runValidate(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: validate <facility.yaml>")
	}
	unreachable, total, err := validateFacility(args[0])
	if err != nil {
		return err
	}
	if len(unreachable) > 0 {
		return fmt.Errorf("%d of %d nodes unreachable: %v", len(unreachable), total, unreachable)
	}
	log.Printf("ok: %d nodes, all reachable", total)
	return nil
}

// validateFacility loads the catalog, builds the graph, and lists the nodes
// that cannot be reached from the first node
func validateFacility(path string) ([]string, int, error) {
	g, err := loadFacilityGraph(path)
	if err != nil {
		return nil, 0, err
	}
	nodes := g.Nodes()
	if len(nodes) == 0 {
		return nil, 0, fmt.Errorf("facility has no nodes")
	}

	reached := map[string]bool{}
	for _, id := range g.Reachable(nodes[0].ID) {
		reached[id] = true
	}
	var unreachable []string
	for _, n := range nodes {
		if !reached[n.ID] {
			unreachable = append(unreachable, n.ID)
		}
	}
	return unreachable, len(nodes), nil
}
