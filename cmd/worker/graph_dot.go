package main

import (
	"fmt"
	"os"

	"github.com/GoSim-25-26J-441/medinav-backend/internal/catalog"
	"github.com/GoSim-25-26J-441/medinav-backend/internal/navigation/graph"
	"github.com/GoSim-25-26J-441/medinav-backend/internal/navigation/service"
)

func runDOT(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: dot <facility.yaml> [out.dot]")
	}
	out := ""
	if len(args) > 1 {
		out = args[1]
	}
	return writeDOT(args[0], out)
}

// writeDOT renders the facility graph. An empty outPath writes to stdout.
func writeDOT(inPath, outPath string) error {
	g, err := loadFacilityGraph(inPath)
	if err != nil {
		return err
	}
	dot := graph.ToDOT(g)
	if outPath == "" {
		_, err = os.Stdout.Write(dot)
		return err
	}
	return os.WriteFile(outPath, dot, 0o644)
}

func loadFacilityGraph(path string) (*graph.Graph, error) {
	cat, err := catalog.Load(path)
	if err != nil {
		return nil, err
	}
	return service.LoadGraph(cat.Facility(), graph.DefaultOptions())
}
