package service

import (
	"context"
	"fmt"

	"github.com/GoSim-25-26J-441/medinav-backend/internal/catalog"
	crowd "github.com/GoSim-25-26J-441/medinav-backend/internal/crowd/domain"
	"github.com/GoSim-25-26J-441/medinav-backend/internal/logging"
	"github.com/GoSim-25-26J-441/medinav-backend/internal/navigation/domain"
	"github.com/GoSim-25-26J-441/medinav-backend/internal/navigation/graph"
)

// Routes is a primary path with an optional detour. Alternate is nil when no
// route different from the primary exists.
type Routes struct {
	Primary   *domain.NavigationPath `json:"primary"`
	Alternate *domain.NavigationPath `json:"alternate,omitempty"`
}

// LoadGraph builds the facility graph from catalog data
func LoadGraph(f catalog.Facility, opts graph.Options) (*graph.Graph, error) {
	g := graph.New(opts)
	for _, n := range f.Nodes {
		if err := g.AddNode(n); err != nil {
			return nil, fmt.Errorf("load node: %w", err)
		}
	}
	for _, e := range f.Edges {
		if err := g.AddEdge(e); err != nil {
			return nil, fmt.Errorf("load edge: %w", err)
		}
	}
	return g, nil
}

// PathfinderService answers path requests over a read-only facility graph
type PathfinderService struct {
	graph *graph.Graph
}

// NewPathfinderService creates a new PathfinderService
func NewPathfinderService(g *graph.Graph) *PathfinderService {
	return &PathfinderService{graph: g}
}

func (s *PathfinderService) Graph() *graph.Graph {
	return s.graph
}

// FindPath computes an annotated path. A non-empty avoid list biases the
// search away from those nodes the same way an alternate route does.
func (s *PathfinderService) FindPath(ctx context.Context, start, end string, avoid []string, snap crowd.Snapshot) (*domain.NavigationPath, error) {
	logger := logging.New(ctx)

	var (
		path *domain.NavigationPath
		err  error
	)
	if len(avoid) > 0 {
		path, err = s.graph.AlternatePath(start, end, avoid, snap)
	} else {
		path, err = s.graph.ShortestPath(start, end, snap)
	}
	if err != nil {
		logger.LogWarnf("find_path", "start=%s end=%s error=%v", start, end, err)
		return nil, err
	}

	path.Steps = graph.Annotate(path.Steps)
	logger.LogDebugf("find_path", "start=%s end=%s steps=%d cost=%.2f", start, end, len(path.Steps), path.TotalDistance)
	return path, nil
}

// FindAlternatePath computes an annotated detour around a primary path
func (s *PathfinderService) FindAlternatePath(ctx context.Context, start, end string, primary []string, snap crowd.Snapshot) (*domain.NavigationPath, error) {
	path, err := s.graph.AlternatePath(start, end, primary, snap)
	if err != nil {
		logging.New(ctx).LogWarnf("find_alternate_path", "start=%s end=%s error=%v", start, end, err)
		return nil, err
	}
	path.Steps = graph.Annotate(path.Steps)
	return path, nil
}

// FindRoutes returns the primary path and, when one exists, a different
// alternate computed from the primary path's nodes.
func (s *PathfinderService) FindRoutes(ctx context.Context, start, end string, snap crowd.Snapshot) (*Routes, error) {
	primary, err := s.FindPath(ctx, start, end, nil, snap)
	if err != nil {
		return nil, err
	}

	alt, err := s.FindAlternatePath(ctx, start, end, primary.NodeIDs(), snap)
	if err != nil {
		return nil, err
	}
	if sameNodes(primary.NodeIDs(), alt.NodeIDs()) {
		alt = nil
	}
	return &Routes{Primary: primary, Alternate: alt}, nil
}

// Nodes lists facility nodes, optionally restricted to one floor
func (s *PathfinderService) Nodes(floor *int) []domain.Node {
	all := s.graph.Nodes()
	if floor == nil {
		return all
	}
	out := make([]domain.Node, 0, len(all))
	for _, n := range all {
		if n.FloorID == *floor {
			out = append(out, n)
		}
	}
	return out
}

func sameNodes(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
