package service

import (
	"context"
	"testing"

	"github.com/GoSim-25-26J-441/medinav-backend/internal/catalog"
	crowd "github.com/GoSim-25-26J-441/medinav-backend/internal/crowd/domain"
	"github.com/GoSim-25-26J-441/medinav-backend/internal/navigation/domain"
	"github.com/GoSim-25-26J-441/medinav-backend/internal/navigation/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupPathfinder(t *testing.T) *PathfinderService {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	g, err := LoadGraph(cat.Facility(), graph.DefaultOptions())
	require.NoError(t, err)
	return NewPathfinderService(g)
}

func TestLoadGraph_DefaultFacilityIsConnected(t *testing.T) {
	s := setupPathfinder(t)
	assert.Len(t, s.Graph().Reachable("entrance"), len(s.Graph().Nodes()))
}

func TestLoadGraph_RejectsBadEdges(t *testing.T) {
	f := catalog.Facility{
		Nodes: []domain.Node{{ID: "a"}, {ID: "b"}},
		Edges: []domain.Edge{{ID: "ab", From: "a", To: "b", Weight: -2}},
	}
	_, err := LoadGraph(f, graph.DefaultOptions())
	assert.ErrorIs(t, err, domain.ErrInvalidEdge)

	f.Edges = []domain.Edge{{ID: "ax", From: "a", To: "x", Weight: 1}}
	_, err = LoadGraph(f, graph.DefaultOptions())
	assert.ErrorIs(t, err, domain.ErrNodeNotFound)
}

func TestFindPath_AcrossFloors(t *testing.T) {
	s := setupPathfinder(t)

	path, err := s.FindPath(context.Background(), "entrance", "consultation", nil, crowd.Empty())
	require.NoError(t, err)

	assert.Equal(t, []string{"entrance", "c0-west", "stairs-0", "stairs-1", "c1-west", "consultation"}, path.NodeIDs())
	assert.InDelta(t, 78.0, path.TotalDistance, 1e-9)
	assert.InDelta(t, 78.0*graph.DefaultTimePerCost, path.EstimatedTime, 1e-9)

	assert.Equal(t, []string{
		graph.InstructionBegin,
		"Take the elevator/stairs Up to Floor 1",
		"Turn Right at the junction",
		graph.InstructionArrive,
	}, graph.Instructions(path.Steps))
	assert.Equal(t, graph.InstructionBegin, path.Steps[0].Instruction)
	assert.Equal(t, graph.InstructionArrive, path.Steps[len(path.Steps)-1].Instruction)
}

func TestFindPath_NotFound(t *testing.T) {
	s := setupPathfinder(t)

	_, err := s.FindPath(context.Background(), "entrance", "helipad", nil, crowd.Empty())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFindPath_AvoidNodes(t *testing.T) {
	s := setupPathfinder(t)
	ctx := context.Background()

	direct, err := s.FindPath(ctx, "entrance", "pharmacy", nil, crowd.Empty())
	require.NoError(t, err)
	assert.Contains(t, direct.NodeIDs(), "c0-mid")

	avoided, err := s.FindPath(ctx, "entrance", "pharmacy", []string{"c0-mid"}, crowd.Empty())
	require.NoError(t, err)
	assert.NotContains(t, avoided.NodeIDs(), "c0-mid")
}

func TestFindRoutes(t *testing.T) {
	s := setupPathfinder(t)
	ctx := context.Background()

	t.Run("detour exists", func(t *testing.T) {
		routes, err := s.FindRoutes(ctx, "entrance", "pharmacy", crowd.Empty())
		require.NoError(t, err)
		require.NotNil(t, routes.Alternate)

		assert.Equal(t, []string{"entrance", "c0-west", "stairs-0", "c0-mid", "elev-0", "c0-east", "pharmacy"}, routes.Primary.NodeIDs())
		assert.InDelta(t, 100.0, routes.Primary.TotalDistance, 1e-9)
		assert.NotEqual(t, routes.Primary.NodeIDs(), routes.Alternate.NodeIDs())
		assert.Equal(t, graph.InstructionArrive, routes.Alternate.Steps[len(routes.Alternate.Steps)-1].Instruction)
	})

	t.Run("no detour", func(t *testing.T) {
		routes, err := s.FindRoutes(ctx, "entrance", "reception", crowd.Empty())
		require.NoError(t, err)
		assert.Equal(t, []string{"entrance", "c0-west", "reception"}, routes.Primary.NodeIDs())
		assert.Nil(t, routes.Alternate)
	})

	t.Run("unknown node", func(t *testing.T) {
		_, err := s.FindRoutes(ctx, "nowhere", "reception", crowd.Empty())
		assert.ErrorIs(t, err, domain.ErrNodeNotFound)
	})
}

func TestFindPath_CongestionChangesRoute(t *testing.T) {
	s := setupPathfinder(t)
	snap := crowd.NewSnapshot([]crowd.Sample{{NodeID: "c0-mid", Density: 1}}, nil)

	path, err := s.FindPath(context.Background(), "entrance", "pharmacy", nil, snap)
	require.NoError(t, err)
	assert.NotContains(t, path.NodeIDs(), "c0-mid")
}

func TestNodes(t *testing.T) {
	s := setupPathfinder(t)

	assert.Len(t, s.Nodes(nil), 30)
	floor := 2
	upstairs := s.Nodes(&floor)
	assert.Len(t, upstairs, 7)
	for _, n := range upstairs {
		assert.Equal(t, 2, n.FloorID)
	}
}
