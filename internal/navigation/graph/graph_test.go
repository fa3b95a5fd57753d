package graph

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	crowd "github.com/GoSim-25-26J-441/medinav-backend/internal/crowd/domain"
	"github.com/GoSim-25-26J-441/medinav-backend/internal/navigation/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func node(id string, x, y float64, floor int) domain.Node {
	return domain.Node{ID: id, X: x, Y: y, FloorID: floor, Type: domain.NodeCorridor}
}

func buildGraph(t *testing.T, nodes []domain.Node, edges []domain.Edge) *Graph {
	t.Helper()
	g := New(DefaultOptions())
	for _, n := range nodes {
		require.NoError(t, g.AddNode(n))
	}
	for _, e := range edges {
		require.NoError(t, g.AddEdge(e))
	}
	return g
}

func line() *Graph {
	g := New(DefaultOptions())
	_ = g.AddNode(node("A", 0, 0, 0))
	_ = g.AddNode(node("B", 1, 0, 0))
	_ = g.AddNode(node("C", 2, 0, 0))
	_ = g.AddEdge(domain.Edge{ID: "ab", From: "A", To: "B", Weight: 1})
	_ = g.AddEdge(domain.Edge{ID: "bc", From: "B", To: "C", Weight: 1})
	return g
}

func TestShortestPath_CrowdedMiddleWithoutDetour(t *testing.T) {
	g := line()
	snap := crowd.NewSnapshot([]crowd.Sample{{NodeID: "B", Density: 1.0}}, nil)

	path, err := g.ShortestPath("A", "C", snap)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, path.NodeIDs())
	assert.InDelta(t, 7.0, path.TotalDistance, 1e-9)
	assert.InDelta(t, 7.0*DefaultTimePerCost, path.EstimatedTime, 1e-9)
}

func TestShortestPath_PrefersDetourAroundCrowd(t *testing.T) {
	g := line()
	require.NoError(t, g.AddNode(node("D", 1, 1, 0)))
	require.NoError(t, g.AddEdge(domain.Edge{ID: "ad", From: "A", To: "D", Weight: 2}))
	require.NoError(t, g.AddEdge(domain.Edge{ID: "dc", From: "D", To: "C", Weight: 2}))

	t.Run("uncrowded keeps the direct route", func(t *testing.T) {
		path, err := g.ShortestPath("A", "C", crowd.Empty())
		require.NoError(t, err)
		assert.Equal(t, []string{"A", "B", "C"}, path.NodeIDs())
		assert.InDelta(t, 2.0, path.TotalDistance, 1e-9)
	})

	t.Run("crowded middle switches to the detour", func(t *testing.T) {
		snap := crowd.NewSnapshot([]crowd.Sample{{NodeID: "B", Density: 1.0}}, nil)
		path, err := g.ShortestPath("A", "C", snap)
		require.NoError(t, err)
		assert.Equal(t, []string{"A", "D", "C"}, path.NodeIDs())
		assert.InDelta(t, 4.0, path.TotalDistance, 1e-9)
	})
}

func TestShortestPath_NotFound(t *testing.T) {
	g := line()
	require.NoError(t, g.AddNode(node("island", 9, 9, 0)))

	t.Run("unknown start", func(t *testing.T) {
		path, err := g.ShortestPath("nope", "C", crowd.Empty())
		assert.Nil(t, path)
		assert.ErrorIs(t, err, domain.ErrNodeNotFound)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("unknown end", func(t *testing.T) {
		_, err := g.ShortestPath("A", "nope", crowd.Empty())
		assert.ErrorIs(t, err, domain.ErrNodeNotFound)
	})

	t.Run("disconnected", func(t *testing.T) {
		path, err := g.ShortestPath("A", "island", crowd.Empty())
		assert.Nil(t, path)
		assert.ErrorIs(t, err, domain.ErrPathNotFound)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestShortestPath_SameStartAndEnd(t *testing.T) {
	g := line()
	path, err := g.ShortestPath("B", "B", crowd.Empty())
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, path.NodeIDs())
	assert.Zero(t, path.TotalDistance)
}

func TestShortestPath_MalformedDensityIsIgnored(t *testing.T) {
	g := line()
	snap := crowd.NewSnapshot([]crowd.Sample{{NodeID: "B", Density: math.NaN()}, {NodeID: "C", Density: math.Inf(1)}}, nil)
	path, err := g.ShortestPath("A", "C", snap)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, path.TotalDistance, 1e-9)
}

func TestAddEdge_Validation(t *testing.T) {
	g := line()

	err := g.AddEdge(domain.Edge{ID: "neg", From: "A", To: "C", Weight: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidEdge)

	err = g.AddEdge(domain.Edge{ID: "loop", From: "A", To: "A", Weight: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidEdge)

	err = g.AddEdge(domain.Edge{ID: "ghost", From: "A", To: "Z", Weight: 1})
	assert.ErrorIs(t, err, domain.ErrNodeNotFound)

	err = g.AddNode(domain.Node{})
	assert.ErrorIs(t, err, domain.ErrInvalidNode)
}

func TestAlternatePath(t *testing.T) {
	g := buildGraph(t,
		[]domain.Node{node("A", 0, 0, 0), node("B", 1, 0, 0), node("C", 2, 0, 0), node("D", 1, 1, 0)},
		[]domain.Edge{
			{ID: "ab", From: "A", To: "B", Weight: 1},
			{ID: "bc", From: "B", To: "C", Weight: 1},
			{ID: "ad", From: "A", To: "D", Weight: 1},
			{ID: "dc", From: "D", To: "C", Weight: 1},
		},
	)

	t.Run("detour differs from primary", func(t *testing.T) {
		primary, err := g.ShortestPath("A", "C", crowd.Empty())
		require.NoError(t, err)

		alt, err := g.AlternatePath("A", "C", primary.NodeIDs(), crowd.Empty())
		require.NoError(t, err)
		assert.NotEqual(t, primary.NodeIDs(), alt.NodeIDs())
		assert.Equal(t, "A", alt.Steps[0].NodeID)
		assert.Equal(t, "C", alt.Steps[len(alt.Steps)-1].NodeID)
	})

	t.Run("reuses primary when no other route exists", func(t *testing.T) {
		l := line()
		primary, err := l.ShortestPath("A", "C", crowd.Empty())
		require.NoError(t, err)

		alt, err := l.AlternatePath("A", "C", primary.NodeIDs(), crowd.Empty())
		require.NoError(t, err)
		assert.Equal(t, primary.NodeIDs(), alt.NodeIDs())
		// B and C each carry the 0.8 penalty: 1*(1+0.8*5) twice
		assert.InDelta(t, 10.0, alt.TotalDistance, 1e-9)
	})

	t.Run("does not mutate the caller snapshot", func(t *testing.T) {
		snap := crowd.NewSnapshot([]crowd.Sample{{NodeID: "B", Density: 0.5}}, nil)
		_, err := g.AlternatePath("A", "C", []string{"A", "B", "C"}, snap)
		require.NoError(t, err)
		assert.Equal(t, 0.5, snap.Density("B"))
		assert.Zero(t, snap.Density("C"))
	})
}

func TestShortestPath_CostMonotoneInEdgeWeight(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 50; trial++ {
		n := 6 + rng.Intn(5)
		nodes := make([]domain.Node, n)
		for i := range nodes {
			nodes[i] = node(fmt.Sprintf("n%d", i), rng.Float64()*10, rng.Float64()*10, 0)
		}
		var edges []domain.Edge
		for i := 1; i < n; i++ {
			edges = append(edges, domain.Edge{ID: fmt.Sprintf("s%d", i), From: nodes[i-1].ID, To: nodes[i].ID, Weight: 1 + rng.Float64()*5})
		}
		for k := 0; k < n; k++ {
			a, b := rng.Intn(n), rng.Intn(n)
			if a == b {
				continue
			}
			edges = append(edges, domain.Edge{ID: fmt.Sprintf("x%d", k), From: nodes[a].ID, To: nodes[b].ID, Weight: rng.Float64() * 8})
		}
		var samples []crowd.Sample
		for _, nd := range nodes {
			samples = append(samples, crowd.Sample{NodeID: nd.ID, Density: rng.Float64()})
		}
		snap := crowd.NewSnapshot(samples, nil)

		before, err := buildGraph(t, nodes, edges).ShortestPath(nodes[0].ID, nodes[n-1].ID, snap)
		require.NoError(t, err)

		bumped := make([]domain.Edge, len(edges))
		copy(bumped, edges)
		idx := rng.Intn(len(bumped))
		bumped[idx].Weight += 1 + rng.Float64()*3

		after, err := buildGraph(t, nodes, bumped).ShortestPath(nodes[0].ID, nodes[n-1].ID, snap)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, after.TotalDistance+1e-9, before.TotalDistance, "trial %d", trial)
	}
}

func TestReachable(t *testing.T) {
	g := line()
	require.NoError(t, g.AddNode(node("island", 9, 9, 0)))
	assert.Equal(t, []string{"A", "B", "C"}, g.Reachable("A"))
	assert.Equal(t, []string{"island"}, g.Reachable("island"))
	assert.Nil(t, g.Reachable("nope"))
}
