package graph

import (
	"container/heap"
	"fmt"
	"math"
	"sort"

	crowd "github.com/GoSim-25-26J-441/medinav-backend/internal/crowd/domain"
	"github.com/GoSim-25-26J-441/medinav-backend/internal/navigation/domain"
)

const (
	DefaultCrowdPenaltyFactor = 5.0
	DefaultAlternatePenalty   = 0.8
	DefaultTimePerCost        = 1.2
)

// Options tunes the congestion-aware cost model
type Options struct {
	// CrowdPenaltyFactor scales density into the cost multiplier 1 + density*factor.
	CrowdPenaltyFactor float64
	// AlternatePenalty is added to the density of every primary-path node.
	AlternatePenalty float64
	// TimePerCost converts accumulated cost into estimated traversal time.
	TimePerCost float64
}

// DefaultOptions returns the empirically chosen defaults
func DefaultOptions() Options {
	return Options{
		CrowdPenaltyFactor: DefaultCrowdPenaltyFactor,
		AlternatePenalty:   DefaultAlternatePenalty,
		TimePerCost:        DefaultTimePerCost,
	}
}

type neighbor struct {
	nodeID string
	weight float64
	edgeID string
}

// Graph is an undirected weighted facility graph. Build it once with AddNode
// and AddEdge; after that it is read-only and safe for concurrent queries.
type Graph struct {
	nodes     map[string]domain.Node
	order     []string
	adjacency map[string][]neighbor
	edges     []domain.Edge
	opts      Options
}

// New creates an empty graph
func New(opts Options) *Graph {
	return &Graph{
		nodes:     make(map[string]domain.Node),
		adjacency: make(map[string][]neighbor),
		opts:      opts,
	}
}

// AddNode registers a node. Re-adding an ID replaces its attributes.
func (g *Graph) AddNode(n domain.Node) error {
	if n.ID == "" {
		return fmt.Errorf("%w: empty id", domain.ErrInvalidNode)
	}
	if _, ok := g.nodes[n.ID]; !ok {
		g.order = append(g.order, n.ID)
		g.adjacency[n.ID] = nil
	}
	g.nodes[n.ID] = n
	return nil
}

// AddEdge links two registered nodes in both directions
func (g *Graph) AddEdge(e domain.Edge) error {
	if math.IsNaN(e.Weight) || math.IsInf(e.Weight, 0) || e.Weight < 0 {
		return fmt.Errorf("%w: %s has weight %v", domain.ErrInvalidEdge, e.ID, e.Weight)
	}
	if e.From == e.To {
		return fmt.Errorf("%w: %s is a self-loop on %s", domain.ErrInvalidEdge, e.ID, e.From)
	}
	if _, ok := g.nodes[e.From]; !ok {
		return fmt.Errorf("edge %s: %w: %s", e.ID, domain.ErrNodeNotFound, e.From)
	}
	if _, ok := g.nodes[e.To]; !ok {
		return fmt.Errorf("edge %s: %w: %s", e.ID, domain.ErrNodeNotFound, e.To)
	}

	g.adjacency[e.From] = append(g.adjacency[e.From], neighbor{nodeID: e.To, weight: e.Weight, edgeID: e.ID})
	g.adjacency[e.To] = append(g.adjacency[e.To], neighbor{nodeID: e.From, weight: e.Weight, edgeID: e.ID})
	g.edges = append(g.edges, e)
	return nil
}

// Node returns a registered node
func (g *Graph) Node(id string) (domain.Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all nodes in insertion order
func (g *Graph) Nodes() []domain.Node {
	out := make([]domain.Node, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id])
	}
	return out
}

// Edges returns all edges in insertion order
func (g *Graph) Edges() []domain.Edge {
	out := make([]domain.Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// Options returns the cost model the graph was built with
func (g *Graph) Options() Options {
	return g.opts
}

// EdgeCost is the cost of stepping onto a node over an edge of the given
// base weight under the snapshot's congestion.
func (g *Graph) EdgeCost(baseWeight float64, onto string, snap crowd.Snapshot) float64 {
	return baseWeight * (1 + snap.Density(onto)*g.opts.CrowdPenaltyFactor)
}

// ShortestPath runs Dijkstra from start to end with congestion-weighted
// costs. Unknown endpoints return ErrNodeNotFound and disconnected ones
// ErrPathNotFound.
func (g *Graph) ShortestPath(start, end string, snap crowd.Snapshot) (*domain.NavigationPath, error) {
	if _, ok := g.nodes[start]; !ok {
		return nil, fmt.Errorf("start %q: %w", start, domain.ErrNodeNotFound)
	}
	if _, ok := g.nodes[end]; !ok {
		return nil, fmt.Errorf("end %q: %w", end, domain.ErrNodeNotFound)
	}

	dist := map[string]float64{start: 0}
	prev := make(map[string]string)
	visited := make(map[string]bool)

	pq := &priorityQueue{}
	heap.Init(pq)
	heap.Push(pq, &queueItem{nodeID: start, cost: 0})

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(*queueItem)
		if visited[cur.nodeID] {
			continue
		}
		visited[cur.nodeID] = true
		if cur.nodeID == end {
			break
		}

		for _, nb := range g.adjacency[cur.nodeID] {
			if visited[nb.nodeID] {
				continue
			}
			alt := dist[cur.nodeID] + g.EdgeCost(nb.weight, nb.nodeID, snap)
			if d, ok := dist[nb.nodeID]; !ok || alt < d {
				dist[nb.nodeID] = alt
				prev[nb.nodeID] = cur.nodeID
				heap.Push(pq, &queueItem{nodeID: nb.nodeID, cost: alt})
			}
		}
	}

	total, ok := dist[end]
	if !ok {
		return nil, fmt.Errorf("%s -> %s: %w", start, end, domain.ErrPathNotFound)
	}

	return &domain.NavigationPath{
		Steps:         g.reconstruct(prev, start, end),
		TotalDistance: total,
		EstimatedTime: total * g.opts.TimePerCost,
	}, nil
}

// AlternatePath biases the search away from a previously computed path by
// adding the alternate penalty to each of its nodes. It is a bias, not an
// exclusion: primary nodes are reused when nothing else connects.
func (g *Graph) AlternatePath(start, end string, primary []string, snap crowd.Snapshot) (*domain.NavigationPath, error) {
	return g.ShortestPath(start, end, snap.WithPenalty(primary, g.opts.AlternatePenalty))
}

func (g *Graph) reconstruct(prev map[string]string, start, end string) []domain.PathStep {
	var ids []string
	for cur := end; ; {
		ids = append(ids, cur)
		if cur == start {
			break
		}
		cur = prev[cur]
	}

	steps := make([]domain.PathStep, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		if len(steps) > 0 && steps[len(steps)-1].NodeID == ids[i] {
			continue
		}
		n := g.nodes[ids[i]]
		steps = append(steps, domain.PathStep{NodeID: n.ID, X: n.X, Y: n.Y, FloorID: n.FloorID})
	}
	return steps
}

// Reachable returns the IDs reachable from start over any edge, sorted
func (g *Graph) Reachable(start string) []string {
	if _, ok := g.nodes[start]; !ok {
		return nil
	}
	seen := map[string]bool{start: true}
	queue := []string{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, nb := range g.adjacency[cur] {
			if !seen[nb.nodeID] {
				seen[nb.nodeID] = true
				queue = append(queue, nb.nodeID)
			}
		}
	}
	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

type queueItem struct {
	nodeID string
	cost   float64
	index  int
}

type priorityQueue []*queueItem

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool { return pq[i].cost < pq[j].cost }

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *priorityQueue) Push(x any) {
	item := x.(*queueItem)
	item.index = len(*pq)
	*pq = append(*pq, item)
}

func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*pq = old[:n-1]
	return item
}
