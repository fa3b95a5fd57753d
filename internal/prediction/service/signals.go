package service

import "sort"

// signal is a node -> score mapping that remembers first-insertion order so
// ranking ties resolve deterministically.
type signal struct {
	order  []string
	scores map[string]float64
}

func newSignal() *signal {
	return &signal{scores: make(map[string]float64)}
}

// set overwrites a score; the node keeps its original position
func (s *signal) set(node string, v float64) {
	if _, ok := s.scores[node]; !ok {
		s.order = append(s.order, node)
	}
	s.scores[node] = v
}

func (s *signal) add(node string, v float64) {
	s.set(node, s.scores[node]+v)
}

func (s *signal) get(node string) float64 {
	return s.scores[node]
}

func (s *signal) empty() bool {
	return len(s.order) == 0
}

type weighted struct {
	sig    *signal
	weight float64
}

// merge combines weighted signals over the union of their nodes and ranks
// the result by descending score. Nodes are visited signal by signal, so
// ties keep the order in which they were first seen.
func merge(parts ...weighted) []Candidate {
	seen := make(map[string]bool)
	var nodes []string
	for _, p := range parts {
		for _, n := range p.sig.order {
			if !seen[n] {
				seen[n] = true
				nodes = append(nodes, n)
			}
		}
	}

	out := make([]Candidate, 0, len(nodes))
	for _, n := range nodes {
		var total float64
		for _, p := range parts {
			total += p.sig.get(n) * p.weight
		}
		out = append(out, Candidate{Node: n, Score: total})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}
