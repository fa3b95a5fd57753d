// Package cluster groups historical journeys by doctor and appointment type
// and matches partial journeys against them.
package cluster

import (
	"math"
	"strings"

	"github.com/GoSim-25-26J-441/medinav-backend/internal/catalog"
)

const (
	// DefaultKey is the group used when nothing matches the request
	DefaultKey = "general::new_consultation"
	UnknownID  = "unknown"

	noDoctor = "none"
)

var genericRemaining = []string{"reception", "consultation", "pharmacy", "exit"}

const genericDuration = 60.0

// Result describes the group a partial journey was matched to
type Result struct {
	ClusterID          string   `json:"clusterId"`
	Centroid           []string `json:"centroidJourney"`
	Similarity         float64  `json:"similarity"`
	PredictedRemaining []string `json:"predictedRemaining"`
	AvgDuration        float64  `json:"avgDuration"`
	ClusterSize        int      `json:"clusterSize"`
}

// Match is the single closest journey across the whole corpus
type Match struct {
	Journey    catalog.Journey `json:"journey"`
	Similarity float64         `json:"similarity"`
}

type group struct {
	key         string
	journeys    []catalog.Journey
	centroid    []string
	avgDuration float64
}

// Matcher is built once from the journey corpus and is safe for concurrent
// use afterwards.
type Matcher struct {
	groups []*group
	byKey  map[string]*group
}

// Key builds the group key for a doctor and appointment type
func Key(doctorType, appointmentType string) string {
	if doctorType == "" {
		doctorType = noDoctor
	}
	return doctorType + "::" + appointmentType
}

func NewMatcher(journeys []catalog.Journey) *Matcher {
	m := &Matcher{byKey: make(map[string]*group)}
	for _, j := range journeys {
		key := Key(j.DoctorType, j.AppointmentType)
		g, ok := m.byKey[key]
		if !ok {
			g = &group{key: key}
			m.byKey[key] = g
			m.groups = append(m.groups, g)
		}
		g.journeys = append(g.journeys, j)
	}

	for _, g := range m.groups {
		g.centroid = centroid(g.journeys)
		var total float64
		for _, j := range g.journeys {
			total += j.Duration
		}
		g.avgDuration = total / float64(len(g.journeys))
	}
	return m
}

// centroid picks the journey with the smallest summed distance to its peers.
// Ties keep the earliest journey.
func centroid(journeys []catalog.Journey) []string {
	if len(journeys) == 1 {
		return journeys[0].Sequence
	}
	best := journeys[0].Sequence
	bestTotal := math.Inf(1)
	for _, cand := range journeys {
		var total float64
		for _, other := range journeys {
			total += EditDistance(cand.Sequence, other.Sequence)
		}
		if total < bestTotal {
			bestTotal = total
			best = cand.Sequence
		}
	}
	return best
}

// Classify matches a partial journey to a group: exact key first, then any
// group with the same appointment type, then the default group.
func (m *Matcher) Classify(doctorType, appointmentType string, partial []string) Result {
	g := m.lookup(doctorType, appointmentType)
	if g == nil {
		remaining := make([]string, len(genericRemaining))
		copy(remaining, genericRemaining)
		return Result{
			ClusterID:          UnknownID,
			PredictedRemaining: remaining,
			AvgDuration:        genericDuration,
		}
	}

	similarity := 1.0
	if len(partial) > 0 {
		similarity = round2(1 - EditDistance(partial, prefix(g.centroid, len(partial))))
	}

	return Result{
		ClusterID:          g.key,
		Centroid:           clone(g.centroid),
		Similarity:         similarity,
		PredictedRemaining: remaining(g.centroid, partial),
		AvgDuration:        g.avgDuration,
		ClusterSize:        len(g.journeys),
	}
}

func (m *Matcher) lookup(doctorType, appointmentType string) *group {
	if g, ok := m.byKey[Key(doctorType, appointmentType)]; ok && len(g.journeys) > 0 {
		return g
	}
	suffix := "::" + appointmentType
	for _, g := range m.groups {
		if strings.HasSuffix(g.key, suffix) && len(g.journeys) > 0 {
			return g
		}
	}
	if g, ok := m.byKey[DefaultKey]; ok && len(g.journeys) > 0 {
		return g
	}
	return nil
}

// remaining continues the centroid after the last occurrence of the final
// partial step. When that step is missing or already final, the second half
// of the centroid is returned instead.
func remaining(centroid, partial []string) []string {
	if len(partial) == 0 {
		return clone(centroid)
	}
	last := partial[len(partial)-1]
	idx := -1
	for i := len(centroid) - 1; i >= 0; i-- {
		if centroid[i] == last {
			idx = i
			break
		}
	}
	if idx >= 0 && idx < len(centroid)-1 {
		return clone(centroid[idx+1:])
	}
	return clone(centroid[len(centroid)/2:])
}

// FindBestMatch returns the corpus journey whose prefix is closest to the
// sequence, or nil when the corpus is empty.
func (m *Matcher) FindBestMatch(sequence []string) *Match {
	var best *Match
	bestSim := -1.0
	for _, g := range m.groups {
		for _, j := range g.journeys {
			sim := 1 - EditDistance(sequence, prefix(j.Sequence, len(sequence)))
			if sim > bestSim {
				bestSim = sim
				best = &Match{Journey: j}
			}
		}
	}
	if best != nil {
		best.Similarity = round2(bestSim)
	}
	return best
}

// Keys lists group keys in first-seen corpus order
func (m *Matcher) Keys() []string {
	keys := make([]string, 0, len(m.groups))
	for _, g := range m.groups {
		keys = append(keys, g.key)
	}
	return keys
}

// EditDistance is the Levenshtein distance between two step sequences
// divided by the longer length. Two empty sequences are at distance 0.
func EditDistance(a, b []string) float64 {
	n, k := len(a), len(b)
	maxLen := n
	if k > maxLen {
		maxLen = k
	}
	if maxLen == 0 {
		return 0
	}

	prev := make([]int, k+1)
	curr := make([]int, k+1)
	for j := 0; j <= k; j++ {
		prev[j] = j
	}
	for i := 1; i <= n; i++ {
		curr[0] = i
		for j := 1; j <= k; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return float64(prev[k]) / float64(maxLen)
}

func prefix(seq []string, n int) []string {
	if n > len(seq) {
		n = len(seq)
	}
	return seq[:n]
}

func clone(seq []string) []string {
	out := make([]string, len(seq))
	copy(out, seq)
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
