package service

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/GoSim-25-26J-441/medinav-backend/internal/catalog"
	"github.com/GoSim-25-26J-441/medinav-backend/internal/prediction/cluster"
)

const (
	WeightTransition = 0.40
	WeightCluster    = 0.35
	WeightContext    = 0.25

	MethodEnsemble = "ensemble"
	MethodFallback = "fallback"

	FallbackNode       = "reception"
	FallbackConfidence = 0.15
	FallbackReasoning  = "No data available, defaulting to Reception."

	DefaultLocation        = "entrance"
	DefaultAppointmentType = "new_consultation"

	maxAlternatives = 3
)

// Context is the optional visit information attached to a prediction request
type Context struct {
	DoctorType      string   `json:"doctorType,omitempty"`
	AppointmentType string   `json:"appointmentType,omitempty"`
	JourneySoFar    []string `json:"journeySoFar,omitempty"`
}

type Candidate struct {
	Node  string  `json:"node"`
	Score float64 `json:"score"`
}

// Prediction is the ranked next-step result of the ensemble
type Prediction struct {
	NextNode     string      `json:"nextNode"`
	Confidence   float64     `json:"confidence"`
	Reasoning    string      `json:"reasoning"`
	Alternatives []Candidate `json:"alternatives"`
	Method       string      `json:"method"`
	SignalCount  int         `json:"signalCount"`
}

// SequenceMatcher classifies a partial journey against historical journeys
type SequenceMatcher interface {
	Classify(doctorType, appointmentType string, partial []string) cluster.Result
}

// Predictor merges the transition table, the journey cluster matcher and the
// context rules into one next-step prediction. It holds only read-only data
// and is safe for concurrent use.
type Predictor struct {
	catalog *catalog.Catalog
	matcher SequenceMatcher
}

func NewPredictor(cat *catalog.Catalog, matcher SequenceMatcher) *Predictor {
	return &Predictor{catalog: cat, matcher: matcher}
}

// PredictNextStep ranks the likely next location for someone at
// currentLocation with the given role.
func (p *Predictor) PredictNextStep(currentLocation, role string, ctx Context) Prediction {
	location := p.NormalizeLocation(currentLocation)

	transition := p.transitionSignal(location, role)
	clustered, clusterID := p.clusterSignal(location, ctx)
	contextual := p.contextSignal(location, ctx)

	ranked := merge(
		weighted{transition, WeightTransition},
		weighted{clustered, WeightCluster},
		weighted{contextual, WeightContext},
	)
	if len(ranked) == 0 {
		return Prediction{
			NextNode:     FallbackNode,
			Confidence:   FallbackConfidence,
			Reasoning:    FallbackReasoning,
			Alternatives: []Candidate{},
			Method:       MethodFallback,
		}
	}

	for i := range ranked {
		ranked[i].Score = round(ranked[i].Score, 3)
	}

	active := 0
	for _, s := range []*signal{transition, clustered, contextual} {
		if !s.empty() {
			active++
		}
	}

	best := ranked[0]
	alts := ranked[1:]
	if len(alts) > maxAlternatives {
		alts = alts[:maxAlternatives]
	}

	return Prediction{
		NextNode:     best.Node,
		Confidence:   round(math.Min(1, best.Score*(1+float64(active)*0.1)), 2),
		Reasoning:    reasoning(best, transition, clustered, contextual, clusterID),
		Alternatives: append([]Candidate{}, alts...),
		Method:       MethodEnsemble,
		SignalCount:  active,
	}
}

func (p *Predictor) transitionSignal(location, role string) *signal {
	s := newSignal()
	for _, t := range p.catalog.Transitions(location, role) {
		s.set(t.To, t.Probability)
	}
	return s
}

// clusterSignal scores the matched group's predicted continuation: the first
// step gets similarity*0.9 and the next two a decaying share.
func (p *Predictor) clusterSignal(location string, ctx Context) (*signal, string) {
	seq := ctx.JourneySoFar
	if len(seq) == 0 {
		seq = []string{location}
	}
	appt := ctx.AppointmentType
	if appt == "" {
		appt = DefaultAppointmentType
	}

	res := p.matcher.Classify(ctx.DoctorType, appt, seq)
	s := newSignal()
	if len(res.PredictedRemaining) == 0 {
		return s, res.ClusterID
	}
	s.set(res.PredictedRemaining[0], res.Similarity*0.9)
	for i := 1; i < min(3, len(res.PredictedRemaining)); i++ {
		s.set(res.PredictedRemaining[i], res.Similarity*(0.3/float64(i+1)))
	}
	return s, res.ClusterID
}

func (p *Predictor) contextSignal(location string, ctx Context) *signal {
	s := newSignal()

	if pattern, ok := p.catalog.Pattern(ctx.AppointmentType); ok && ctx.AppointmentType != "" {
		for i, step := range pattern.Sequence {
			if step == location {
				if i < len(pattern.Sequence)-1 {
					s.add(pattern.Sequence[i+1], 0.6)
				}
				break
			}
		}
	}

	if ctx.DoctorType != "" {
		relevant := p.catalog.RelevantDepartments(ctx.DoctorType)
		inRelevant := false
		for _, d := range relevant {
			if d == location {
				inRelevant = true
				break
			}
		}
		if !inRelevant {
			for _, d := range relevant {
				s.add(d, 0.3)
			}
		}
	}

	switch location {
	case "pharmacy":
		s.add("billing", 0.4)
		s.add("exit", 0.3)
	case "billing":
		s.add("exit", 0.6)
	}
	return s
}

func reasoning(best Candidate, transition, clustered, contextual *signal, clusterID string) string {
	var parts []string
	if v := transition.get(best.Node); v != 0 {
		parts = append(parts, fmt.Sprintf("Markov: %.0f%% transition probability", v*100))
	}
	if v := clustered.get(best.Node); v != 0 {
		if clusterID == "" {
			clusterID = "general"
		}
		parts = append(parts, "Cluster match: "+clusterID)
	}
	if v := contextual.get(best.Node); v != 0 {
		parts = append(parts, "Context rules support this choice")
	}

	head := fmt.Sprintf("Predicted %q (ensemble score: %s).", best.Node, strconv.FormatFloat(best.Score, 'f', -1, 64))
	if len(parts) == 0 {
		return head
	}
	return head + " " + strings.Join(parts, ". ") + "."
}

// NormalizeLocation maps a node id or free-text location onto a transition
// table location: empty input is the entrance, exact rows win, then the first
// alias whose phrase occurs in the input. Anything else passes through
// lower-cased.
func (p *Predictor) NormalizeLocation(location string) string {
	loc := strings.ToLower(strings.TrimSpace(location))
	if loc == "" {
		return DefaultLocation
	}
	if p.catalog.HasLocation(loc) {
		return loc
	}
	for _, a := range p.catalog.Aliases() {
		for _, m := range a.Match {
			if strings.Contains(loc, m) {
				return a.Location
			}
		}
	}
	return loc
}

func round(v float64, places int) float64 {
	f := math.Pow(10, float64(places))
	return math.Round(v*f) / f
}
