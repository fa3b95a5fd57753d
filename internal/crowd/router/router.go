// Package router decides whether a proposed destination is too congested and
// which less crowded department to suggest instead.
package router

import (
	"fmt"
	"sort"
	"strings"

	"github.com/GoSim-25-26J-441/medinav-backend/internal/catalog"
	crowd "github.com/GoSim-25-26J-441/medinav-backend/internal/crowd/domain"
)

const (
	DefaultCrowdThreshold = 0.70
	DefaultLoadThreshold  = 0.85

	SuggestionWait = "wait"

	ReasonHighUrgency = "High-urgency destination, no rerouting applied."

	maxAlternatives = 3
)

type Severity string

const (
	SeverityNone   Severity = "none"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// destinations that are never rerouted
var protected = map[string]bool{
	"emergency": true,
	"icu":       true,
}

type Thresholds struct {
	Crowd float64
	Load  float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{Crowd: DefaultCrowdThreshold, Load: DefaultLoadThreshold}
}

type Options struct {
	Urgency         catalog.Urgency `json:"urgency,omitempty"`
	AppointmentType string          `json:"appointmentType,omitempty"`
}

type Alternative struct {
	Node       string  `json:"node"`
	Name       string  `json:"name"`
	Floor      *int    `json:"floor,omitempty"`
	CrowdLevel float64 `json:"crowdLevel"`
	LoadLevel  float64 `json:"loadLevel"`
	Reason     string  `json:"reason"`
	Score      float64 `json:"score"`
}

// Decision is the outcome of evaluating one destination
type Decision struct {
	ShouldReroute   bool          `json:"shouldReroute"`
	Severity        Severity      `json:"severity"`
	Original        string        `json:"original"`
	Alternative     *Alternative  `json:"alternative,omitempty"`
	AllAlternatives []Alternative `json:"allAlternatives,omitempty"`
	Reason          string        `json:"reason"`
	WaitTime        int           `json:"waitTime,omitempty"`
	CrowdLevel      float64       `json:"crowdLevel"`
	LoadLevel       float64       `json:"loadLevel"`
	Suggestion      string        `json:"suggestion,omitempty"`
	Protected       bool          `json:"protected,omitempty"`
}

// Congestion is one entry of the congestion report
type Congestion struct {
	NodeID       string  `json:"nodeId"`
	Name         string  `json:"name"`
	CrowdDensity float64 `json:"crowdDensity"`
	Utilization  float64 `json:"utilization"`
	IsOverloaded bool    `json:"isOverloaded"`
}

// Router is safe for concurrent use as long as its WaitEstimator is
type Router struct {
	catalog    *catalog.Catalog
	thresholds Thresholds
	wait       WaitEstimator
}

func NewRouter(cat *catalog.Catalog, th Thresholds, wait WaitEstimator) *Router {
	return &Router{catalog: cat, thresholds: th, wait: wait}
}

func (r *Router) Thresholds() Thresholds {
	return r.thresholds
}

// ParseUrgency maps request text such as "high" or " High " onto a catalog level
func ParseUrgency(s string) catalog.Urgency {
	return catalog.Urgency(strings.ToUpper(strings.TrimSpace(s)))
}

// NeverReroute reports whether intended must be kept regardless of congestion.
// It needs no snapshot, so callers can check it before fetching crowd data.
func NeverReroute(intended string, urgency catalog.Urgency) bool {
	return ParseUrgency(string(urgency)) == catalog.UrgencyHigh ||
		protected[strings.ToLower(strings.TrimSpace(intended))]
}

// Evaluate checks intendedNext against the snapshot. High urgency and
// protected destinations are never rerouted, whatever the congestion.
func (r *Router) Evaluate(currentNode, intendedNext, role string, opts Options, snap crowd.Snapshot) Decision {
	if NeverReroute(intendedNext, opts.Urgency) {
		return Decision{
			Severity:  SeverityNone,
			Original:  intendedNext,
			Reason:    ReasonHighUrgency,
			Protected: true,
		}
	}
	if role == "" {
		role = catalog.RolePatientNew
	}

	crowdLevel := snap.Density(intendedNext)
	loadLevel := snap.Utilization(intendedNext)
	isCrowded := crowdLevel > r.thresholds.Crowd
	isOverloaded := loadLevel > r.thresholds.Load

	if !isCrowded && !isOverloaded {
		return Decision{
			Severity:   SeverityNone,
			Original:   intendedNext,
			Reason:     fmt.Sprintf("%s is operating normally (crowd: %s, load: %s).", intendedNext, pct(crowdLevel), pct(loadLevel)),
			CrowdLevel: crowdLevel,
			LoadLevel:  loadLevel,
		}
	}

	severity := SeverityMedium
	if isCrowded && isOverloaded {
		severity = SeverityHigh
	}
	alternatives := r.alternatives(intendedNext, role, snap)
	wait := r.wait.EstimateWait(crowdLevel, loadLevel)

	if len(alternatives) == 0 {
		return Decision{
			Severity:   severity,
			Original:   intendedNext,
			Reason:     fmt.Sprintf("%s is congested but no viable alternatives found. Estimated wait: %d minutes.", intendedNext, wait),
			WaitTime:   wait,
			CrowdLevel: crowdLevel,
			LoadLevel:  loadLevel,
			Suggestion: SuggestionWait,
		}
	}

	best := alternatives[0]
	return Decision{
		ShouldReroute:   true,
		Severity:        severity,
		Original:        intendedNext,
		Alternative:     &best,
		AllAlternatives: alternatives,
		Reason: fmt.Sprintf("%q is congested (crowd: %s, load: %s). Suggesting %q instead: %s",
			intendedNext, pct(crowdLevel), pct(loadLevel), best.Node, best.Reason),
		WaitTime:   wait,
		CrowdLevel: crowdLevel,
		LoadLevel:  loadLevel,
	}
}

// alternatives merges same-category departments with likely next steps,
// keeps the best score per node and returns the top three.
func (r *Router) alternatives(intended, role string, snap crowd.Snapshot) []Alternative {
	dept, ok := r.catalog.Department(intended)
	if !ok {
		return nil
	}

	var found []Alternative
	index := make(map[string]int)
	offer := func(a Alternative) {
		if i, ok := index[a.Node]; ok {
			if a.Score > found[i].Score {
				found[i] = a
			}
			return
		}
		index[a.Node] = len(found)
		found = append(found, a)
	}

	for _, d := range r.catalog.Departments() {
		if d.ID == intended || d.Category != dept.Category {
			continue
		}
		c, l := snap.Density(d.ID), snap.Utilization(d.ID)
		if c >= r.thresholds.Crowd || l >= r.thresholds.Load {
			continue
		}
		floor := d.Floor
		offer(Alternative{
			Node:       d.ID,
			Name:       d.Name,
			Floor:      &floor,
			CrowdLevel: c,
			LoadLevel:  l,
			Reason:     fmt.Sprintf("Same category (%s) on floor %d, less congested.", d.Category, d.Floor),
			Score:      (1-c)*0.6 + (1-l)*0.4,
		})
	}

	for _, t := range r.catalog.Transitions(intended, role) {
		if t.To == intended {
			continue
		}
		c := snap.Density(t.To)
		if c >= r.thresholds.Crowd {
			continue
		}
		name := t.To
		var floor *int
		if d, ok := r.catalog.Department(t.To); ok {
			name = d.Name
			f := d.Floor
			floor = &f
		}
		offer(Alternative{
			Node:       t.To,
			Name:       name,
			Floor:      floor,
			CrowdLevel: c,
			LoadLevel:  snap.Utilization(t.To),
			Reason:     fmt.Sprintf("Skip ahead to %s (%s typically visit next).", t.To, pct(t.Probability)),
			Score:      t.Probability * (1 - c),
		})
	}

	sort.SliceStable(found, func(i, j int) bool { return found[i].Score > found[j].Score })
	if len(found) > maxAlternatives {
		found = found[:maxAlternatives]
	}
	return found
}

// CongestedDepartments reports every snapshot entry above either threshold,
// in snapshot order.
func (r *Router) CongestedDepartments(snap crowd.Snapshot) []Congestion {
	out := []Congestion{}
	for _, s := range snap.Samples() {
		util := snap.Utilization(s.NodeID)
		if s.Density <= r.thresholds.Crowd && util <= r.thresholds.Load {
			continue
		}
		name := s.NodeID
		if d, ok := r.catalog.Department(s.NodeID); ok {
			name = d.Name
		}
		load, _ := snap.Load(s.NodeID)
		out = append(out, Congestion{
			NodeID:       s.NodeID,
			Name:         name,
			CrowdDensity: s.Density,
			Utilization:  util,
			IsOverloaded: load.IsOverloaded,
		})
	}
	return out
}

func pct(v float64) string {
	return fmt.Sprintf("%.0f%%", v*100)
}
