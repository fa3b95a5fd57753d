package router

import (
	"fmt"

	crowd "github.com/GoSim-25-26J-441/medinav-backend/internal/crowd/domain"
)

const (
	liveTriggerLoad = 0.7
	liveAcceptLoad  = 0.6
)

// LiveAlternative looks for a same-category department with a clearly lower
// live load than nodeID. It returns nil unless nodeID is at or above 70% load
// and the best candidate is below 60%.
func (r *Router) LiveAlternative(nodeID string, metrics []crowd.DepartmentMetric) *Alternative {
	dept, ok := r.catalog.Department(nodeID)
	if !ok {
		return nil
	}

	target := findMetric(nodeID, metrics)
	if target == nil || target.LoadPercentage < liveTriggerLoad {
		return nil
	}

	var best *Alternative
	lowest := 1.0
	for _, m := range metrics {
		if m.NodeID == nodeID {
			continue
		}
		d, ok := r.catalog.Department(m.NodeID)
		if !ok || d.Category != dept.Category || m.LoadPercentage >= lowest {
			continue
		}
		lowest = m.LoadPercentage
		name := m.Name
		if name == "" {
			name = d.Name
		}
		floor := d.Floor
		best = &Alternative{
			Node:       m.NodeID,
			Name:       name,
			Floor:      &floor,
			CrowdLevel: m.LoadPercentage,
			LoadLevel:  m.LoadPercentage,
			Reason:     fmt.Sprintf("Live data: %s has lower load (%s).", name, pct(m.LoadPercentage)),
			Score:      1 - m.LoadPercentage,
		}
	}

	if best == nil || best.LoadLevel >= liveAcceptLoad {
		return nil
	}
	return best
}

// WithLiveData reroutes d to a live same-category alternative when one exists.
// Severity and reason are recomputed from the live load of d.Original, and a
// pending wait suggestion is dropped. Protected decisions are returned as is.
func (r *Router) WithLiveData(d Decision, metrics []crowd.DepartmentMetric) Decision {
	if d.Protected {
		return d
	}
	alt := r.LiveAlternative(d.Original, metrics)
	if alt == nil {
		return d
	}
	load := findMetric(d.Original, metrics).LoadPercentage

	d.ShouldReroute = true
	d.Severity = SeverityMedium
	if load > r.thresholds.Load {
		d.Severity = SeverityHigh
	}
	d.Alternative = alt
	all := []Alternative{*alt}
	for _, a := range d.AllAlternatives {
		if a.Node != alt.Node && len(all) < maxAlternatives {
			all = append(all, a)
		}
	}
	d.AllAlternatives = all
	d.Reason = fmt.Sprintf("%q is at %s live load. Suggesting %q instead: %s", d.Original, pct(load), alt.Node, alt.Reason)
	d.Suggestion = ""
	d.LoadLevel = max(d.LoadLevel, load)
	return d
}

func findMetric(nodeID string, metrics []crowd.DepartmentMetric) *crowd.DepartmentMetric {
	for i := range metrics {
		if metrics[i].NodeID == nodeID {
			return &metrics[i]
		}
	}
	return nil
}
