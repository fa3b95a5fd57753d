// Package intent maps free-text visitor queries onto ranked navigation
// intents with a weighted keyword scorer.
package intent

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/GoSim-25-26J-441/medinav-backend/internal/catalog"
)

const (
	FallbackIntent     = "GENERAL_NAV"
	FallbackTarget     = "info-desk"
	FallbackConfidence = 0.3

	doctorBoost = 1.3
	// scores below this floor never normalize to full confidence
	confidenceFloor = 3.0
)

// appointment type -> intent it boosts
var appointmentBoosts = map[string]struct {
	intent string
	factor float64
}{
	"emergency":       {"EMERGENCY", 1.5},
	"diagnostic_test": {"DIAGNOSTICS", 1.4},
	"lab_only":        {"LAB", 1.4},
}

type Context struct {
	DoctorType      string `json:"doctorType,omitempty"`
	AppointmentType string `json:"appointmentType,omitempty"`
}

// Ranked is one scored intent
type Ranked struct {
	Intent          string          `json:"intent"`
	Confidence      float64         `json:"confidence"`
	Target          string          `json:"target"`
	Urgency         catalog.Urgency `json:"urgency"`
	MatchedKeywords []string        `json:"matchedKeywords"`
}

type Result struct {
	Intents       []Ranked        `json:"intents"`
	PrimaryIntent string          `json:"primaryIntent"`
	Target        string          `json:"target"`
	Urgency       catalog.Urgency `json:"urgency"`
	Confidence    float64         `json:"confidence"`
	Reasoning     string          `json:"reasoning"`
}

// Classifier scores queries against the catalog's intent definitions. It is
// deterministic and safe for concurrent use.
type Classifier struct {
	intents  []catalog.Intent
	relevant func(doctorType string) []string
}

func NewClassifier(cat *catalog.Catalog) *Classifier {
	return &Classifier{intents: cat.Intents(), relevant: cat.RelevantDepartments}
}

type scored struct {
	def     catalog.Intent
	raw     float64
	matched []string
}

func (c *Classifier) Classify(query string, ctx Context) Result {
	q := strings.ToLower(strings.TrimSpace(query))

	var hits []*scored
	for _, def := range c.intents {
		s := &scored{def: def, matched: []string{}}
		for _, kw := range def.Keywords {
			if strings.Contains(q, kw.Phrase) {
				s.raw += kw.Weight
				s.matched = append(s.matched, kw.Phrase)
			}
		}
		if s.raw > 0 {
			hits = append(hits, s)
		}
	}

	if ctx.DoctorType != "" {
		relevant := c.relevant(ctx.DoctorType)
		for _, s := range hits {
			for _, dept := range relevant {
				if dept == s.def.Target {
					s.raw *= doctorBoost
					break
				}
			}
		}
	}
	if boost, ok := appointmentBoosts[ctx.AppointmentType]; ok {
		for _, s := range hits {
			if s.def.Name == boost.intent {
				s.raw *= boost.factor
			}
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].raw > hits[j].raw })

	ranked := make([]Ranked, 0, len(hits))
	if len(hits) > 0 {
		divisor := math.Max(hits[0].raw, confidenceFloor)
		for _, s := range hits {
			ranked = append(ranked, Ranked{
				Intent:          s.def.Name,
				Confidence:      round2(math.Min(1, s.raw/divisor)),
				Target:          s.def.Target,
				Urgency:         s.def.Urgency,
				MatchedKeywords: s.matched,
			})
		}
	} else {
		ranked = append(ranked, Ranked{
			Intent:          FallbackIntent,
			Confidence:      FallbackConfidence,
			Target:          FallbackTarget,
			Urgency:         catalog.UrgencyLow,
			MatchedKeywords: []string{},
		})
	}

	primary := ranked[0]
	return Result{
		Intents:       ranked,
		PrimaryIntent: primary.Intent,
		Target:        primary.Target,
		Urgency:       primary.Urgency,
		Confidence:    primary.Confidence,
		Reasoning:     reasoning(ranked),
	}
}

func reasoning(ranked []Ranked) string {
	primary := ranked[0]
	parts := []string{fmt.Sprintf("Detected %q intent with %.0f%% confidence.", primary.Intent, primary.Confidence*100)}
	if len(primary.MatchedKeywords) > 0 {
		parts = append(parts, fmt.Sprintf("Keywords matched: %s.", strings.Join(primary.MatchedKeywords, ", ")))
	}
	if len(ranked) > 1 {
		parts = append(parts, fmt.Sprintf("Secondary possibility: %q (%.0f%%).", ranked[1].Intent, ranked[1].Confidence*100))
	}
	parts = append(parts, fmt.Sprintf("Suggested target: %s.", primary.Target))
	return strings.Join(parts, " ")
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
