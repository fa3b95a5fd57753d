package service

import (
	"math/rand"
	"testing"

	"github.com/GoSim-25-26J-441/medinav-backend/internal/catalog"
	"github.com/GoSim-25-26J-441/medinav-backend/internal/prediction/cluster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupPredictor(t *testing.T) *Predictor {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	return NewPredictor(cat, cluster.NewMatcher(cat.Journeys()))
}

type emptyMatcher struct{}

func (emptyMatcher) Classify(string, string, []string) cluster.Result {
	return cluster.Result{ClusterID: cluster.UnknownID}
}

func TestPredictNextStep_AllSignalsAgree(t *testing.T) {
	p := setupPredictor(t)

	pred := p.PredictNextStep("entrance", catalog.RolePatientNew, Context{
		DoctorType:      "general",
		AppointmentType: "new_consultation",
	})

	assert.Equal(t, MethodEnsemble, pred.Method)
	assert.Equal(t, "reception", pred.NextNode)
	assert.Equal(t, 3, pred.SignalCount)
	assert.Equal(t, 0.97, pred.Confidence)
	assert.Equal(t,
		`Predicted "reception" (ensemble score: 0.745). Markov: 70% transition probability. Cluster match: general::new_consultation. Context rules support this choice.`,
		pred.Reasoning)

	require.Len(t, pred.Alternatives, 3)
	assert.Equal(t, Candidate{Node: "consultation", Score: 0.11}, pred.Alternatives[0])
	assert.Equal(t, Candidate{Node: "emergency", Score: 0.08}, pred.Alternatives[1])
	assert.Equal(t, "triage", pred.Alternatives[2].Node)
}

func TestPredictNextStep_TerminalFlow(t *testing.T) {
	p := setupPredictor(t)

	pred := p.PredictNextStep("pharmacy", catalog.RolePatientFollowup, Context{})

	assert.Equal(t, "exit", pred.NextNode)
	assert.Equal(t, 0.41, pred.Confidence)
	assert.Equal(t,
		`Predicted "exit" (ensemble score: 0.315). Markov: 60% transition probability. Context rules support this choice.`,
		pred.Reasoning)
	require.NotEmpty(t, pred.Alternatives)
	assert.Equal(t, Candidate{Node: "billing", Score: 0.22}, pred.Alternatives[0])
}

func TestPredictNextStep_UsesJourneySoFar(t *testing.T) {
	p := setupPredictor(t)

	pred := p.PredictNextStep("radiology", catalog.RolePatientNew, Context{
		DoctorType:      "cardiologist",
		AppointmentType: "new_consultation",
		JourneySoFar:    []string{"entrance", "reception", "triage", "consultation", "radiology"},
	})

	assert.Equal(t, "consultation", pred.NextNode)
	assert.Contains(t, pred.Reasoning, "Cluster match: cardiologist::new_consultation")
}

func TestPredictNextStep_Fallback(t *testing.T) {
	cat, err := catalog.Default()
	require.NoError(t, err)
	p := NewPredictor(cat, emptyMatcher{})

	pred := p.PredictNextStep("parking", catalog.RolePatientNew, Context{})
	assert.Equal(t, Prediction{
		NextNode:     FallbackNode,
		Confidence:   FallbackConfidence,
		Reasoning:    FallbackReasoning,
		Alternatives: []Candidate{},
		Method:       MethodFallback,
	}, pred)
}

func TestPredictNextStep_ConfidenceBounded(t *testing.T) {
	p := setupPredictor(t)
	rng := rand.New(rand.NewSource(11))

	locations := []string{"", "entrance", "reception", "pharmacy", "billing", "icu", "MRI room", "parking"}
	roles := []string{catalog.RolePatientNew, catalog.RolePatientFollowup, catalog.RoleVisitor, "staff"}
	doctors := []string{"", "general", "surgeon", "neurologist", "vet"}
	appts := []string{"", "new_consultation", "followup", "emergency", "visitor", "unknown"}

	for i := 0; i < 300; i++ {
		pred := p.PredictNextStep(
			locations[rng.Intn(len(locations))],
			roles[rng.Intn(len(roles))],
			Context{
				DoctorType:      doctors[rng.Intn(len(doctors))],
				AppointmentType: appts[rng.Intn(len(appts))],
			},
		)
		assert.GreaterOrEqual(t, pred.Confidence, 0.0)
		assert.LessOrEqual(t, pred.Confidence, 1.0)
		assert.LessOrEqual(t, len(pred.Alternatives), 3)
		assert.NotEmpty(t, pred.NextNode)
	}
}

func TestPredictNextStep_Deterministic(t *testing.T) {
	p := setupPredictor(t)
	ctx := Context{DoctorType: "orthopedic", AppointmentType: "surgery"}
	first := p.PredictNextStep("consultation", catalog.RolePatientNew, ctx)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, p.PredictNextStep("consultation", catalog.RolePatientNew, ctx))
	}
}

func TestNormalizeLocation(t *testing.T) {
	p := setupPredictor(t)

	tests := []struct {
		in   string
		want string
	}{
		{"", "entrance"},
		{"Reception", "reception"},
		{"  ICU  ", "icu"},
		{"info-desk", "info-desk"},
		{"MRI Suite", "radiology"},
		{"Room 12", "consultation"},
		{"Main Gate", "entrance"},
		{"blood bank", "lab"},
		{"ER", "emergency"},
		{"Canteen", "cafeteria"},
		{"parking", "parking"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, p.NormalizeLocation(tt.in))
		})
	}
}

func TestMerge_StableTies(t *testing.T) {
	a := newSignal()
	a.set("x", 1)
	a.set("y", 1)
	b := newSignal()
	b.set("z", 2)
	b.set("x", 0)

	got := merge(weighted{a, 0.5}, weighted{b, 0.25})
	require.Len(t, got, 3)
	assert.Equal(t, []string{"x", "y", "z"}, []string{got[0].Node, got[1].Node, got[2].Node})
}
