package graph

import (
	"math"
	"testing"

	"github.com/GoSim-25-26J-441/medinav-backend/internal/navigation/domain"
	"github.com/stretchr/testify/assert"
)

func step(id string, x, y float64, floor int) domain.PathStep {
	return domain.PathStep{NodeID: id, X: x, Y: y, FloorID: floor}
}

func TestAnnotate(t *testing.T) {
	tests := []struct {
		name  string
		steps []domain.PathStep
		want  []string
	}{
		{
			name:  "empty path",
			steps: nil,
			want:  []string{},
		},
		{
			name:  "single step",
			steps: []domain.PathStep{step("a", 0, 0, 0)},
			want:  []string{InstructionAlreadyHere},
		},
		{
			name:  "two steps",
			steps: []domain.PathStep{step("a", 0, 0, 0), step("b", 1, 0, 0)},
			want:  []string{InstructionBegin, InstructionArrive},
		},
		{
			name: "right turn in screen space",
			steps: []domain.PathStep{
				step("a", 0, 0, 0),
				step("b", 10, 0, 0),
				step("c", 10, 10, 0),
			},
			want: []string{InstructionBegin, "Turn Right at the junction", InstructionArrive},
		},
		{
			name: "left turn in screen space",
			steps: []domain.PathStep{
				step("a", 0, 0, 0),
				step("b", 10, 0, 0),
				step("c", 10, -10, 0),
			},
			want: []string{InstructionBegin, "Turn Left at the junction", InstructionArrive},
		},
		{
			name: "slight bend stays silent",
			steps: []domain.PathStep{
				step("a", 0, 0, 0),
				step("b", 10, 0, 0),
				step("c", 20, 2, 0),
			},
			want: []string{InstructionBegin, "", InstructionArrive},
		},
		{
			name: "floor change up then down",
			steps: []domain.PathStep{
				step("a", 0, 0, 0),
				step("b", 0, 0, 2),
				step("c", 0, 0, 1),
				step("d", 5, 0, 1),
			},
			want: []string{
				InstructionBegin,
				"Take the elevator/stairs Up to Floor 2",
				"Take the elevator/stairs Down to Floor 1",
				InstructionArrive,
			},
		},
		{
			name: "straight hall every third step",
			steps: []domain.PathStep{
				step("a", 0, 0, 0),
				step("b", 1, 0, 0),
				step("c", 2, 0, 0),
				step("d", 3, 0, 0),
				step("e", 4, 0, 0),
			},
			want: []string{InstructionBegin, "", "", InstructionContinue, InstructionArrive},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Annotate(tt.steps)
			texts := make([]string, 0, len(got))
			for _, s := range got {
				texts = append(texts, s.Instruction)
			}
			assert.Equal(t, tt.want, texts)
		})
	}
}

func TestAnnotate_DoesNotMutateInput(t *testing.T) {
	in := []domain.PathStep{step("a", 0, 0, 0), step("b", 1, 0, 0)}
	in[0].Instruction = "stale"

	out := Annotate(in)
	assert.Equal(t, "stale", in[0].Instruction)
	assert.Equal(t, InstructionBegin, out[0].Instruction)
}

func TestAnnotate_Idempotent(t *testing.T) {
	in := []domain.PathStep{
		step("a", 0, 0, 0),
		step("b", 10, 0, 0),
		step("c", 10, 10, 1),
		step("d", 20, 10, 1),
	}
	once := Annotate(in)
	assert.Equal(t, once, Annotate(once))
}

func TestInstructions_SkipsBlankSteps(t *testing.T) {
	steps := []domain.PathStep{
		step("a", 0, 0, 0),
		step("b", 1, 0, 0),
		step("c", 2, 0, 0),
	}
	assert.Equal(t, []string{InstructionBegin, InstructionArrive}, Instructions(steps))
}

func TestNormalizeAngle(t *testing.T) {
	assert.InDelta(t, 0.0, NormalizeAngle(2*math.Pi), 1e-12)
	assert.InDelta(t, math.Pi, NormalizeAngle(-math.Pi), 1e-12)
	assert.InDelta(t, -math.Pi/2, NormalizeAngle(3*math.Pi/2), 1e-12)
	assert.InDelta(t, math.Pi/4, NormalizeAngle(math.Pi/4+4*math.Pi), 1e-12)
}
