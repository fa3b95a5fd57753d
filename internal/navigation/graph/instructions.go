package graph

import (
	"fmt"
	"math"

	"github.com/GoSim-25-26J-441/medinav-backend/internal/navigation/domain"
)

const (
	InstructionAlreadyHere = "You are already here."
	InstructionBegin       = "Begin your journey"
	InstructionArrive      = "Arrive at your destination"
	InstructionContinue    = "Continue following the hall"

	turnThreshold = math.Pi / 6
)

// Annotate returns a copy of steps with instruction text derived from the
// path geometry. The input slice is not modified.
func Annotate(steps []domain.PathStep) []domain.PathStep {
	if len(steps) == 0 {
		return []domain.PathStep{}
	}

	out := make([]domain.PathStep, len(steps))
	copy(out, steps)
	for i := range out {
		out[i].Instruction = ""
	}

	if len(out) == 1 {
		out[0].Instruction = InstructionAlreadyHere
		return out
	}

	out[0].Instruction = InstructionBegin

	for i := 1; i < len(out)-1; i++ {
		prev, curr, next := out[i-1], out[i], out[i+1]

		if curr.FloorID != prev.FloorID {
			direction := "Up"
			if curr.FloorID < prev.FloorID {
				direction = "Down"
			}
			out[i].Instruction = fmt.Sprintf("Take the elevator/stairs %s to Floor %d", direction, curr.FloorID)
			continue
		}

		if next.FloorID == curr.FloorID {
			if turn := turnDirection(prev, curr, next); turn != "" {
				out[i].Instruction = turn + " at the junction"
				continue
			}
		}

		if i%3 == 0 {
			out[i].Instruction = InstructionContinue
		}
	}

	out[len(out)-1].Instruction = InstructionArrive
	return out
}

// Instructions lists the non-empty instructions of the annotated path
func Instructions(steps []domain.PathStep) []string {
	annotated := Annotate(steps)
	out := make([]string, 0, len(annotated))
	for _, s := range annotated {
		if s.Instruction != "" {
			out = append(out, s.Instruction)
		}
	}
	return out
}

// turnDirection compares the heading prev->curr with curr->next. Coordinates
// are screen-space (y grows downward), so a positive angle is a right turn.
func turnDirection(p1, p2, p3 domain.PathStep) string {
	a1 := math.Atan2(p2.Y-p1.Y, p2.X-p1.X)
	a2 := math.Atan2(p3.Y-p2.Y, p3.X-p2.X)

	diff := NormalizeAngle(a2 - a1)
	switch {
	case diff > turnThreshold:
		return "Turn Right"
	case diff < -turnThreshold:
		return "Turn Left"
	}
	return ""
}

// NormalizeAngle maps an angle into (-pi, pi]
func NormalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
