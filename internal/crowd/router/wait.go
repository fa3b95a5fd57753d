package router

import (
	"math"
	"math/rand"
	"sync"
)

// WaitEstimator turns congestion levels into a wait time in minutes
type WaitEstimator interface {
	EstimateWait(crowdLevel, loadLevel float64) int
}

// WaitTier returns the base and spread in minutes for a congestion factor
func WaitTier(factor float64) (base, spread float64) {
	switch {
	case factor > 0.9:
		return 25, 15
	case factor > 0.8:
		return 15, 10
	case factor > 0.7:
		return 8, 7
	default:
		return 3, 5
	}
}

// RandomWait picks a wait uniformly inside the tier of max(crowd, load).
// The random source is injected so tests can pin it.
type RandomWait struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewRandomWait(src rand.Source) *RandomWait {
	return &RandomWait{rng: rand.New(src)}
}

func (w *RandomWait) EstimateWait(crowdLevel, loadLevel float64) int {
	base, spread := WaitTier(math.Max(crowdLevel, loadLevel))
	w.mu.Lock()
	r := w.rng.Float64()
	w.mu.Unlock()
	return int(math.Round(base + r*spread))
}

// FixedWait always picks the same point inside the tier. Position 0 is the
// tier minimum and 1 its maximum.
type FixedWait float64

func (f FixedWait) EstimateWait(crowdLevel, loadLevel float64) int {
	base, spread := WaitTier(math.Max(crowdLevel, loadLevel))
	return int(math.Round(base + float64(f)*spread))
}
