package repository

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/GoSim-25-26J-441/medinav-backend/internal/catalog"
	"github.com/GoSim-25-26J-441/medinav-backend/internal/crowd/domain"
)

const (
	// unknownCategoryDensity applies to departments whose category has no curve
	unknownCategoryDensity = 0.1
	jitterSpan             = 0.2
	overloadDensity        = 0.85
)

// SimulatedProvider generates time-of-day crowd levels from the catalog's
// per-category curves with ±10% jitter. Used when no live metrics exist.
type SimulatedProvider struct {
	catalog *catalog.Catalog
	clock   func() time.Time

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulatedProvider creates a provider. A nil clock uses time.Now.
func NewSimulatedProvider(cat *catalog.Catalog, clock func() time.Time, src rand.Source) *SimulatedProvider {
	if clock == nil {
		clock = time.Now
	}
	return &SimulatedProvider{
		catalog: cat,
		clock:   clock,
		rng:     rand.New(src),
	}
}

// Density returns the jittered density of a department at the given hour.
// Hours outside 0..23 are clamped.
func (p *SimulatedProvider) Density(deptID string, hour int) float64 {
	dept, ok := p.catalog.Department(deptID)
	if !ok {
		return unknownCategoryDensity
	}
	curve, ok := p.catalog.CrowdCurve(dept.Category)
	if !ok {
		return unknownCategoryDensity
	}

	h := max(0, min(23, hour))
	p.mu.Lock()
	jitter := (p.rng.Float64() - 0.5) * jitterSpan
	p.mu.Unlock()
	return domain.Clamp(curve[h] + jitter)
}

// MetricsAt returns one simulated metric per department for the given hour
func (p *SimulatedProvider) MetricsAt(hour int) []domain.DepartmentMetric {
	now := p.clock()
	depts := p.catalog.Departments()
	metrics := make([]domain.DepartmentMetric, 0, len(depts))
	for _, d := range depts {
		density := p.Density(d.ID, hour)
		rounded := round2(density)
		metrics = append(metrics, domain.DepartmentMetric{
			NodeID:          d.ID,
			Name:            d.Name,
			LoadPercentage:  rounded,
			Utilization:     rounded,
			Capacity:        d.Capacity,
			CongestionScore: rounded,
			QueueCount:      int(math.Round(density * float64(d.Capacity))),
			ActiveDoctors:   1,
			UpdatedAt:       now,
		})
	}
	return metrics
}

// Loads returns the department load model for the given hour
func (p *SimulatedProvider) Loads(hour int) map[string]domain.DepartmentLoad {
	depts := p.catalog.Departments()
	loads := make(map[string]domain.DepartmentLoad, len(depts))
	for _, d := range depts {
		density := p.Density(d.ID, hour)
		loads[d.ID] = domain.DepartmentLoad{
			DepartmentID:     d.ID,
			Name:             d.Name,
			Capacity:         d.Capacity,
			CurrentOccupancy: int(math.Round(density * float64(d.Capacity))),
			Utilization:      round2(density),
			IsOverloaded:     density > overloadDensity,
		}
	}
	return loads
}

// ListMetrics returns simulated metrics for the current hour
func (p *SimulatedProvider) ListMetrics(ctx context.Context) ([]domain.DepartmentMetric, error) {
	return p.MetricsAt(p.clock().Hour()), nil
}

// Snapshot returns a simulated snapshot for the current hour
func (p *SimulatedProvider) Snapshot(ctx context.Context) (domain.Snapshot, error) {
	metrics, err := p.ListMetrics(ctx)
	if err != nil {
		return domain.Empty(), err
	}
	return domain.SnapshotFromMetrics(metrics), nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
