package repository

import (
	"context"

	"github.com/GoSim-25-26J-441/medinav-backend/internal/crowd/domain"
	"github.com/GoSim-25-26J-441/medinav-backend/internal/logging"
)

// FallbackSource reads metrics from primary and switches to secondary when
// primary has no rows yet. Primary errors are returned, not masked.
type FallbackSource struct {
	primary   domain.MetricsSource
	secondary domain.MetricsSource
}

// NewFallbackSource creates a FallbackSource. A nil secondary disables the fallback.
func NewFallbackSource(primary, secondary domain.MetricsSource) *FallbackSource {
	return &FallbackSource{primary: primary, secondary: secondary}
}

func (s *FallbackSource) ListMetrics(ctx context.Context) ([]domain.DepartmentMetric, error) {
	metrics, err := s.primary.ListMetrics(ctx)
	if err != nil {
		return nil, err
	}
	if len(metrics) == 0 && s.secondary != nil {
		logging.New(ctx).LogDebugf("list_metrics", "primary empty, using fallback source")
		return s.secondary.ListMetrics(ctx)
	}
	return metrics, nil
}

func (s *FallbackSource) Snapshot(ctx context.Context) (domain.Snapshot, error) {
	metrics, err := s.ListMetrics(ctx)
	if err != nil {
		return domain.Empty(), err
	}
	return domain.SnapshotFromMetrics(metrics), nil
}
