package monitor

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/GoSim-25-26J-441/medinav-backend/internal/crowd/domain"
	"github.com/GoSim-25-26J-441/medinav-backend/internal/logging"
	"github.com/GoSim-25-26J-441/medinav-backend/internal/telemetry"
	"github.com/robfig/cron/v3"
)

// DefaultSchedule refreshes live metrics every 30 seconds
const DefaultSchedule = "*/30 * * * * *"

// MetricsSink stores a full set of department metrics
type MetricsSink interface {
	SaveAll(ctx context.Context, metrics []domain.DepartmentMetric) error
}

// Refresher copies department metrics from a source of record into the live store
type Refresher struct {
	source  domain.MetricsSource
	sink    MetricsSink
	metrics *telemetry.Metrics
}

// NewRefresher creates a Refresher. metrics may be nil.
func NewRefresher(source domain.MetricsSource, sink MetricsSink, metrics *telemetry.Metrics) *Refresher {
	return &Refresher{source: source, sink: sink, metrics: metrics}
}

// Refresh runs one copy and returns the number of metrics written
func (r *Refresher) Refresh(ctx context.Context) (int, error) {
	n, err := r.refresh(ctx)
	r.metrics.ObserveRefresh(err)
	return n, err
}

func (r *Refresher) refresh(ctx context.Context) (int, error) {
	metrics, err := r.source.ListMetrics(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read metrics: %w", err)
	}
	if err := r.sink.SaveAll(ctx, metrics); err != nil {
		return 0, fmt.Errorf("failed to store metrics: %w", err)
	}
	return len(metrics), nil
}

// Scheduler runs the Refresher on a cron schedule
type Scheduler struct {
	refresher *Refresher
	spec      string
	timeout   time.Duration

	mu   sync.Mutex
	cron *cron.Cron
}

// NewScheduler creates a scheduler. An empty spec uses DefaultSchedule.
func NewScheduler(refresher *Refresher, spec string) *Scheduler {
	if spec == "" {
		spec = DefaultSchedule
	}
	return &Scheduler{
		refresher: refresher,
		spec:      spec,
		timeout:   10 * time.Second,
	}
}

// Start runs an initial refresh and then schedules periodic ones
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil {
		return fmt.Errorf("scheduler already started")
	}

	c := cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(s.spec, s.run); err != nil {
		return fmt.Errorf("failed to create cron job: %w", err)
	}

	s.run()
	c.Start()
	s.cron = c
	log.Printf("Metric refresh scheduler started (schedule %q)", s.spec)
	return nil
}

// Stop halts the schedule and waits for a running refresh to finish
func (s *Scheduler) Stop() {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.mu.Unlock()

	if c != nil {
		<-c.Stop().Done()
	}
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	logger := logging.New(logging.WithRequestID(ctx, "cron"))
	n, err := s.refresher.Refresh(ctx)
	if err != nil {
		logger.LogError("refresh_metrics", err)
		return
	}
	logger.LogDebugf("refresh_metrics", "count=%d", n)
}
