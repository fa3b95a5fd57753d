package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/GoSim-25-26J-441/medinav-backend/internal/crowd/domain"
	"github.com/redis/go-redis/v9"
)

const (
	metricsKey    = "medimap:metrics" // Hash of department metrics: field = node_id
	EventsChannel = "medimap:events"  // Pub/Sub channel for metric updates
)

// MetricEvent is published on EventsChannel whenever a metric is stored
type MetricEvent struct {
	Type      string                  `json:"type"`
	Metric    domain.DepartmentMetric `json:"metric"`
	Timestamp time.Time               `json:"timestamp"`
}

const (
	EventMetricUpdated = "metric_updated"
	EventSnapshotReset = "snapshot_refreshed"
)

// MetricsRepository handles Redis operations for live department metrics
type MetricsRepository struct {
	client *redis.Client
	ctx    context.Context
}

// NewMetricsRepository creates a new MetricsRepository
func NewMetricsRepository(client *redis.Client) *MetricsRepository {
	return &MetricsRepository{
		client: client,
		ctx:    context.Background(),
	}
}

// Save stores a metric and publishes an update event
func (r *MetricsRepository) Save(ctx context.Context, m *domain.DepartmentMetric) error {
	if err := validateMetric(m); err != nil {
		return err
	}
	if m.UpdatedAt.IsZero() {
		m.UpdatedAt = time.Now().UTC()
	}

	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal metric: %w", err)
	}
	event, err := json.Marshal(MetricEvent{Type: EventMetricUpdated, Metric: *m, Timestamp: m.UpdatedAt})
	if err != nil {
		return fmt.Errorf("failed to marshal metric event: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.HSet(r.ctxOr(ctx), metricsKey, m.NodeID, data)
	pipe.Publish(r.ctxOr(ctx), EventsChannel, event)
	if _, err := pipe.Exec(r.ctxOr(ctx)); err != nil {
		return fmt.Errorf("failed to save metric: %w", err)
	}
	return nil
}

// SaveAll replaces the stored metrics with the given set in one pipeline and
// publishes a single refresh event.
func (r *MetricsRepository) SaveAll(ctx context.Context, metrics []domain.DepartmentMetric) error {
	now := time.Now().UTC()
	fields := make(map[string]interface{}, len(metrics))
	for i := range metrics {
		m := &metrics[i]
		if err := validateMetric(m); err != nil {
			return err
		}
		if m.UpdatedAt.IsZero() {
			m.UpdatedAt = now
		}
		data, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("failed to marshal metric %s: %w", m.NodeID, err)
		}
		fields[m.NodeID] = data
	}

	event, err := json.Marshal(MetricEvent{Type: EventSnapshotReset, Timestamp: now})
	if err != nil {
		return fmt.Errorf("failed to marshal refresh event: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Del(r.ctxOr(ctx), metricsKey)
	if len(fields) > 0 {
		pipe.HSet(r.ctxOr(ctx), metricsKey, fields)
	}
	pipe.Publish(r.ctxOr(ctx), EventsChannel, event)
	if _, err := pipe.Exec(r.ctxOr(ctx)); err != nil {
		return fmt.Errorf("failed to save metrics: %w", err)
	}
	return nil
}

// Get retrieves the metric for one node
func (r *MetricsRepository) Get(ctx context.Context, nodeID string) (*domain.DepartmentMetric, error) {
	data, err := r.client.HGet(r.ctxOr(ctx), metricsKey, nodeID).Result()
	if err == redis.Nil {
		return nil, domain.ErrMetricNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get metric: %w", err)
	}

	var m domain.DepartmentMetric
	if err := json.Unmarshal([]byte(data), &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal metric: %w", err)
	}
	return &m, nil
}

// ListMetrics returns every stored metric ordered by node ID
func (r *MetricsRepository) ListMetrics(ctx context.Context) ([]domain.DepartmentMetric, error) {
	all, err := r.client.HGetAll(r.ctxOr(ctx), metricsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list metrics: %w", err)
	}

	metrics := make([]domain.DepartmentMetric, 0, len(all))
	for id, raw := range all {
		var m domain.DepartmentMetric
		if err := json.Unmarshal([]byte(raw), &m); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metric %s: %w", id, err)
		}
		if m.NodeID == "" {
			m.NodeID = id
		}
		metrics = append(metrics, m)
	}
	sort.Slice(metrics, func(i, j int) bool { return metrics[i].NodeID < metrics[j].NodeID })
	return metrics, nil
}

// Snapshot builds a congestion snapshot from the stored metrics
func (r *MetricsRepository) Snapshot(ctx context.Context) (domain.Snapshot, error) {
	metrics, err := r.ListMetrics(ctx)
	if err != nil {
		return domain.Empty(), err
	}
	return domain.SnapshotFromMetrics(metrics), nil
}

// Subscribe opens a subscription on the metric events channel. The caller
// closes the returned PubSub.
func (r *MetricsRepository) Subscribe(ctx context.Context) *redis.PubSub {
	return r.client.Subscribe(r.ctxOr(ctx), EventsChannel)
}

// PingContext checks the Redis connection
func (r *MetricsRepository) PingContext(ctx context.Context) error {
	return r.client.Ping(r.ctxOr(ctx)).Err()
}

func (r *MetricsRepository) ctxOr(ctx context.Context) context.Context {
	if ctx == nil {
		return r.ctx
	}
	return ctx
}

func validateMetric(m *domain.DepartmentMetric) error {
	if m == nil || m.NodeID == "" {
		return fmt.Errorf("%w: node_id is required", domain.ErrInvalidMetric)
	}
	if m.Capacity < 0 || m.QueueCount < 0 || m.ActiveDoctors < 0 {
		return fmt.Errorf("%w: negative counts for %s", domain.ErrInvalidMetric, m.NodeID)
	}
	return nil
}
