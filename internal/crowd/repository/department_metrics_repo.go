package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/GoSim-25-26J-441/medinav-backend/internal/crowd/domain"
)

// DepartmentMetricsRepository handles PostgreSQL operations for the
// department_metrics table
type DepartmentMetricsRepository struct {
	db *sql.DB
}

// NewDepartmentMetricsRepository creates a new DepartmentMetricsRepository
func NewDepartmentMetricsRepository(db *sql.DB) *DepartmentMetricsRepository {
	return &DepartmentMetricsRepository{db: db}
}

// ListMetrics returns all department metrics ordered by node ID
func (r *DepartmentMetricsRepository) ListMetrics(ctx context.Context) ([]domain.DepartmentMetric, error) {
	query := `
		SELECT node_id, name, load_percentage, utilization, capacity,
		       congestion_score, queue_count, active_doctors, updated_at
		FROM department_metrics
		ORDER BY node_id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list department metrics: %w", err)
	}
	defer rows.Close()

	var metrics []domain.DepartmentMetric
	for rows.Next() {
		m, err := scanMetric(rows)
		if err != nil {
			return nil, err
		}
		metrics = append(metrics, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate department metrics: %w", err)
	}
	return metrics, nil
}

// GetByNodeID retrieves the metric row for one node
func (r *DepartmentMetricsRepository) GetByNodeID(ctx context.Context, nodeID string) (*domain.DepartmentMetric, error) {
	query := `
		SELECT node_id, name, load_percentage, utilization, capacity,
		       congestion_score, queue_count, active_doctors, updated_at
		FROM department_metrics
		WHERE node_id = $1
	`

	m, err := scanMetric(r.db.QueryRowContext(ctx, query, nodeID))
	if err == sql.ErrNoRows {
		return nil, domain.ErrMetricNotFound
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Upsert creates or updates a metric row keyed by node_id
func (r *DepartmentMetricsRepository) Upsert(ctx context.Context, m *domain.DepartmentMetric) error {
	if err := validateMetric(m); err != nil {
		return err
	}

	query := `
		INSERT INTO department_metrics (
			node_id, name, load_percentage, utilization, capacity,
			congestion_score, queue_count, active_doctors
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (node_id) DO UPDATE SET
			name = EXCLUDED.name,
			load_percentage = EXCLUDED.load_percentage,
			utilization = EXCLUDED.utilization,
			capacity = EXCLUDED.capacity,
			congestion_score = EXCLUDED.congestion_score,
			queue_count = EXCLUDED.queue_count,
			active_doctors = EXCLUDED.active_doctors,
			updated_at = NOW()
		RETURNING updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		m.NodeID,
		nullString(m.Name),
		m.LoadPercentage,
		m.Utilization,
		m.Capacity,
		m.CongestionScore,
		m.QueueCount,
		m.ActiveDoctors,
	).Scan(&m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert department metric: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMetric(row rowScanner) (*domain.DepartmentMetric, error) {
	var (
		m             domain.DepartmentMetric
		name          sql.NullString
		utilization   sql.NullFloat64
		capacity      sql.NullInt64
		congestion    sql.NullFloat64
		queueCount    sql.NullInt64
		activeDoctors sql.NullInt64
	)

	err := row.Scan(
		&m.NodeID,
		&name,
		&m.LoadPercentage,
		&utilization,
		&capacity,
		&congestion,
		&queueCount,
		&activeDoctors,
		&m.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan department metric: %w", err)
	}

	m.Name = name.String
	m.Utilization = m.LoadPercentage
	if utilization.Valid {
		m.Utilization = utilization.Float64
	}
	m.Capacity = int(capacity.Int64)
	m.CongestionScore = m.LoadPercentage
	if congestion.Valid {
		m.CongestionScore = congestion.Float64
	}
	m.QueueCount = int(queueCount.Int64)
	m.ActiveDoctors = int(activeDoctors.Int64)
	return &m, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
