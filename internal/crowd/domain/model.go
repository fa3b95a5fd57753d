package domain

import (
	"context"
	"math"
	"time"
)

// Sample is the congestion density observed at one node
type Sample struct {
	NodeID  string  `json:"nodeId"`
	Density float64 `json:"density"`
}

// DepartmentLoad is occupancy as a fraction of a zone's rated capacity
type DepartmentLoad struct {
	DepartmentID     string  `json:"departmentId"`
	Name             string  `json:"name,omitempty"`
	Capacity         int     `json:"capacity"`
	CurrentOccupancy int     `json:"currentOccupancy"`
	Utilization      float64 `json:"utilization"`
	IsOverloaded     bool    `json:"isOverloaded"`
}

// Snapshot is a point-in-time congestion view supplied per call.
// Nodes absent from the snapshot have density 0 and utilization 0.
type Snapshot struct {
	samples   []Sample
	densities map[string]float64
	loads     map[string]DepartmentLoad
}

// NewSnapshot indexes samples by node. The first sample for a node wins.
func NewSnapshot(samples []Sample, loads map[string]DepartmentLoad) Snapshot {
	s := Snapshot{
		samples:   make([]Sample, 0, len(samples)),
		densities: make(map[string]float64, len(samples)),
		loads:     make(map[string]DepartmentLoad, len(loads)),
	}
	for _, sm := range samples {
		if _, ok := s.densities[sm.NodeID]; ok {
			continue
		}
		d := Clamp(sm.Density)
		s.densities[sm.NodeID] = d
		s.samples = append(s.samples, Sample{NodeID: sm.NodeID, Density: d})
	}
	for id, l := range loads {
		l.Utilization = Clamp(l.Utilization)
		s.loads[id] = l
	}
	return s
}

// Empty returns a snapshot with no congestion anywhere
func Empty() Snapshot {
	return NewSnapshot(nil, nil)
}

// Density returns the clamped density for a node, 0 when unknown
func (s Snapshot) Density(nodeID string) float64 {
	return s.densities[nodeID]
}

// Utilization returns the clamped utilization for a department, 0 when unknown
func (s Snapshot) Utilization(deptID string) float64 {
	if l, ok := s.loads[deptID]; ok {
		return l.Utilization
	}
	return 0
}

// Load returns the department load entry if present
func (s Snapshot) Load(deptID string) (DepartmentLoad, bool) {
	l, ok := s.loads[deptID]
	return l, ok
}

// Samples returns the normalized samples in input order
func (s Snapshot) Samples() []Sample {
	out := make([]Sample, len(s.samples))
	copy(out, s.samples)
	return out
}

// Loads returns a copy of the department loads
func (s Snapshot) Loads() map[string]DepartmentLoad {
	out := make(map[string]DepartmentLoad, len(s.loads))
	for k, v := range s.loads {
		out[k] = v
	}
	return out
}

// WithPenalty returns a copy where every listed node gets penalty added to
// its density, capped at 1. The receiver is left untouched.
func (s Snapshot) WithPenalty(nodeIDs []string, penalty float64) Snapshot {
	samples := s.Samples()
	index := make(map[string]int, len(samples))
	for i, sm := range samples {
		index[sm.NodeID] = i
	}
	for _, id := range nodeIDs {
		if i, ok := index[id]; ok {
			samples[i].Density = math.Min(1.0, samples[i].Density+penalty)
			continue
		}
		index[id] = len(samples)
		samples = append(samples, Sample{NodeID: id, Density: penalty})
	}
	return NewSnapshot(samples, s.loads)
}

// Clamp maps a raw density into [0,1]; NaN and infinities become 0
func Clamp(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// DepartmentMetric is a live metric row as stored in Redis and Postgres
type DepartmentMetric struct {
	NodeID          string    `json:"node_id"`
	Name            string    `json:"name,omitempty"`
	LoadPercentage  float64   `json:"load_percentage"`
	Utilization     float64   `json:"utilization"`
	Capacity        int       `json:"capacity"`
	CongestionScore float64   `json:"congestion_score"`
	QueueCount      int       `json:"queue_count"`
	ActiveDoctors   int       `json:"active_doctors"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// LiveMetric is the client-facing view of a department metric
type LiveMetric struct {
	NodeID          string  `json:"nodeId"`
	Density         float64 `json:"density"`
	CongestionScore float64 `json:"congestionScore"`
	QueueCount      int     `json:"queueCount"`
	EstimatedWait   int     `json:"estimatedWait"`
	ActiveDoctors   int     `json:"activeDoctors"`
}

// AverageServiceMinutes is the per-patient service time used for queue waits
const AverageServiceMinutes = 15

// QueueWait estimates the wait in minutes from queue length and staffing
func (m DepartmentMetric) QueueWait() int {
	doctors := m.ActiveDoctors
	if doctors <= 0 {
		doctors = 1
	}
	return int(math.Round(float64(m.QueueCount*AverageServiceMinutes) / float64(doctors)))
}

// Live converts the stored metric into its client-facing form
func (m DepartmentMetric) Live() LiveMetric {
	return LiveMetric{
		NodeID:          m.NodeID,
		Density:         Clamp(m.LoadPercentage),
		CongestionScore: m.CongestionScore,
		QueueCount:      m.QueueCount,
		EstimatedWait:   m.QueueWait(),
		ActiveDoctors:   m.ActiveDoctors,
	}
}

// SnapshotFromMetrics builds a snapshot out of live metric rows
func SnapshotFromMetrics(metrics []DepartmentMetric) Snapshot {
	samples := make([]Sample, 0, len(metrics))
	loads := make(map[string]DepartmentLoad, len(metrics))
	for _, m := range metrics {
		samples = append(samples, Sample{NodeID: m.NodeID, Density: m.LoadPercentage})
		util := Clamp(m.Utilization)
		loads[m.NodeID] = DepartmentLoad{
			DepartmentID:     m.NodeID,
			Name:             m.Name,
			Capacity:         m.Capacity,
			CurrentOccupancy: int(math.Round(util * float64(m.Capacity))),
			Utilization:      util,
			IsOverloaded:     util > 0.85,
		}
	}
	return NewSnapshot(samples, loads)
}

// MetricsSource lists the current department metrics
type MetricsSource interface {
	ListMetrics(ctx context.Context) ([]DepartmentMetric, error)
}

// SnapshotProvider supplies a congestion snapshot on demand. The engines
// never call it themselves; handlers fetch a snapshot and pass it in.
type SnapshotProvider interface {
	Snapshot(ctx context.Context) (Snapshot, error)
}

// CurrentSnapshot reads from p. A nil provider yields an empty snapshot and a
// failing one yields an empty snapshot alongside the error.
func CurrentSnapshot(ctx context.Context, p SnapshotProvider) (Snapshot, error) {
	if p == nil {
		return Empty(), nil
	}
	s, err := p.Snapshot(ctx)
	if err != nil {
		return Empty(), err
	}
	return s, nil
}
