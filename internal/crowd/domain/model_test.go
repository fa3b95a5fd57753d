package domain

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0.4, 0.4},
		{-0.2, 0},
		{1.7, 1},
		{math.NaN(), 0},
		{math.Inf(1), 0},
		{math.Inf(-1), 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Clamp(tt.in))
	}
}

func TestSnapshot_Accessors(t *testing.T) {
	s := NewSnapshot(
		[]Sample{{NodeID: "lab", Density: 1.4}, {NodeID: "ot", Density: math.NaN()}, {NodeID: "lab", Density: 0.1}},
		map[string]DepartmentLoad{"lab": {DepartmentID: "lab", Utilization: -3}},
	)

	assert.Equal(t, 1.0, s.Density("lab"))
	assert.Equal(t, 0.0, s.Density("ot"))
	assert.Equal(t, 0.0, s.Density("unknown"))
	assert.Equal(t, 0.0, s.Utilization("lab"))
	assert.Len(t, s.Samples(), 2)

	_, ok := s.Load("ot")
	assert.False(t, ok)
}

func TestSnapshot_WithPenaltyLeavesReceiver(t *testing.T) {
	s := NewSnapshot([]Sample{{NodeID: "a", Density: 0.5}}, nil)

	p := s.WithPenalty([]string{"a", "b"}, 0.8)
	assert.Equal(t, 1.0, p.Density("a"))
	assert.Equal(t, 0.8, p.Density("b"))
	assert.Equal(t, 0.5, s.Density("a"))
	assert.Equal(t, 0.0, s.Density("b"))
}

func TestDepartmentMetric_Live(t *testing.T) {
	m := DepartmentMetric{NodeID: "lab", LoadPercentage: 1.2, CongestionScore: 0.9, QueueCount: 5, ActiveDoctors: 0}

	live := m.Live()
	assert.Equal(t, 1.0, live.Density)
	assert.Equal(t, 75, live.EstimatedWait)

	m.ActiveDoctors = 4
	assert.Equal(t, 19, m.QueueWait())
}

func TestSnapshotFromMetrics(t *testing.T) {
	s := SnapshotFromMetrics([]DepartmentMetric{
		{NodeID: "lab", Name: "Pathology Lab", LoadPercentage: 0.72, Utilization: 0.9, Capacity: 12},
	})

	assert.Equal(t, 0.72, s.Density("lab"))
	load, ok := s.Load("lab")
	require.True(t, ok)
	assert.Equal(t, 11, load.CurrentOccupancy)
	assert.True(t, load.IsOverloaded)
}

type stubProvider struct {
	snap Snapshot
	err  error
}

func (p stubProvider) Snapshot(context.Context) (Snapshot, error) {
	return p.snap, p.err
}

func TestCurrentSnapshot(t *testing.T) {
	ctx := context.Background()

	s, err := CurrentSnapshot(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, s.Samples())

	want := NewSnapshot([]Sample{{NodeID: "lab", Density: 0.3}}, nil)
	s, err = CurrentSnapshot(ctx, stubProvider{snap: want})
	require.NoError(t, err)
	assert.Equal(t, 0.3, s.Density("lab"))

	boom := errors.New("redis down")
	s, err = CurrentSnapshot(ctx, stubProvider{snap: want, err: boom})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, s.Samples())
}
