package http

import (
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/GoSim-25-26J-441/medinav-backend/internal/catalog"
	crowd "github.com/GoSim-25-26J-441/medinav-backend/internal/crowd/domain"
	"github.com/GoSim-25-26J-441/medinav-backend/internal/crowd/router"
	"github.com/GoSim-25-26J-441/medinav-backend/internal/logging"
	"github.com/gin-gonic/gin"
)

// Reroute evaluates whether the intended destination should be avoided
func (h *Handler) Reroute(c *gin.Context) {
	var req rerouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing currentNode or intendedNext"})
		return
	}

	role := req.UserRole
	if role == "" {
		role = catalog.RolePatientNew
	}
	opts := router.Options{
		Urgency:         router.ParseUrgency(req.Urgency),
		AppointmentType: req.AppointmentType,
	}

	// protected requests are answered without crowd data
	snap := crowd.Empty()
	if !router.NeverReroute(req.IntendedNext, opts.Urgency) {
		current, err := h.snapshot(c)
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "crowd data unavailable"})
			return
		}
		snap = current
	}

	decision := h.router.Evaluate(req.CurrentNode, req.IntendedNext, role, opts, snap)
	h.metrics.ObserveReroute(string(decision.Severity), decision.ShouldReroute)

	c.JSON(http.StatusOK, rerouteResponse{Decision: decision, Timestamp: time.Now().UTC()})
}

// RouteWeights returns the live metrics, heatmap intensities and the crowded subset
func (h *Handler) RouteWeights(c *gin.Context) {
	metrics, err := h.listMetrics(c)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "crowd data unavailable"})
		return
	}

	resp := routeWeightsResponse{
		LiveData:             h.source != nil,
		CrowdedNodes:         make([]crowd.LiveMetric, 0, len(metrics)),
		Heatmap:              make(map[string]float64, len(metrics)),
		CongestedDepartments: []crowd.LiveMetric{},
		Timestamp:            time.Now().UTC(),
	}
	threshold := h.router.Thresholds().Crowd
	for _, m := range metrics {
		live := m.Live()
		resp.CrowdedNodes = append(resp.CrowdedNodes, live)
		resp.Heatmap[m.NodeID] = math.Round(m.CongestionScore*100) / 100
		if live.Density > threshold {
			resp.CongestedDepartments = append(resp.CongestedDepartments, live)
		}
	}

	c.JSON(http.StatusOK, resp)
}

// Congested reports every department above the crowd or load threshold
func (h *Handler) Congested(c *gin.Context) {
	snap, err := h.snapshot(c)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "crowd data unavailable"})
		return
	}

	report := h.router.CongestedDepartments(snap)
	c.JSON(http.StatusOK, gin.H{
		"congested":  report,
		"count":      len(report),
		"thresholds": gin.H{"crowd": h.router.Thresholds().Crowd, "load": h.router.Thresholds().Load},
		"timestamp":  time.Now().UTC(),
	})
}

// IngestMetric stores a department metric and publishes it to stream clients
func (h *Handler) IngestMetric(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "metric store not configured"})
		return
	}

	var m crowd.DepartmentMetric
	if err := c.ShouldBindJSON(&m); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.store.Save(c.Request.Context(), &m); err != nil {
		if errors.Is(err, crowd.ErrInvalidMetric) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logging.New(c.Request.Context()).LogError("ingest_metric", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store metric"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"metric": m})
}

// GetMetric returns the live metric of one department
func (h *Handler) GetMetric(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "metric store not configured"})
		return
	}

	m, err := h.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, crowd.ErrMetricNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "metric not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get metric"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"metric": m, "live": m.Live()})
}

func (h *Handler) snapshot(c *gin.Context) (crowd.Snapshot, error) {
	metrics, err := h.listMetrics(c)
	if err != nil {
		return crowd.Empty(), err
	}
	return crowd.SnapshotFromMetrics(metrics), nil
}

func (h *Handler) listMetrics(c *gin.Context) ([]crowd.DepartmentMetric, error) {
	if h.source == nil {
		return nil, nil
	}
	metrics, err := h.source.ListMetrics(c.Request.Context())
	if err != nil {
		h.metrics.ObserveSnapshotError()
		logging.New(c.Request.Context()).LogError("list_metrics", err)
		return nil, err
	}
	return metrics, nil
}
