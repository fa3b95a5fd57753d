package http

import (
	"net/http"
	"time"

	"github.com/GoSim-25-26J-441/medinav-backend/internal/catalog"
	crowd "github.com/GoSim-25-26J-441/medinav-backend/internal/crowd/domain"
	"github.com/GoSim-25-26J-441/medinav-backend/internal/crowd/router"
	"github.com/GoSim-25-26J-441/medinav-backend/internal/logging"
	"github.com/GoSim-25-26J-441/medinav-backend/internal/prediction/cluster"
	"github.com/GoSim-25-26J-441/medinav-backend/internal/prediction/service"
	"github.com/GoSim-25-26J-441/medinav-backend/internal/telemetry"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const warningNoCrowdData = "live crowd data unavailable, reroute check ignores congestion"

// Handler handles HTTP requests for next-step prediction and journey matching
type Handler struct {
	catalog   *catalog.Catalog
	predictor *service.Predictor
	matcher   *cluster.Matcher
	router    *router.Router
	source    crowd.MetricsSource
	metrics   *telemetry.Metrics
}

// New creates a new Handler. source and metrics may be nil.
func New(cat *catalog.Catalog, predictor *service.Predictor, matcher *cluster.Matcher, r *router.Router, source crowd.MetricsSource, metrics *telemetry.Metrics) *Handler {
	return &Handler{
		catalog:   cat,
		predictor: predictor,
		matcher:   matcher,
		router:    r,
		source:    source,
		metrics:   metrics,
	}
}

type predictRequest struct {
	CurrentLocation string   `json:"currentLocation" binding:"required"`
	UserRole        string   `json:"userRole"`
	DoctorType      string   `json:"doctorType"`
	AppointmentType string   `json:"appointmentType"`
	JourneySoFar    []string `json:"journeySoFar"`
}

type predictResponse struct {
	PredictionID string             `json:"predictionId"`
	Prediction   service.Prediction `json:"prediction"`
	Reroute      router.Decision    `json:"reroute"`
	LiveMetrics  *crowd.LiveMetric  `json:"liveMetrics"`
	Timestamp    time.Time          `json:"timestamp"`
	Warning      string             `json:"warning,omitempty"`
}

type clusterRequest struct {
	DoctorType      string   `json:"doctorType"`
	AppointmentType string   `json:"appointmentType" binding:"required"`
	JourneySoFar    []string `json:"journeySoFar"`
}

type bestMatchRequest struct {
	JourneySoFar []string `json:"journeySoFar" binding:"required,min=1"`
}

type suggestRequest struct {
	DoctorType      string `json:"doctorType"`
	AppointmentType string `json:"appointmentType" binding:"required"`
	CurrentLocation string `json:"currentLocation" binding:"required"`
	UserRole        string `json:"userRole"`
}

// SuggestedStep is one upcoming department with its crowd check
type SuggestedStep struct {
	Department  string              `json:"department"`
	Name        string              `json:"name"`
	Floor       int                 `json:"floor"`
	Congested   bool                `json:"congested"`
	CrowdLevel  float64             `json:"crowdLevel"`
	Alternative *router.Alternative `json:"alternative"`
}

// PredictNext predicts the next step and checks it against live crowd data
func (h *Handler) PredictNext(c *gin.Context) {
	var req predictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing currentLocation"})
		return
	}
	role := roleOrDefault(req.UserRole)
	logger := logging.New(c.Request.Context())

	prediction := h.predictor.PredictNextStep(req.CurrentLocation, role, service.Context{
		DoctorType:      req.DoctorType,
		AppointmentType: req.AppointmentType,
		JourneySoFar:    req.JourneySoFar,
	})
	h.metrics.ObservePrediction(prediction.Method)

	metrics, warning := h.liveMetrics(c)
	snap := crowd.SnapshotFromMetrics(metrics)

	reroute := h.router.Evaluate(h.predictor.NormalizeLocation(req.CurrentLocation), prediction.NextNode, role, router.Options{
		AppointmentType: req.AppointmentType,
	}, snap)
	// a clearly lighter same-category department from live data takes precedence
	reroute = h.router.WithLiveData(reroute, metrics)
	h.metrics.ObserveReroute(string(reroute.Severity), reroute.ShouldReroute)

	var live *crowd.LiveMetric
	for _, m := range metrics {
		if m.NodeID == prediction.NextNode {
			l := m.Live()
			live = &l
			break
		}
	}

	resp := predictResponse{
		PredictionID: uuid.New().String(),
		Prediction:   prediction,
		Reroute:      reroute,
		LiveMetrics:  live,
		Timestamp:    time.Now().UTC(),
		Warning:      warning,
	}
	logger.LogInfof("predict_next", "prediction_id=%s location=%s next=%s method=%s confidence=%.2f",
		resp.PredictionID, req.CurrentLocation, prediction.NextNode, prediction.Method, prediction.Confidence)

	c.JSON(http.StatusOK, resp)
}

// ClusterJourney matches a partial journey to its historical group
func (h *Handler) ClusterJourney(c *gin.Context) {
	var req clusterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing appointmentType"})
		return
	}

	result := h.matcher.Classify(req.DoctorType, req.AppointmentType, req.JourneySoFar)
	c.JSON(http.StatusOK, gin.H{
		"clusterId":          result.ClusterID,
		"centroidJourney":    result.Centroid,
		"similarity":         result.Similarity,
		"predictedRemaining": result.PredictedRemaining,
		"avgDuration":        result.AvgDuration,
		"clusterSize":        result.ClusterSize,
		"timestamp":          time.Now().UTC(),
	})
}

// BestMatch finds the single closest historical journey
func (h *Handler) BestMatch(c *gin.Context) {
	var req bestMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing journeySoFar"})
		return
	}

	match := h.matcher.FindBestMatch(req.JourneySoFar)
	if match == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no journeys to match"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"match": match, "timestamp": time.Now().UTC()})
}

// SuggestPath predicts the remaining journey and crowd-checks every step
func (h *Handler) SuggestPath(c *gin.Context) {
	var req suggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing appointmentType or currentLocation"})
		return
	}
	role := roleOrDefault(req.UserRole)

	result := h.matcher.Classify(req.DoctorType, req.AppointmentType, []string{req.CurrentLocation})
	metrics, warning := h.liveMetrics(c)
	snap := crowd.SnapshotFromMetrics(metrics)

	steps := make([]SuggestedStep, 0, len(result.PredictedRemaining))
	for _, step := range result.PredictedRemaining {
		d := h.router.Evaluate(req.CurrentLocation, step, role, router.Options{AppointmentType: req.AppointmentType}, snap)
		s := SuggestedStep{
			Department: step,
			Name:       step,
			Congested:  d.ShouldReroute,
			CrowdLevel: d.CrowdLevel,
		}
		if dept, ok := h.catalog.Department(step); ok {
			s.Name = dept.Name
			s.Floor = dept.Floor
		}
		if d.ShouldReroute {
			s.Alternative = d.Alternative
		}
		steps = append(steps, s)
	}

	body := gin.H{
		"clusterId":     result.ClusterID,
		"predictedPath": steps,
		"totalSteps":    len(steps),
		"avgDuration":   result.AvgDuration,
		"similarity":    result.Similarity,
		"timestamp":     time.Now().UTC(),
	}
	if warning != "" {
		body["warning"] = warning
	}
	c.JSON(http.StatusOK, body)
}

// liveMetrics degrades to no metrics with a warning when the source fails
func (h *Handler) liveMetrics(c *gin.Context) ([]crowd.DepartmentMetric, string) {
	if h.source == nil {
		return nil, ""
	}
	metrics, err := h.source.ListMetrics(c.Request.Context())
	if err != nil {
		h.metrics.ObserveSnapshotError()
		logging.New(c.Request.Context()).LogWarnf("live_metrics", "continuing without crowd data: %v", err)
		return nil, warningNoCrowdData
	}
	return metrics, ""
}

func roleOrDefault(role string) string {
	if role == "" {
		return catalog.RolePatientNew
	}
	return role
}
