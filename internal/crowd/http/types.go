package http

import (
	"context"
	"time"

	crowd "github.com/GoSim-25-26J-441/medinav-backend/internal/crowd/domain"
	"github.com/GoSim-25-26J-441/medinav-backend/internal/crowd/router"
	"github.com/GoSim-25-26J-441/medinav-backend/internal/telemetry"
	"github.com/redis/go-redis/v9"
)

// MetricStore is the writable live metric store
type MetricStore interface {
	Save(ctx context.Context, m *crowd.DepartmentMetric) error
	Get(ctx context.Context, nodeID string) (*crowd.DepartmentMetric, error)
}

// EventSubscriber opens a subscription on the metric events channel
type EventSubscriber interface {
	Subscribe(ctx context.Context) *redis.PubSub
}

// Handler handles HTTP requests for crowd data and rerouting
type Handler struct {
	router     *router.Router
	source     crowd.MetricsSource
	store      MetricStore
	subscriber EventSubscriber
	metrics    *telemetry.Metrics

	keepAlive time.Duration
}

// Deps groups the optional collaborators of a Handler. A nil Store disables
// metric ingestion and a nil Subscriber disables the stream.
type Deps struct {
	Source     crowd.MetricsSource
	Store      MetricStore
	Subscriber EventSubscriber
	Metrics    *telemetry.Metrics
}

// New creates a new Handler
func New(r *router.Router, deps Deps) *Handler {
	return &Handler{
		router:     r,
		source:     deps.Source,
		store:      deps.Store,
		subscriber: deps.Subscriber,
		metrics:    deps.Metrics,
		keepAlive:  15 * time.Second,
	}
}

type rerouteRequest struct {
	CurrentNode     string `json:"currentNode" binding:"required"`
	IntendedNext    string `json:"intendedNext" binding:"required"`
	UserRole        string `json:"userRole"`
	Urgency         string `json:"urgency"`
	AppointmentType string `json:"appointmentType"`
}

type rerouteResponse struct {
	router.Decision
	Timestamp time.Time `json:"timestamp"`
}

type routeWeightsResponse struct {
	LiveData             bool               `json:"livedata"`
	CrowdedNodes         []crowd.LiveMetric `json:"crowdedNodes"`
	Heatmap              map[string]float64 `json:"heatmap"`
	CongestedDepartments []crowd.LiveMetric `json:"congestedDepartments"`
	Timestamp            time.Time          `json:"timestamp"`
}
