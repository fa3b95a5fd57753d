package http

import (
	"errors"
	"net/http"
	"strconv"

	crowd "github.com/GoSim-25-26J-441/medinav-backend/internal/crowd/domain"
	"github.com/GoSim-25-26J-441/medinav-backend/internal/logging"
	"github.com/GoSim-25-26J-441/medinav-backend/internal/navigation/domain"
	"github.com/GoSim-25-26J-441/medinav-backend/internal/navigation/graph"
	"github.com/GoSim-25-26J-441/medinav-backend/internal/navigation/service"
	"github.com/GoSim-25-26J-441/medinav-backend/internal/telemetry"
	"github.com/gin-gonic/gin"
)

const warningNoCrowdData = "live crowd data unavailable, route ignores congestion"

// Handler handles HTTP requests for facility navigation
type Handler struct {
	pathfinder *service.PathfinderService
	provider   crowd.SnapshotProvider
	metrics    *telemetry.Metrics
}

// New creates a new Handler. provider and metrics may be nil.
func New(pathfinder *service.PathfinderService, provider crowd.SnapshotProvider, metrics *telemetry.Metrics) *Handler {
	return &Handler{pathfinder: pathfinder, provider: provider, metrics: metrics}
}

type pathRequest struct {
	Start      string   `json:"start" binding:"required"`
	End        string   `json:"end" binding:"required"`
	AvoidNodes []string `json:"avoidNodes"`
}

type pathResponse struct {
	*domain.NavigationPath
	Instructions []string `json:"instructions"`
	Warning      string   `json:"warning,omitempty"`
}

type routesResponse struct {
	Primary   pathResponse  `json:"primary"`
	Alternate *pathResponse `json:"alternate,omitempty"`
	Warning   string        `json:"warning,omitempty"`
}

// FindPath computes the cheapest congestion-aware path between two nodes
func (h *Handler) FindPath(c *gin.Context) {
	var req pathRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing start or end"})
		return
	}

	snap, warning := h.snapshot(c)
	path, err := h.pathfinder.FindPath(c.Request.Context(), req.Start, req.End, req.AvoidNodes, snap)
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.metrics.ObservePathSearch("found")

	c.JSON(http.StatusOK, pathResponse{
		NavigationPath: path,
		Instructions:   graph.Instructions(path.Steps),
		Warning:        warning,
	})
}

// FindRoutes returns the primary path and a distinct alternate when one exists
func (h *Handler) FindRoutes(c *gin.Context) {
	var req pathRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing start or end"})
		return
	}

	snap, warning := h.snapshot(c)
	routes, err := h.pathfinder.FindRoutes(c.Request.Context(), req.Start, req.End, snap)
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.metrics.ObservePathSearch("found")

	resp := routesResponse{
		Primary: pathResponse{NavigationPath: routes.Primary, Instructions: graph.Instructions(routes.Primary.Steps)},
		Warning: warning,
	}
	if routes.Alternate != nil {
		resp.Alternate = &pathResponse{NavigationPath: routes.Alternate, Instructions: graph.Instructions(routes.Alternate.Steps)}
	}
	c.JSON(http.StatusOK, resp)
}

// ListNodes lists facility nodes, optionally filtered by ?floor=
func (h *Handler) ListNodes(c *gin.Context) {
	var floor *int
	if raw := c.Query("floor"); raw != "" {
		f, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "floor must be an integer"})
			return
		}
		floor = &f
	}

	nodes := h.pathfinder.Nodes(floor)
	c.JSON(http.StatusOK, gin.H{"nodes": nodes, "count": len(nodes)})
}

// snapshot degrades to an empty snapshot with a warning when crowd data fails
func (h *Handler) snapshot(c *gin.Context) (crowd.Snapshot, string) {
	snap, err := crowd.CurrentSnapshot(c.Request.Context(), h.provider)
	if err != nil {
		h.metrics.ObserveSnapshotError()
		logging.New(c.Request.Context()).LogWarnf("snapshot", "falling back to empty snapshot: %v", err)
		return snap, warningNoCrowdData
	}
	return snap, ""
}

func (h *Handler) writeError(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		h.metrics.ObservePathSearch("not_found")
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	logging.New(c.Request.Context()).LogError("find_path", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute path"})
}
