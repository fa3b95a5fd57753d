package http

import (
	"net/http"
	"time"

	"github.com/GoSim-25-26J-441/medinav-backend/internal/intent"
	"github.com/GoSim-25-26J-441/medinav-backend/internal/logging"
	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for query intent analysis
type Handler struct {
	classifier *intent.Classifier
}

// New creates a new Handler
func New(classifier *intent.Classifier) *Handler {
	return &Handler{classifier: classifier}
}

type analyzeRequest struct {
	Query           string `json:"query" binding:"required"`
	DoctorType      string `json:"doctorType"`
	AppointmentType string `json:"appointmentType"`
}

type analyzeResponse struct {
	intent.Result
	Timestamp time.Time `json:"timestamp"`
}

// AnalyzeIntent classifies a free-text visitor query
func (h *Handler) AnalyzeIntent(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing query"})
		return
	}

	result := h.classifier.Classify(req.Query, intent.Context{
		DoctorType:      req.DoctorType,
		AppointmentType: req.AppointmentType,
	})
	logging.New(c.Request.Context()).LogDebugf("analyze_intent", "intent=%s confidence=%.2f", result.PrimaryIntent, result.Confidence)

	c.JSON(http.StatusOK, analyzeResponse{Result: result, Timestamp: time.Now().UTC()})
}

// Register registers the intent routes
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/analyze-intent", h.AnalyzeIntent)
}
