package http

import "github.com/gin-gonic/gin"

// Register registers the prediction and journey routes
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/predict-next", h.PredictNext)
	rg.POST("/journey/cluster", h.ClusterJourney)
	rg.POST("/journey/best-match", h.BestMatch)
	rg.POST("/journey/suggest-path", h.SuggestPath)
}
