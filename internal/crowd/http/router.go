package http

import "github.com/gin-gonic/gin"

// Register registers the crowd routes
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/reroute", h.Reroute)
	rg.GET("/route-weights", h.RouteWeights)
	rg.GET("/crowd/congested", h.Congested)
	rg.POST("/crowd/metrics", h.IngestMetric)
	rg.GET("/crowd/metrics/:id", h.GetMetric)
	rg.GET("/crowd/stream", h.StreamEvents)
}
