package http

import "github.com/gin-gonic/gin"

// Register registers the navigation routes
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/path", h.FindPath)
	rg.POST("/routes", h.FindRoutes)
	rg.GET("/nodes", h.ListNodes)
}
