package bootstrap

import (
	"net/http"
	"slices"

	httpapi "github.com/GoSim-25-26J-441/medinav-backend/internal/api/http"
	"github.com/GoSim-25-26J-441/medinav-backend/internal/api/http/middleware"
	crowdhttp "github.com/GoSim-25-26J-441/medinav-backend/internal/crowd/http"
	intenthttp "github.com/GoSim-25-26J-441/medinav-backend/internal/intent/http"
	navhttp "github.com/GoSim-25-26J-441/medinav-backend/internal/navigation/http"
	predhttp "github.com/GoSim-25-26J-441/medinav-backend/internal/prediction/http"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	CORSOrigins    []string
	RateLimitRPS   float64
	RateLimitBurst int
	Services       *Services
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	s := dep.Services
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(corsMiddleware(dep.CORSOrigins))
	r.Use(s.Metrics.Middleware())

	var redisPinger, dbPinger httpapi.Pinger
	if s.Store != nil {
		redisPinger = s.Store
	}
	if s.db != nil {
		dbPinger = s.db
	}
	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, redisPinger, dbPinger)
	healthHandler.RegisterRoutes(r)
	r.GET("/metrics", gin.WrapH(s.Metrics.Handler()))

	api := r.Group("/api/v1")
	api.Use(middleware.NewRateLimiter(dep.RateLimitRPS, dep.RateLimitBurst).Middleware())

	crowdDeps := crowdhttp.Deps{Source: s.Source, Metrics: s.Metrics}
	if s.Store != nil {
		crowdDeps.Store = s.Store
		crowdDeps.Subscriber = s.Store
	}
	crowdhttp.New(s.Router, crowdDeps).Register(api)

	predhttp.New(s.Catalog, s.Predictor, s.Matcher, s.Router, s.Source, s.Metrics).Register(api)
	intenthttp.New(s.Classifier).Register(api)
	navhttp.New(s.Pathfinder, s.Source, s.Metrics).Register(api.Group("/navigation"))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})

	return r
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	config := cors.DefaultConfig()
	if len(origins) == 0 || slices.Contains(origins, "*") {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = origins
	}
	config.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader}
	config.ExposeHeaders = []string{middleware.RequestIDHeader}
	return cors.New(config)
}
