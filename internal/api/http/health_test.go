package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func healthCheck(t *testing.T, h *HealthHandler, path string) HealthResponse {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h.RegisterRoutes(r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHealthCheck_Disabled(t *testing.T) {
	resp := healthCheck(t, NewHealthHandler("medinav", "1.2.3", nil, nil), "/health")

	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "medinav", resp.Service)
	assert.Equal(t, "1.2.3", resp.Version)
	assert.Equal(t, "disabled", resp.Redis)
	assert.Equal(t, "disabled", resp.DB)
}

func TestHealthCheck_Dependencies(t *testing.T) {
	up := PingFunc(func(context.Context) error { return nil })
	down := PingFunc(func(context.Context) error { return errors.New("connection refused") })

	resp := healthCheck(t, NewHealthHandler("medinav", "1.0.0", up, up), "/healthz")
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "up", resp.Redis)
	assert.Equal(t, "up", resp.DB)

	resp = healthCheck(t, NewHealthHandler("medinav", "1.0.0", down, nil), "/healthz")
	assert.Equal(t, "degraded", resp.Status)
	assert.Equal(t, "down", resp.Redis)
	assert.Equal(t, "disabled", resp.DB)
}
