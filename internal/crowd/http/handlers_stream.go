package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	crowd "github.com/GoSim-25-26J-441/medinav-backend/internal/crowd/domain"
	"github.com/GoSim-25-26J-441/medinav-backend/internal/logging"
	"github.com/gin-gonic/gin"
)

const warningNoCrowdData = "live crowd data unavailable"

type initialEvent struct {
	Metrics []crowd.LiveMetric `json:"metrics"`
	Warning string             `json:"warning,omitempty"`
}

// StreamEvents streams metric updates using Server-Sent Events (SSE)
func (h *Handler) StreamEvents(c *gin.Context) {
	if h.subscriber == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "event stream not configured"})
		return
	}

	ctx := c.Request.Context()
	logger := logging.New(ctx)

	sub := h.subscriber.Subscribe(ctx)
	defer sub.Close()
	// Wait for the subscription to be confirmed so no event is missed
	if _, err := sub.Receive(ctx); err != nil {
		logger.LogError("stream_subscribe", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "event stream unavailable"})
		return
	}

	// Set SSE headers
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // nginx: disable buffering

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming unsupported"})
		return
	}

	if h.metrics != nil {
		h.metrics.StreamClients.Inc()
		defer h.metrics.StreamClients.Dec()
	}

	// Send current metrics first
	initial := initialEvent{Metrics: []crowd.LiveMetric{}}
	metrics, err := h.listMetrics(c)
	if err != nil {
		initial.Warning = warningNoCrowdData
	}
	for _, m := range metrics {
		initial.Metrics = append(initial.Metrics, m.Live())
	}
	initialData, err := json.Marshal(initial)
	if err != nil {
		logger.LogError("stream_initial", err)
		initialData = []byte(`{"metrics":[],"warning":"` + warningNoCrowdData + `"}`)
	}
	fmt.Fprintf(c.Writer, "event: initial\ndata: %s\n\n", string(initialData))
	flusher.Flush()

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	events := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			// Client disconnected
			return

		case <-ticker.C:
			fmt.Fprint(c.Writer, ": keep-alive\n\n")
			flusher.Flush()

		case msg, ok := <-events:
			if !ok {
				return
			}
			fmt.Fprintf(c.Writer, "event: update\ndata: %s\n\n", msg.Payload)
			flusher.Flush()
		}
	}
}
