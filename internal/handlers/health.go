package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const storePingTimeout = 2 * time.Second

// HealthResponse reports the service status and its store dependency
type HealthResponse struct {
	Status         string `json:"status" jsonschema:"enum=ok,enum=degraded"`
	Store          string `json:"store" jsonschema:"enum=connected,enum=disconnected,enum=not configured"`
	StoreLatencyMs int64  `json:"storeLatencyMs,omitempty"`
	Error          string `json:"error,omitempty"`
}

// HealthCheck pings the store
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func HealthCheck(c *gin.Context) {
	if dataStore == nil {
		c.JSON(http.StatusOK, HealthResponse{Status: "ok", Store: "not configured"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), storePingTimeout)
	defer cancel()

	start := time.Now()
	err := dataStore.Ping(ctx)
	latency := time.Since(start).Milliseconds()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, HealthResponse{
			Status: "degraded",
			Store:  "disconnected",
			Error:  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, HealthResponse{Status: "ok", Store: "connected", StoreLatencyMs: latency})
}
