package http

import (
	"net/http"
	"time"

	"github.com/go-chi/render"

	"prgcli/internal/infrastructure"
)

var startTime = time.Now()

// HealthHandler reports process liveness.
type HealthHandler struct{}

// NewHealthHandler creates a new health handler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Health handles GET /healthz.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"status":  "healthy",
		"service": infrastructure.ServiceName,
		"version": infrastructure.ServiceVersion,
		"uptime":  time.Since(startTime).String(),
	})
}
