package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	provider string // configured primary provider, "" or "none" when fallback-only
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(provider string) *HealthHandler {
	return &HealthHandler{provider: provider}
}

// Liveness handles GET /healthz
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz. The service is always ready: with no
// primary backend configured it still serves fallback-only analysis.
func (h *HealthHandler) Readiness(c *gin.Context) {
	mode := "primary+fallback"
	if h.provider == "" || h.provider == "none" {
		mode = "fallback-only"
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "mode": mode})
}
