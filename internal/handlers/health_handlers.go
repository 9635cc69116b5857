package handlers

import (
	"net/http"

	"kosmart/internal/repositories"

	"github.com/labstack/echo/v4"
)

// HealthHandlers exposes liveness and readiness probes
type HealthHandlers struct {
	db repositories.DB
}

// NewHealthHandlers creates a new health handlers instance
func NewHealthHandlers(db repositories.DB) *HealthHandlers {
	return &HealthHandlers{db: db}
}

// Health handles GET /health
func (h *HealthHandlers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Ready handles GET /ready, checking database connectivity
func (h *HealthHandlers) Ready(c echo.Context) error {
	ctx := c.Request().Context()

	var one int
	if err := h.db.QueryRow(ctx, "SELECT 1").Scan(&one); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "unavailable",
			"error":  "database unreachable",
		})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
}
