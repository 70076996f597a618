package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/storycircle/backend/internal/search"
)

// HealthHandler reports process liveness and degraded subsystems
type HealthHandler struct {
	sync *search.Synchronizer
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(sync *search.Synchronizer) *HealthHandler {
	return &HealthHandler{sync: sync}
}

// RegisterHealthRoutes registers the health route
func (h *HealthHandler) RegisterHealthRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)
}

// Health returns 200 with the state of optional subsystems
func (h *HealthHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":                "ok",
		"search_enabled":        h.sync.Enabled(),
		"search_skipped_writes": h.sync.Skipped(),
	})
}
