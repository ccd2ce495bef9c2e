package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/scaninstead/api/internal/monitor"
)

// MonitorHandler exposes the latest anomaly sweep to administrators.
type MonitorHandler struct {
	monitor *monitor.Service
}

// NewMonitorHandler wires a handler backed by the monitor service.
func NewMonitorHandler(m *monitor.Service) *MonitorHandler {
	return &MonitorHandler{monitor: m}
}

// Stats handles GET /admin/monitor requests. Before the first sweep
// completes it triggers one on demand.
func (h *MonitorHandler) Stats(c echo.Context) error {
	stats := h.monitor.Snapshot()
	if stats == nil {
		fresh, err := h.monitor.Sweep(c.Request().Context())
		if err != nil {
			return Error(c, http.StatusInternalServerError, "failed to run pitch sweep")
		}
		stats = fresh
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"stats":   stats,
	})
}
