package httpapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// El reset diario automático está deshabilitado; el endpoint se mantiene con
// su forma de respuesta fija para los clientes que aún lo consultan. El reset
// real es POST /students/reset-status.

// POST /api/reset-daily
func (s *Server) ResetDailyAck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"success":   true,
		"message":   "Daily reset completed successfully",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// GET /api/reset-daily
func (s *Server) ResetDailyInfo(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"message":   "Daily reset endpoint is ready",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
