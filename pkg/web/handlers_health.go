package web

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

func (s *Server) registerHealthRoutes() {
	s.echo.GET("/health/live", s.handleLiveness)
}

func (s *Server) handleLiveness(c echo.Context) error {
	response := map[string]any{
		"status":        "ok",
		"uptime":        s.clock.Since(s.startTime).Seconds(),
		"active_visits": s.visits.Len(),
	}
	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to write liveness response: %w", err)
	}
	return nil
}
