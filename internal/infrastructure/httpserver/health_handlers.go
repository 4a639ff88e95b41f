package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const (
	serviceName        = "cached-catalog"
	serviceVersion     = "1.0.0"
	healthCheckTimeout = 2 * time.Second
)

type healthReport struct {
	Status       string            `json:"status"`
	Service      string            `json:"service"`
	Version      string            `json:"version"`
	Timestamp    string            `json:"timestamp"`
	Dependencies map[string]string `json:"dependencies"`
}

// healthCheck reports 200 when every dependency answers and 503 otherwise.
func (s *Server) healthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthCheckTimeout)
	defer cancel()

	report := s.runHealthChecks(ctx)
	code := http.StatusOK
	if report.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	return c.JSON(code, report)
}

func (s *Server) runHealthChecks(ctx context.Context) healthReport {
	report := healthReport{
		Status:       "healthy",
		Service:      serviceName,
		Version:      serviceVersion,
		Timestamp:    s.now().UTC().Format(time.RFC3339),
		Dependencies: make(map[string]string, len(s.healthCheckers)),
	}
	for _, hc := range s.healthCheckers {
		if hc == nil {
			continue
		}
		if err := hc.Check(ctx); err != nil {
			report.Dependencies[hc.Name()] = "unhealthy"
			report.Status = "degraded"
			if s.logger != nil {
				s.logger.WithError(err).WithField("dependency", hc.Name()).Warn("health check failed")
			}
			continue
		}
		report.Dependencies[hc.Name()] = "healthy"
	}
	return report
}
