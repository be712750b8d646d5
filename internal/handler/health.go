package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/shop-microservices/internal/middleware"
	"github.com/deppfellow/shop-microservices/internal/server"
)

const defaultHealthCheckTimeout = 5 * time.Second

// dependencyCheck probes one external dependency.
type dependencyCheck struct {
	name string
	ping func(ctx context.Context) error
}

// HealthHandler reports whether the service and its dependencies are up,
// for load balancers and uptime monitors.
type HealthHandler struct {
	Handler
	checks []dependencyCheck
}

// NewHealthHandler probes every configured dependency that is also listed
// in observability.health_checks.checks.
func NewHealthHandler(s *server.Server) *HealthHandler {
	h := &HealthHandler{Handler: NewHandler(s)}

	obs := s.Config.Observability
	if s.DB != nil && obs.HealthCheckEnabled("database") {
		h.checks = append(h.checks, dependencyCheck{name: "database", ping: s.DB.Pool.Ping})
	}
	if s.Mongo != nil && obs.HealthCheckEnabled("mongo") {
		h.checks = append(h.checks, dependencyCheck{name: "mongo", ping: s.Mongo.Ping})
	}
	if s.Redis != nil && obs.HealthCheckEnabled("redis") {
		h.checks = append(h.checks, dependencyCheck{name: "redis", ping: func(ctx context.Context) error {
			return s.Redis.Ping(ctx).Err()
		}})
	}

	return h
}

// CheckHealth answers 200 when every check passes and 503 otherwise.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	timeout := h.server.Config.Observability.HealthChecks.Timeout
	if timeout <= 0 {
		timeout = defaultHealthCheckTimeout
	}

	checks := make(map[string]interface{}, len(h.checks))
	isHealthy := true

	for _, check := range h.checks {
		ctx, cancel := context.WithTimeout(c.Request().Context(), timeout)
		checkStart := time.Now()
		err := check.ping(ctx)
		elapsed := time.Since(checkStart)
		cancel()

		if err != nil {
			isHealthy = false
			checks[check.name] = map[string]interface{}{
				"status":        "unhealthy",
				"response_time": elapsed.String(),
				"error":         err.Error(),
			}

			logger.Error().
				Err(err).
				Str("check", check.name).
				Dur("response_time", elapsed).
				Msg("health check failed")

			h.server.Metrics.HealthCheckFailed(check.name)
			h.recordFailure(map[string]interface{}{
				"check_type":       check.name,
				"operation":        "health_check",
				"error_type":       check.name + "_unhealthy",
				"response_time_ms": elapsed.Milliseconds(),
				"error_message":    err.Error(),
			})
			continue
		}

		checks[check.name] = map[string]interface{}{
			"status":        "healthy",
			"response_time": elapsed.String(),
		}

		logger.Debug().
			Str("check", check.name).
			Dur("response_time", elapsed).
			Msg("health check passed")
	}

	response := map[string]interface{}{
		"status":      "healthy",
		"service":     h.server.Config.Observability.ServiceName,
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"checks":      checks,
	}

	if !isHealthy {
		response["status"] = "unhealthy"

		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("service unhealthy")

		h.recordFailure(map[string]interface{}{
			"check_type":        "overall",
			"operation":         "health_check",
			"error_type":        "overall_unhealthy",
			"total_duration_ms": time.Since(start).Milliseconds(),
		})

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	return c.JSON(http.StatusOK, response)
}

func (h *HealthHandler) recordFailure(attrs map[string]interface{}) {
	if app := h.server.LoggerService.GetApplication(); app != nil {
		app.RecordCustomEvent("HealthCheckError", attrs)
	}
}
