package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/shop-microservices/internal/metrics"
)

// MetricsMiddleware feeds request outcomes into Prometheus.
type MetricsMiddleware struct {
	metrics *metrics.Metrics
}

// NewMetricsMiddleware returns a MetricsMiddleware recording into m.
func NewMetricsMiddleware(m *metrics.Metrics) *MetricsMiddleware {
	return &MetricsMiddleware{metrics: m}
}

// Observe records the count and latency of every request, labelled by the
// matched route. Unmatched requests are grouped under "unmatched".
func (mm *MetricsMiddleware) Observe() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}

			mm.metrics.ObserveHTTP(c.Request().Method, route, responseStatus(c, err), time.Since(start))
			return err
		}
	}
}
