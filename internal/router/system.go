package router

import (
	"io/fs"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/shop-microservices/internal/handler"
	"github.com/deppfellow/shop-microservices/internal/server"
)

// registerSystemRoutes registers the endpoints outside the business API:
// health, Prometheus metrics, docs UI and its static assets.
func registerSystemRoutes(r *echo.Echo, s *server.Server, h *handler.Handlers, assets fs.FS) {
	r.GET("/status", h.Health.CheckHealth)

	r.GET("/metrics", echo.WrapHandler(s.Metrics.Handler()))

	r.StaticFS("/static", assets)

	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
}
