// Package router builds the echo instance: global middleware, the error
// handler, system routes and the API routes of the running service.
package router

import (
	"io/fs"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/shop-microservices/internal/handler"
	"github.com/deppfellow/shop-microservices/internal/middleware"
	"github.com/deppfellow/shop-microservices/internal/model"
	"github.com/deppfellow/shop-microservices/internal/server"
)

// NewRouter wires middleware and routes. API routes are registered only
// for the handlers present in h, so each binary exposes its own surface.
func NewRouter(s *server.Server, h *handler.Handlers, assets fs.FS) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true

	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Metrics.Observe(),
		middlewares.Global.Recover(),
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middlewares.RateLimit.Limit(),
	)

	registerSystemRoutes(router, s, h, assets)

	api := router.Group("/api")

	if h.Order != nil {
		api.POST("/order", handler.HandleString(
			h.Order.Handler,
			h.Order.PlaceOrder,
			http.StatusCreated,
			&model.PlaceOrderRequest{},
		))
	}

	if h.Product != nil {
		api.POST("/product", handler.HandleNoContent(
			h.Product.Handler,
			h.Product.CreateProduct,
			http.StatusCreated,
			&model.ProductRequest{},
		))
		api.GET("/product", handler.Handle(
			h.Product.Handler,
			h.Product.ListProducts,
			http.StatusOK,
			&model.ListProductsRequest{},
		))
	}

	return router
}
