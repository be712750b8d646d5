package handler

import (
	"io/fs"

	"github.com/deppfellow/shop-microservices/internal/server"
	"github.com/deppfellow/shop-microservices/internal/service"
)

// Handlers groups every HTTP handler. Order and Product are nil in the
// binary that does not serve them.
type Handlers struct {
	Health  *HealthHandler
	OpenAPI *OpenAPIHandler
	Order   *OrderHandler
	Product *ProductHandler
}

// NewHandlers builds the handlers for the services present in services.
// Order and Product stay nil when their service is absent.
func NewHandlers(s *server.Server, services *service.Services, assets fs.FS) *Handlers {
	h := &Handlers{
		Health:  NewHealthHandler(s),
		OpenAPI: NewOpenAPIHandler(s, assets),
	}

	if services.Orders != nil {
		h.Order = NewOrderHandler(s, services.Orders)
	}
	if services.Products != nil {
		h.Product = NewProductHandler(s, services.Products)
	}

	return h
}
