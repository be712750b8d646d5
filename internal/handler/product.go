package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/shop-microservices/internal/model"
	"github.com/deppfellow/shop-microservices/internal/server"
	"github.com/deppfellow/shop-microservices/internal/service"
)

// ProductHandler serves the product API.
type ProductHandler struct {
	Handler
	products *service.ProductService
}

// NewProductHandler returns a ProductHandler backed by products.
func NewProductHandler(s *server.Server, products *service.ProductService) *ProductHandler {
	return &ProductHandler{
		Handler:  NewHandler(s),
		products: products,
	}
}

// CreateProduct handles POST /api/product. The response has no body.
func (h *ProductHandler) CreateProduct(c echo.Context, req *model.ProductRequest) error {
	_, err := h.products.CreateProduct(c.Request().Context(), req)
	return err
}

// ListProducts handles GET /api/product.
func (h *ProductHandler) ListProducts(c echo.Context, _ *model.ListProductsRequest) ([]model.ProductResponse, error) {
	return h.products.ListProducts(c.Request().Context())
}
