package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/shop-microservices/internal/model"
	"github.com/deppfellow/shop-microservices/internal/server"
	"github.com/deppfellow/shop-microservices/internal/service"
)

// OrderHandler serves the order API.
type OrderHandler struct {
	Handler
	orders *service.OrderService
}

// NewOrderHandler returns an OrderHandler backed by orders.
func NewOrderHandler(s *server.Server, orders *service.OrderService) *OrderHandler {
	return &OrderHandler{
		Handler: NewHandler(s),
		orders:  orders,
	}
}

// PlaceOrder handles POST /api/order.
func (h *OrderHandler) PlaceOrder(c echo.Context, req *model.PlaceOrderRequest) (string, error) {
	if _, err := h.orders.PlaceOrder(c.Request().Context(), req); err != nil {
		return "", err
	}
	return model.OrderPlacedMessage, nil
}
