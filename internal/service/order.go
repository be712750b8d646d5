package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/deppfellow/shop-microservices/internal/metrics"
	"github.com/deppfellow/shop-microservices/internal/model"
	"github.com/deppfellow/shop-microservices/internal/repository"
)

// OrderEventScheduler schedules the background work that follows a
// placed order.
type OrderEventScheduler interface {
	EnqueueOrderPlaced(ctx context.Context, orderNumber string) error
}

// OrderService places orders and schedules their follow-up events.
type OrderService struct {
	orders    repository.OrderRepository
	scheduler OrderEventScheduler
	metrics   *metrics.Metrics
}

// NewOrderService wires the order service. scheduler may be nil.
func NewOrderService(orders repository.OrderRepository, scheduler OrderEventScheduler, m *metrics.Metrics) *OrderService {
	return &OrderService{
		orders:    orders,
		scheduler: scheduler,
		metrics:   m,
	}
}

// PlaceOrder assigns a fresh order number, stores the order with its line
// items and schedules the order:placed task. Scheduling errors are logged
// only: the order is already stored by then.
func (s *OrderService) PlaceOrder(ctx context.Context, req *model.PlaceOrderRequest) (*model.Order, error) {
	log := zerolog.Ctx(ctx)

	order := &model.Order{
		OrderNumber: uuid.NewString(),
		LineItems:   make([]model.OrderLineItem, 0, len(req.LineItems)),
	}
	for _, item := range req.LineItems {
		order.LineItems = append(order.LineItems, model.OrderLineItem{
			SKUCode:  item.SKUCode,
			Price:    item.Price,
			Quantity: item.Quantity,
		})
	}

	if err := s.orders.Save(ctx, order); err != nil {
		return nil, err
	}

	s.metrics.OrderPlaced()

	log.Info().
		Int64("order_id", order.ID).
		Str("order_number", order.OrderNumber).
		Int("line_items", len(order.LineItems)).
		Msg("order placed")

	if s.scheduler != nil {
		if err := s.scheduler.EnqueueOrderPlaced(ctx, order.OrderNumber); err != nil {
			log.Error().
				Err(err).
				Str("order_number", order.OrderNumber).
				Msg("failed to enqueue order placed task")
		}
	}

	return order, nil
}
