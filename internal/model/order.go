package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/deppfellow/shop-microservices/internal/validation"
)

// OrderPlacedMessage is returned to the client once an order is persisted.
const OrderPlacedMessage = "Order Placed Successfully"

// Order is owned by the order service and stored in PostgreSQL.
type Order struct {
	ID          int64           `json:"id"`
	OrderNumber string          `json:"orderNumber"`
	LineItems   []OrderLineItem `json:"orderLineItemsList"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// OrderLineItem is one SKU line of an order.
type OrderLineItem struct {
	ID       int64           `json:"id"`
	SKUCode  string          `json:"skuCode"`
	Price    decimal.Decimal `json:"price"`
	Quantity int32           `json:"quantity"`
}

// PlaceOrderRequest is the body of POST /api/order.
type PlaceOrderRequest struct {
	LineItems []OrderLineItemRequest `json:"orderLineItemsDtoList" validate:"dive"`
}

// OrderLineItemRequest is one line of a PlaceOrderRequest.
type OrderLineItemRequest struct {
	SKUCode  string          `json:"skuCode"`
	Price    decimal.Decimal `json:"price"`
	Quantity int32           `json:"quantity"`
}

// Validate implements validation.Validatable. Line item prices must fit
// order_line_items.price; nothing else is checked.
func (r *PlaceOrderRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}

	var failures validation.CustomValidationErrors
	for i, item := range r.LineItems {
		if msg := checkPrice(item.Price); msg != "" {
			failures = append(failures, validation.CustomValidationError{
				Field:   fmt.Sprintf("orderLineItemsDtoList[%d].price", i),
				Message: msg,
			})
		}
	}
	if len(failures) > 0 {
		return failures
	}
	return nil
}

// OrderPlacedEvent is published after an order is stored.
type OrderPlacedEvent struct {
	OrderNumber string `json:"orderNumber"`
}
