package model

import (
	"github.com/shopspring/decimal"

	"github.com/deppfellow/shop-microservices/internal/validation"
)

// Product is owned by the product service and stored in MongoDB.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
}

// ProductRequest is the body of POST /api/product.
type ProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

// Validate implements validation.Validatable. Only the price is bounded so
// it fits the document store.
func (r *ProductRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	if msg := checkPrice(r.Price); msg != "" {
		return validation.CustomValidationErrors{{Field: "price", Message: msg}}
	}
	return nil
}

// ProductResponse is one element of GET /api/product.
type ProductResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

// ListProductsRequest is the (empty) input of GET /api/product.
type ListProductsRequest struct{}

// Validate implements validation.Validatable.
func (r *ListProductsRequest) Validate() error {
	return nil
}

// ToResponse maps a stored product onto its wire shape.
func (p Product) ToResponse() ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
	}
}
