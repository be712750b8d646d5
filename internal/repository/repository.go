// Package repository handles all interactions with the datastores.
//
// Each entity gets its own explicit data-access interface. The order
// repository runs raw SQL against PostgreSQL through pgx; the product
// repository talks to a MongoDB collection through the official driver.
package repository

import (
	"context"
	"errors"

	"github.com/deppfellow/shop-microservices/internal/model"
)

//go:generate mockgen -destination=mocks/mock_repository.go -package=mocks github.com/deppfellow/shop-microservices/internal/repository OrderRepository,ProductRepository

// ErrNotFound is matched by errors.Is on every "no such record" error
// returned from this package, whichever store produced it.
var ErrNotFound = errors.New("record not found")

// OrderRepository persists orders in the relational store, keyed by a
// store-generated numeric id.
type OrderRepository interface {
	// Save inserts the order and its line items, filling in generated ids
	// and CreatedAt.
	Save(ctx context.Context, order *model.Order) error
	FindByID(ctx context.Context, id int64) (*model.Order, error)
	FindAll(ctx context.Context) ([]model.Order, error)
	// Update replaces the order header and all of its line items.
	Update(ctx context.Context, order *model.Order) error
	DeleteByID(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

// ProductRepository persists products in the document store, keyed by a
// store-generated string id.
type ProductRepository interface {
	// Save inserts the product and fills in its generated id.
	Save(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, id string) (*model.Product, error)
	FindAll(ctx context.Context) ([]model.Product, error)
	Update(ctx context.Context, product *model.Product) error
	DeleteByID(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}
