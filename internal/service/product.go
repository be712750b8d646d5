package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/deppfellow/shop-microservices/internal/metrics"
	"github.com/deppfellow/shop-microservices/internal/model"
	"github.com/deppfellow/shop-microservices/internal/repository"
)

// ProductService creates and lists catalog products.
type ProductService struct {
	products repository.ProductRepository
	metrics  *metrics.Metrics
}

// NewProductService returns a ProductService. m may be nil.
func NewProductService(products repository.ProductRepository, m *metrics.Metrics) *ProductService {
	return &ProductService{products: products, metrics: m}
}

// CreateProduct stores a new product. Each call creates a new record, even
// for an identical payload.
func (s *ProductService) CreateProduct(ctx context.Context, req *model.ProductRequest) (*model.Product, error) {
	product := &model.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
	}

	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}

	s.metrics.ProductCreated()

	zerolog.Ctx(ctx).Info().
		Str("product_id", product.ID).
		Msg("Product " + product.ID + " is saved")

	return product, nil
}

// ListProducts returns all stored products; never nil.
func (s *ProductService) ListProducts(ctx context.Context) ([]model.ProductResponse, error) {
	products, err := s.products.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]model.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, p.ToResponse())
	}
	return out, nil
}
