package service

import (
	"github.com/deppfellow/shop-microservices/internal/repository"
	"github.com/deppfellow/shop-microservices/internal/server"
)

// Services groups the business services of a running binary. A service
// is nil when its repository is not configured in this binary.
type Services struct {
	Orders   *OrderService
	Products *ProductService
}

// NewServices builds a service for every repository in repos.
func NewServices(s *server.Server, repos *repository.Repositories) *Services {
	services := &Services{}

	if repos.Orders != nil {
		// Assign only a non-nil *JobService so the interface stays nil otherwise.
		var scheduler OrderEventScheduler
		if s.Job != nil {
			scheduler = s.Job
		}
		services.Orders = NewOrderService(repos.Orders, scheduler, s.Metrics)
	}

	if repos.Products != nil {
		services.Products = NewProductService(repos.Products, s.Metrics)
	}

	return services
}
