package repository

import (
	"github.com/deppfellow/shop-microservices/internal/server"
)

// Repositories is a container for all repository instances.
//
// A service only gets the repositories whose store it is connected to:
// Orders when a PostgreSQL pool exists, Products when MongoDB does.
type Repositories struct {
	Orders   OrderRepository
	Products ProductRepository
}

// NewRepositories constructs the repository container from the stores
// initialized on the server.
func NewRepositories(s *server.Server) *Repositories {
	repos := &Repositories{}

	if s.DB != nil {
		repos.Orders = NewOrderRepository(s.DB.Pool)
	}

	if s.Mongo != nil {
		repos.Products = NewProductRepository(s.Mongo.DB)
	}

	return repos
}
