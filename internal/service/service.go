package service

import (
	"context"
	"time"

	"pricebench/internal/model"

	"github.com/google/uuid"
)

// Clock supplies the current time to the pricing engine.
type Clock func() time.Time

// OrderService prices, checks and records orders.
type OrderService interface {
	// ProcessOrder validates req, prices it against the catalog, applies the
	// credit and regional checks and persists the confirmed order.
	ProcessOrder(ctx context.Context, req *model.OrderRequest) (*model.OrderResult, error)

	// GetByID retrieves a stored order with its line items.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
}

// ProductService defines read operations on the product catalog.
type ProductService interface {
	// GetAll retrieves products ordered by ID with pagination.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id int64) (*model.Product, error)
}

// CustomerService defines read operations on customers.
type CustomerService interface {
	GetByID(ctx context.Context, id int64) (*model.Customer, error)
}
