package repository

import (
	"context"

	"pricebench/internal/model"

	"github.com/google/uuid"
)

// CustomerRepository defines the interface for customer data access operations.
type CustomerRepository interface {
	// GetByID retrieves a single customer by its ID. Returns nil, nil when the
	// customer does not exist.
	GetByID(ctx context.Context, id int64) (*model.Customer, error)
}

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// GetAll retrieves all products with pagination support.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by its ID.
	GetByID(ctx context.Context, id int64) (*model.Product, error)

	// GetByIDs retrieves multiple products by their IDs. Unknown IDs are
	// silently absent from the result.
	GetByIDs(ctx context.Context, ids []int64) ([]model.Product, error)
}

// CatalogRepository manages bulk reference data.
type CatalogRepository interface {
	// Counts returns the number of stored customers and products.
	Counts(ctx context.Context) (customers, products int, err error)

	// Seed bulk-inserts a snapshot in a single transaction.
	Seed(ctx context.Context, snapshot model.CatalogSnapshot) error
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// Save inserts the order and its line items atomically.
	Save(ctx context.Context, order *model.Order) error

	// GetByID retrieves an order with its items. Returns nil, nil when the order
	// does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
}
