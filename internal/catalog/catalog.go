// Package catalog resolves the customers and products an order is priced
// against, from PostgreSQL or from an in-memory snapshot, optionally behind a
// Redis cache.
package catalog

import (
	"context"

	"pricebench/internal/model"
)

// Lookup resolves reference data for one order.
type Lookup interface {
	// GetCustomer returns the customer or a *model.CustomerNotFoundError.
	GetCustomer(ctx context.Context, id int64) (model.Customer, error)

	// GetProducts returns every requested product keyed by ID. When any ID is
	// unknown it returns a *model.ProductNotFoundError naming the first one in
	// request order.
	GetProducts(ctx context.Context, ids []int64) (map[int64]model.Product, error)
}

// Loader reads a catalog snapshot from a path or object key.
type Loader interface {
	Load(ctx context.Context, path string) (*model.CatalogSnapshot, error)
}

// firstMissing returns the first id absent from products.
func firstMissing(ids []int64, products map[int64]model.Product) (int64, bool) {
	for _, id := range ids {
		if _, ok := products[id]; !ok {
			return id, true
		}
	}
	return 0, false
}
