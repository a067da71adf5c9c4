package catalog

import (
	"context"
	"fmt"

	"pricebench/internal/model"
	"pricebench/internal/repository"
)

// repositoryLookup adapts the PostgreSQL repositories to Lookup.
type repositoryLookup struct {
	customers repository.CustomerRepository
	products  repository.ProductRepository
}

// NewRepositoryLookup creates a Lookup backed by the customer and product
// repositories.
func NewRepositoryLookup(customers repository.CustomerRepository, products repository.ProductRepository) Lookup {
	return &repositoryLookup{customers: customers, products: products}
}

func (l *repositoryLookup) GetCustomer(ctx context.Context, id int64) (model.Customer, error) {
	c, err := l.customers.GetByID(ctx, id)
	if err != nil {
		return model.Customer{}, fmt.Errorf("failed to get customer: %w", err)
	}
	if c == nil {
		return model.Customer{}, &model.CustomerNotFoundError{CustomerID: id}
	}
	return *c, nil
}

func (l *repositoryLookup) GetProducts(ctx context.Context, ids []int64) (map[int64]model.Product, error) {
	list, err := l.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	products := make(map[int64]model.Product, len(list))
	for _, p := range list {
		products[p.ID] = p
	}

	if id, missing := firstMissing(ids, products); missing {
		return nil, &model.ProductNotFoundError{ProductID: id}
	}
	return products, nil
}
