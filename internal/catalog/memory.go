package catalog

import (
	"context"
	"fmt"
	"sort"

	"pricebench/internal/model"
)

// MemoryCatalog serves a snapshot held in memory. It is read-only after
// construction and safe for concurrent use.
type MemoryCatalog struct {
	customers map[int64]model.Customer
	products  map[int64]model.Product
	ordered   []model.Product
}

// NewMemoryCatalog indexes snapshot. Duplicate IDs are rejected.
func NewMemoryCatalog(snapshot model.CatalogSnapshot) (*MemoryCatalog, error) {
	m := &MemoryCatalog{
		customers: make(map[int64]model.Customer, len(snapshot.Customers)),
		products:  make(map[int64]model.Product, len(snapshot.Products)),
		ordered:   make([]model.Product, 0, len(snapshot.Products)),
	}

	for _, c := range snapshot.Customers {
		if _, dup := m.customers[c.ID]; dup {
			return nil, fmt.Errorf("duplicate customer id %d", c.ID)
		}
		m.customers[c.ID] = c
	}

	for _, p := range snapshot.Products {
		if _, dup := m.products[p.ID]; dup {
			return nil, fmt.Errorf("duplicate product id %d", p.ID)
		}
		m.products[p.ID] = p
		m.ordered = append(m.ordered, p)
	}

	sort.Slice(m.ordered, func(i, j int) bool { return m.ordered[i].ID < m.ordered[j].ID })

	return m, nil
}

func (m *MemoryCatalog) GetCustomer(_ context.Context, id int64) (model.Customer, error) {
	c, ok := m.customers[id]
	if !ok {
		return model.Customer{}, &model.CustomerNotFoundError{CustomerID: id}
	}
	return c, nil
}

func (m *MemoryCatalog) GetProducts(_ context.Context, ids []int64) (map[int64]model.Product, error) {
	products := make(map[int64]model.Product, len(ids))
	for _, id := range ids {
		p, ok := m.products[id]
		if !ok {
			return nil, &model.ProductNotFoundError{ProductID: id}
		}
		products[id] = p
	}
	return products, nil
}

// GetAll pages through products ordered by ID.
func (m *MemoryCatalog) GetAll(_ context.Context, limit, offset int) ([]model.Product, error) {
	if offset >= len(m.ordered) || limit <= 0 {
		return []model.Product{}, nil
	}
	end := offset + limit
	if end > len(m.ordered) {
		end = len(m.ordered)
	}
	page := make([]model.Product, end-offset)
	copy(page, m.ordered[offset:end])
	return page, nil
}

// GetByID returns nil, nil for an unknown product.
func (m *MemoryCatalog) GetByID(_ context.Context, id int64) (*model.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// GetByIDs returns the known products among ids, ordered by ID.
func (m *MemoryCatalog) GetByIDs(_ context.Context, ids []int64) ([]model.Product, error) {
	seen := make(map[int64]struct{}, len(ids))
	products := []model.Product{}
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if p, ok := m.products[id]; ok {
			products = append(products, p)
		}
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products, nil
}

// Size reports the number of customers and products held.
func (m *MemoryCatalog) Size() (customers, products int) {
	return len(m.customers), len(m.products)
}
