package service

import (
	"context"
	"errors"
	"fmt"

	"pricebench/internal/catalog"
	"pricebench/internal/model"
	"pricebench/internal/repository"

	"github.com/rs/zerolog"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// productService implements ProductService.
type productService struct {
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewProductService creates a new product service. productRepo may be the
// Postgres repository or an in-memory snapshot.
func NewProductService(productRepo repository.ProductRepository, logger zerolog.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

// GetAll retrieves products with pagination. limit is clamped to
// [1, maxPageSize] and a negative offset is treated as zero.
func (s *productService) GetAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	products, err := s.productRepo.GetAll(ctx, limit, offset)
	if err != nil {
		s.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to get all products")
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	s.logger.Debug().
		Int("count", len(products)).
		Int("limit", limit).
		Int("offset", offset).
		Msg("retrieved products")

	return products, nil
}

// GetByID retrieves a single product by ID.
func (s *productService) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("product_id", id).Msg("failed to get product by ID")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if product == nil {
		s.logger.Debug().Int64("product_id", id).Msg("product not found")
		return nil, &model.ProductNotFoundError{ProductID: id}
	}

	return product, nil
}

// customerService implements CustomerService on top of a catalog lookup.
type customerService struct {
	catalog catalog.Lookup
	logger  zerolog.Logger
}

// NewCustomerService creates a new customer service.
func NewCustomerService(lookup catalog.Lookup, logger zerolog.Logger) CustomerService {
	return &customerService{
		catalog: lookup,
		logger:  logger.With().Str("service", "customer").Logger(),
	}
}

func (s *customerService) GetByID(ctx context.Context, id int64) (*model.Customer, error) {
	customer, err := s.catalog.GetCustomer(ctx, id)
	if err != nil {
		var notFound *model.CustomerNotFoundError
		if errors.As(err, &notFound) {
			return nil, err
		}
		s.logger.Error().Err(err).Int64("customer_id", id).Msg("failed to get customer")
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return &customer, nil
}
