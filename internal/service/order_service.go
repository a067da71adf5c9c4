package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"pricebench/internal/catalog"
	"pricebench/internal/metrics"
	"pricebench/internal/model"
	"pricebench/internal/pricing"
	"pricebench/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Orders from this region above this total need manual verification.
const (
	verificationRegion    = model.RegionEU
	verificationThreshold = 1000.0
)

const outcomeConfirmed = "confirmed"

// orderService implements OrderService.
type orderService struct {
	validator *OrderValidator
	catalog   catalog.Lookup
	orderRepo repository.OrderRepository
	clock     Clock
	metrics   *metrics.Metrics
	logger    zerolog.Logger
}

// NewOrderService creates a new order service. A nil clock uses time.Now and
// a nil metrics records nothing.
func NewOrderService(
	lookup catalog.Lookup,
	orderRepo repository.OrderRepository,
	clock Clock,
	m *metrics.Metrics,
	logger zerolog.Logger,
) OrderService {
	if clock == nil {
		clock = time.Now
	}
	return &orderService{
		validator: NewOrderValidator(),
		catalog:   lookup,
		orderRepo: orderRepo,
		clock:     clock,
		metrics:   m,
		logger:    logger.With().Str("service", "order").Logger(),
	}
}

// ProcessOrder runs one order through the pipeline. Nothing is persisted
// unless every step succeeds.
func (s *orderService) ProcessOrder(ctx context.Context, req *model.OrderRequest) (result *model.OrderResult, err error) {
	start := time.Now()
	defer func() {
		final := 0.0
		if result != nil {
			final = result.Calculation.FinalAmount
		}
		s.metrics.ObserveOrder(outcome(err), final, time.Since(start))
	}()

	customerID, items, err := s.validator.Validate(req)
	if err != nil {
		s.logger.Debug().Err(err).Msg("order rejected by validation")
		return nil, err
	}

	customer, err := s.catalog.GetCustomer(ctx, customerID)
	if err != nil {
		s.logFailure(err, customerID, "failed to get customer")
		return nil, err
	}

	products, err := s.catalog.GetProducts(ctx, productIDs(items))
	if err != nil {
		s.logFailure(err, customerID, "failed to get products")
		return nil, err
	}

	now := s.clock()
	calc, err := pricing.Calculate(customer, items, products, now)
	if err != nil {
		s.logFailure(err, customerID, "failed to price order")
		return nil, err
	}

	if err := checkOrder(customer, calc); err != nil {
		s.logger.Info().
			Err(err).
			Int64("customer_id", customerID).
			Float64("total_amount", calc.TotalAmount).
			Float64("final_amount", calc.FinalAmount).
			Msg("order rejected")
		return nil, err
	}

	order := &model.Order{
		ID:             uuid.New(),
		CustomerID:     customer.ID,
		TotalAmount:    calc.TotalAmount,
		DiscountAmount: calc.DiscountAmount,
		TaxAmount:      calc.TaxAmount,
		FinalAmount:    calc.FinalAmount,
		Status:         model.OrderStatusConfirmed,
		Items:          items,
		CreatedAt:      now.UTC(),
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to save order")
		return nil, &model.PersistenceError{Op: "save order", Err: err}
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Int64("customer_id", customer.ID).
		Int("item_count", len(items)).
		Float64("final_amount", calc.FinalAmount).
		Msg("order confirmed")

	return &model.OrderResult{
		OrderID:     order.ID,
		CustomerID:  customer.ID,
		Calculation: calc,
	}, nil
}

// checkOrder applies the post-pricing rules in order: credit limit first,
// then regional verification.
func checkOrder(customer model.Customer, calc model.OrderCalculation) error {
	if calc.FinalAmount > customer.CreditLimit {
		return &model.CreditLimitExceededError{
			CustomerID:  customer.ID,
			FinalAmount: calc.FinalAmount,
			CreditLimit: customer.CreditLimit,
		}
	}

	if customer.Region == verificationRegion && calc.TotalAmount > verificationThreshold {
		return &model.RegionalVerificationRequiredError{
			Region:      customer.Region,
			TotalAmount: calc.TotalAmount,
			Threshold:   verificationThreshold,
		}
	}

	return nil
}

// GetByID retrieves an order by its ID.
func (s *orderService) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, &model.PersistenceError{Op: "get order", Err: err}
	}

	if order == nil {
		s.logger.Debug().Str("order_id", id.String()).Msg("order not found")
		return nil, &model.OrderNotFoundError{OrderID: id}
	}

	return order, nil
}

func (s *orderService) logFailure(err error, customerID int64, msg string) {
	var domainErr model.DomainError
	if errors.As(err, &domainErr) {
		s.logger.Debug().Err(err).Int64("customer_id", customerID).Msg(msg)
		return
	}
	s.logger.Error().Err(err).Int64("customer_id", customerID).Msg(msg)
}

func productIDs(items []model.OrderLineItem) []int64 {
	ids := make([]int64, len(items))
	for i, item := range items {
		ids[i] = item.ProductID
	}
	return ids
}

// outcome is the metrics label for err.
func outcome(err error) string {
	if err == nil {
		return outcomeConfirmed
	}
	var domainErr model.DomainError
	if errors.As(err, &domainErr) {
		return strings.ToLower(domainErr.Code())
	}
	return strings.ToLower(model.ErrCodeInternalError)
}
