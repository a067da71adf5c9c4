package service

import (
	"context"
	"errors"
	"testing"

	"pricebench/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductService_GetAll(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	testProducts := []model.Product{
		{ID: 1, Name: "Product 1", Price: 15, Category: model.CategoryBooks, Weight: 1.1},
		{ID: 2, Name: "Product 2", Price: 20, Category: model.CategoryClothing, TaxRate: 0.06, Weight: 1.2},
	}

	tests := []struct {
		name           string
		limit          int
		offset         int
		expectedLimit  int
		expectedOffset int
		mockReturn     []model.Product
		mockError      error
		expectError    bool
	}{
		{
			name:          "Success with valid pagination",
			limit:         10,
			expectedLimit: 10,
			mockReturn:    testProducts,
		},
		{
			name:          "Zero limit defaults to 10",
			limit:         0,
			expectedLimit: 10,
			mockReturn:    testProducts,
		},
		{
			name:          "Negative limit defaults to 10",
			limit:         -5,
			expectedLimit: 10,
			mockReturn:    testProducts,
		},
		{
			name:          "Limit exceeding max caps at 100",
			limit:         200,
			expectedLimit: 100,
			mockReturn:    testProducts,
		},
		{
			name:           "Negative offset defaults to 0",
			limit:          10,
			offset:         -10,
			expectedLimit:  10,
			expectedOffset: 0,
			mockReturn:     testProducts,
		},
		{
			name:           "Offset passed through",
			limit:          5,
			offset:         20,
			expectedLimit:  5,
			expectedOffset: 20,
			mockReturn:     []model.Product{},
		},
		{
			name:          "Repository error",
			limit:         10,
			expectedLimit: 10,
			mockError:     errors.New("database error"),
			expectError:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockProductRepository)
			service := NewProductService(mockRepo, logger)

			mockRepo.On("GetAll", ctx, tt.expectedLimit, tt.expectedOffset).
				Return(tt.mockReturn, tt.mockError)

			products, err := service.GetAll(ctx, tt.limit, tt.offset)

			if tt.expectError {
				require.Error(t, err)
				assert.Nil(t, products)
				assert.Contains(t, err.Error(), "failed to get products")
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.mockReturn, products)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestProductService_GetByID(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	testProduct := &model.Product{ID: 1, Name: "Product 1", Price: 15, Category: model.CategoryBooks, Weight: 1.1}

	tests := []struct {
		name        string
		productID   int64
		mockReturn  *model.Product
		mockError   error
		expectError bool
		notFound    bool
	}{
		{
			name:       "Success",
			productID:  1,
			mockReturn: testProduct,
		},
		{
			name:        "Product not found",
			productID:   999,
			expectError: true,
			notFound:    true,
		},
		{
			name:        "Repository error",
			productID:   1,
			mockError:   errors.New("database error"),
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockProductRepository)
			service := NewProductService(mockRepo, logger)

			if tt.mockReturn != nil {
				mockRepo.On("GetByID", ctx, tt.productID).Return(tt.mockReturn, tt.mockError)
			} else {
				mockRepo.On("GetByID", ctx, tt.productID).Return(nil, tt.mockError)
			}

			product, err := service.GetByID(ctx, tt.productID)

			if tt.expectError {
				require.Error(t, err)
				assert.Nil(t, product)
				var notFound *model.ProductNotFoundError
				assert.Equal(t, tt.notFound, errors.As(err, &notFound))
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.mockReturn, product)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestCustomerService_GetByID(t *testing.T) {
	ctx := context.Background()
	customer := model.Customer{ID: 1, Name: "Customer 1", Tier: model.TierSilver, Region: model.RegionUSWest}

	tests := []struct {
		name        string
		mockReturn  model.Customer
		mockError   error
		expectError string
		notFound    bool
	}{
		{
			name:       "Found",
			mockReturn: customer,
		},
		{
			name:      "Not found passes through",
			mockError: &model.CustomerNotFoundError{CustomerID: 1},
			notFound:  true,
		},
		{
			name:        "Catalog error is wrapped",
			mockError:   errors.New("connection refused"),
			expectError: "failed to get customer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lookup := new(MockLookup)
			lookup.On("GetCustomer", ctx, int64(1)).Return(tt.mockReturn, tt.mockError)
			service := NewCustomerService(lookup, zerolog.Nop())

			got, err := service.GetByID(ctx, 1)

			switch {
			case tt.notFound:
				var notFound *model.CustomerNotFoundError
				require.True(t, errors.As(err, &notFound))
				assert.Nil(t, got)
			case tt.expectError != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectError)
				assert.Nil(t, got)
			default:
				require.NoError(t, err)
				assert.Equal(t, customer, *got)
			}

			lookup.AssertExpectations(t)
		})
	}
}
