package catalog

import (
	"context"
	"errors"
	"testing"

	"pricebench/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRepositoryLookup_GetCustomer(t *testing.T) {
	tests := []struct {
		name        string
		setupMock   func(*MockCustomerRepository)
		expectedErr string
		notFound    bool
	}{
		{
			name: "Found",
			setupMock: func(m *MockCustomerRepository) {
				m.On("GetByID", mock.Anything, int64(5)).
					Return(&model.Customer{ID: 5, Tier: model.TierSilver}, nil)
			},
		},
		{
			name: "Not found",
			setupMock: func(m *MockCustomerRepository) {
				m.On("GetByID", mock.Anything, int64(5)).Return(nil, nil)
			},
			notFound: true,
		},
		{
			name: "Repository error",
			setupMock: func(m *MockCustomerRepository) {
				m.On("GetByID", mock.Anything, int64(5)).Return(nil, errors.New("connection refused"))
			},
			expectedErr: "failed to get customer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			customers := new(MockCustomerRepository)
			tt.setupMock(customers)

			lookup := NewRepositoryLookup(customers, new(MockProductRepository))
			c, err := lookup.GetCustomer(context.Background(), 5)

			switch {
			case tt.notFound:
				var notFound *model.CustomerNotFoundError
				require.True(t, errors.As(err, &notFound))
				assert.Equal(t, int64(5), notFound.CustomerID)
			case tt.expectedErr != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedErr)
			default:
				require.NoError(t, err)
				assert.Equal(t, model.TierSilver, c.Tier)
			}

			customers.AssertExpectations(t)
		})
	}
}

func TestRepositoryLookup_GetProducts(t *testing.T) {
	products := new(MockProductRepository)
	products.On("GetByIDs", mock.Anything, []int64{3, 1, 3}).
		Return([]model.Product{{ID: 1, Price: 15}, {ID: 3, Price: 25}}, nil).Once()
	products.On("GetByIDs", mock.Anything, []int64{1, 8, 9}).
		Return([]model.Product{{ID: 1, Price: 15}}, nil).Once()
	products.On("GetByIDs", mock.Anything, []int64{2}).
		Return(nil, errors.New("timeout")).Once()

	lookup := NewRepositoryLookup(new(MockCustomerRepository), products)
	ctx := context.Background()

	got, err := lookup.GetProducts(ctx, []int64{3, 1, 3})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, 25.0, got[3].Price)

	_, err = lookup.GetProducts(ctx, []int64{1, 8, 9})
	var notFound *model.ProductNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, int64(8), notFound.ProductID)

	_, err = lookup.GetProducts(ctx, []int64{2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get products")

	products.AssertExpectations(t)
}
