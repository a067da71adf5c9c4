package repository

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductRepository_GetAll(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewProductRepository(pool, zerolog.Nop())
	seedCatalog(t, pool, nil, testProducts())

	tests := []struct {
		name     string
		limit    int
		offset   int
		expected int
	}{
		{
			name:     "Get all products",
			limit:    10,
			offset:   0,
			expected: 5,
		},
		{
			name:     "Get first page",
			limit:    2,
			offset:   0,
			expected: 2,
		},
		{
			name:     "Get second page",
			limit:    2,
			offset:   2,
			expected: 2,
		},
		{
			name:     "Get last page",
			limit:    2,
			offset:   4,
			expected: 1,
		},
		{
			name:     "Offset beyond results",
			limit:    10,
			offset:   10,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products, err := repo.GetAll(context.Background(), tt.limit, tt.offset)

			require.NoError(t, err)
			assert.Len(t, products, tt.expected)

			for i := 1; i < len(products); i++ {
				assert.Less(t, products[i-1].ID, products[i].ID)
			}
		})
	}
}

func TestProductRepository_GetByID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewProductRepository(pool, zerolog.Nop())
	products := testProducts()
	seedCatalog(t, pool, nil, products)

	tests := []struct {
		name      string
		id        int64
		expectNil bool
	}{
		{
			name:      "Product exists",
			id:        3,
			expectNil: false,
		},
		{
			name:      "Product does not exist",
			id:        999,
			expectNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			product, err := repo.GetByID(context.Background(), tt.id)

			require.NoError(t, err)

			if tt.expectNil {
				assert.Nil(t, product)
			} else {
				require.NotNil(t, product)
				assert.Equal(t, products[2], *product)
			}
		})
	}
}

func TestProductRepository_GetByIDs(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewProductRepository(pool, zerolog.Nop())
	seedCatalog(t, pool, nil, testProducts())

	tests := []struct {
		name     string
		ids      []int64
		expected int
	}{
		{
			name:     "Get multiple products",
			ids:      []int64{1, 2, 3},
			expected: 3,
		},
		{
			name:     "Duplicate IDs collapse",
			ids:      []int64{1, 1, 3},
			expected: 2,
		},
		{
			name:     "Some products do not exist",
			ids:      []int64{1, 999},
			expected: 1,
		},
		{
			name:     "No products exist",
			ids:      []int64{998, 999},
			expected: 0,
		},
		{
			name:     "Empty ID list",
			ids:      []int64{},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products, err := repo.GetByIDs(context.Background(), tt.ids)

			require.NoError(t, err)
			assert.Len(t, products, tt.expected)
		})
	}
}

func TestProductRepository_ErrorPaths(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewProductRepository(pool, zerolog.Nop())
	seedCatalog(t, pool, nil, testProducts())

	// Close the pool to simulate database errors
	pool.Close()

	t.Run("GetAll with closed pool", func(t *testing.T) {
		products, err := repo.GetAll(context.Background(), 10, 0)

		require.Error(t, err)
		assert.Nil(t, products)
	})

	t.Run("GetByID with closed pool", func(t *testing.T) {
		product, err := repo.GetByID(context.Background(), 1)

		require.Error(t, err)
		assert.Nil(t, product)
	})

	t.Run("GetByIDs with closed pool", func(t *testing.T) {
		products, err := repo.GetByIDs(context.Background(), []int64{1})

		require.Error(t, err)
		assert.Nil(t, products)
	})
}
