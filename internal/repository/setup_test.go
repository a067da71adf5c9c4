package repository

import (
	"context"
	"testing"
	"time"

	"pricebench/internal/database"
	"pricebench/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB creates a PostgreSQL testcontainer with the service schema and
// returns a connection pool.
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	require.NoError(t, database.EnsureSchema(ctx, pool, zerolog.Nop()))

	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, cleanup
}

// seedCatalog inserts test customers and products through the catalog repository.
func seedCatalog(t *testing.T, pool *pgxpool.Pool, customers []model.Customer, products []model.Product) {
	repo := NewCatalogRepository(pool, zerolog.Nop())
	err := repo.Seed(context.Background(), model.CatalogSnapshot{Customers: customers, Products: products})
	require.NoError(t, err)
}

func testProducts() []model.Product {
	return []model.Product{
		{ID: 1, Name: "Product 1", Price: 15.00, Category: model.CategoryBooks, TaxRate: 0.0, Weight: 1.1},
		{ID: 2, Name: "Product 2", Price: 20.00, Category: model.CategoryClothing, TaxRate: 0.06, Weight: 1.2},
		{ID: 3, Name: "Product 3", Price: 25.00, Category: model.CategoryHome, TaxRate: 0.07, Weight: 1.3},
		{ID: 4, Name: "Product 4", Price: 30.00, Category: model.CategorySports, TaxRate: 0.05, Weight: 1.4},
		{ID: 5, Name: "Product 5", Price: 35.00, Category: model.CategoryElectronics, TaxRate: 0.08, Weight: 1.5},
	}
}
