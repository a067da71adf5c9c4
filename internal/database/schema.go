package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const schema = `
	CREATE TABLE IF NOT EXISTS customers (
		id BIGINT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		tier TEXT NOT NULL,
		discount_rate DOUBLE PRECISION NOT NULL CHECK (discount_rate >= 0),
		credit_limit DOUBLE PRECISION NOT NULL,
		region TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS products (
		id BIGINT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		price DOUBLE PRECISION NOT NULL CHECK (price >= 0),
		category TEXT NOT NULL,
		tax_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
		weight DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (weight >= 0)
	);
	CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);

	CREATE TABLE IF NOT EXISTS orders (
		id UUID PRIMARY KEY,
		customer_id BIGINT NOT NULL,
		total_amount DOUBLE PRECISION NOT NULL,
		discount_amount DOUBLE PRECISION NOT NULL,
		tax_amount DOUBLE PRECISION NOT NULL,
		final_amount DOUBLE PRECISION NOT NULL,
		status TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_orders_customer_id ON orders(customer_id);
	CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at DESC);

	CREATE TABLE IF NOT EXISTS order_items (
		order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		line_no INT NOT NULL,
		product_id BIGINT NOT NULL,
		quantity INT NOT NULL CHECK (quantity BETWEEN 1 AND 100),
		PRIMARY KEY (order_id, line_no)
	);
`

// EnsureSchema creates the catalog and order tables when they do not exist.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		logger.Error().Err(err).Msg("failed to create schema")
		return fmt.Errorf("failed to create schema: %w", err)
	}

	logger.Debug().Msg("database schema ensured")
	return nil
}
