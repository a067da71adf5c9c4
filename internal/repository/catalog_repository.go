package repository

import (
	"context"
	"fmt"

	"pricebench/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// catalogRepository implements CatalogRepository using PostgreSQL COPY.
type catalogRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCatalogRepository creates a new PostgreSQL-backed catalog repository.
func NewCatalogRepository(pool *pgxpool.Pool, logger zerolog.Logger) CatalogRepository {
	return &catalogRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "catalog").Logger(),
	}
}

func (r *catalogRepository) Counts(ctx context.Context) (int, int, error) {
	query := `SELECT (SELECT COUNT(*) FROM customers), (SELECT COUNT(*) FROM products)`

	var customers, products int
	if err := r.pool.QueryRow(ctx, query).Scan(&customers, &products); err != nil {
		r.logger.Error().Err(err).Msg("failed to count catalog rows")
		return 0, 0, fmt.Errorf("failed to count catalog rows: %w", err)
	}

	return customers, products, nil
}

func (r *catalogRepository) Seed(ctx context.Context, snapshot model.CatalogSnapshot) (err error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				r.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	customerRows := make([][]any, len(snapshot.Customers))
	for i, c := range snapshot.Customers {
		customerRows[i] = []any{c.ID, c.Name, c.Email, string(c.Tier), c.DiscountRate, c.CreditLimit, string(c.Region)}
	}

	if _, err = tx.CopyFrom(ctx,
		pgx.Identifier{"customers"},
		[]string{"id", "name", "email", "tier", "discount_rate", "credit_limit", "region"},
		pgx.CopyFromRows(customerRows),
	); err != nil {
		r.logger.Error().Err(err).Int("count", len(customerRows)).Msg("failed to copy customers")
		return fmt.Errorf("failed to copy customers: %w", err)
	}

	productRows := make([][]any, len(snapshot.Products))
	for i, p := range snapshot.Products {
		productRows[i] = []any{p.ID, p.Name, p.Price, string(p.Category), p.TaxRate, p.Weight}
	}

	if _, err = tx.CopyFrom(ctx,
		pgx.Identifier{"products"},
		[]string{"id", "name", "price", "category", "tax_rate", "weight"},
		pgx.CopyFromRows(productRows),
	); err != nil {
		r.logger.Error().Err(err).Int("count", len(productRows)).Msg("failed to copy products")
		return fmt.Errorf("failed to copy products: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		r.logger.Error().Err(err).Msg("failed to commit transaction")
		return fmt.Errorf("failed to commit catalog seed: %w", err)
	}

	r.logger.Info().
		Int("customers", len(customerRows)).
		Int("products", len(productRows)).
		Msg("catalog seeded")

	return nil
}
