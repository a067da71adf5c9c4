package catalog

import (
	"context"
	"fmt"

	"pricebench/internal/model"
	"pricebench/internal/repository"

	"github.com/rs/zerolog"
)

const seedCreditLimit = 10000.0

var (
	seedTiers      = []model.Tier{model.TierBronze, model.TierSilver, model.TierGold, model.TierPlatinum}
	seedRegions    = []model.Region{model.RegionUSEast, model.RegionUSWest, model.RegionEU, model.RegionAsia}
	seedCategories = []model.Category{
		model.CategoryElectronics,
		model.CategoryBooks,
		model.CategoryClothing,
		model.CategoryHome,
		model.CategorySports,
	}
)

// CategoryTaxRate is the tax rate generated reference products carry.
func CategoryTaxRate(category model.Category) float64 {
	switch category {
	case model.CategoryElectronics:
		return 0.08
	case model.CategoryBooks:
		return 0.0
	case model.CategoryClothing:
		return 0.06
	case model.CategoryHome:
		return 0.07
	default:
		return 0.05
	}
}

// Generate builds the reference catalog: customers 1..customers and
// products 1..products, with attributes cycling by ID.
func Generate(customers, products int) model.CatalogSnapshot {
	snapshot := model.CatalogSnapshot{
		Customers: make([]model.Customer, 0, customers),
		Products:  make([]model.Product, 0, products),
	}

	for i := 1; i <= customers; i++ {
		tier := seedTiers[i%len(seedTiers)]
		snapshot.Customers = append(snapshot.Customers, model.Customer{
			ID:           int64(i),
			Name:         fmt.Sprintf("Customer %d", i),
			Email:        fmt.Sprintf("customer%d@example.com", i),
			Tier:         tier,
			DiscountRate: tier.DiscountRate(),
			CreditLimit:  seedCreditLimit,
			Region:       seedRegions[i%len(seedRegions)],
		})
	}

	for i := 1; i <= products; i++ {
		category := seedCategories[i%len(seedCategories)]
		snapshot.Products = append(snapshot.Products, model.Product{
			ID:       int64(i),
			Name:     fmt.Sprintf("Product %d", i),
			Price:    10.0 + float64(i)*5.0,
			Category: category,
			TaxRate:  CategoryTaxRate(category),
			Weight:   1.0 + float64(i)*0.1,
		})
	}

	return snapshot
}

// EnsureSeeded writes the generated catalog when no customers are stored yet.
// It reports whether seeding happened.
func EnsureSeeded(ctx context.Context, repo repository.CatalogRepository, customers, products int, logger zerolog.Logger) (bool, error) {
	existing, _, err := repo.Counts(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to inspect catalog: %w", err)
	}

	if existing > 0 {
		logger.Debug().Int("customers", existing).Msg("catalog already populated, skipping seed")
		return false, nil
	}

	if err := repo.Seed(ctx, Generate(customers, products)); err != nil {
		return false, fmt.Errorf("failed to seed catalog: %w", err)
	}

	logger.Info().
		Int("customers", customers).
		Int("products", products).
		Msg("catalog seeded with reference data")

	return true, nil
}
