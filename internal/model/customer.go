package model

// Tier is a customer loyalty classification.
type Tier string

const (
	TierBronze   Tier = "BRONZE"
	TierSilver   Tier = "SILVER"
	TierGold     Tier = "GOLD"
	TierPlatinum Tier = "PLATINUM"
)

// DiscountRate returns the base discount fraction granted to the tier.
func (t Tier) DiscountRate() float64 {
	switch t {
	case TierBronze:
		return 0.05
	case TierSilver:
		return 0.10
	case TierGold:
		return 0.15
	case TierPlatinum:
		return 0.20
	default:
		return 0.0
	}
}

// Region is the geographic region a customer ships to.
type Region string

const (
	RegionUSEast Region = "US_EAST"
	RegionUSWest Region = "US_WEST"
	RegionEU     Region = "EU"
	RegionAsia   Region = "ASIA"
)

// Customer is read-only reference data resolved once per order.
type Customer struct {
	ID           int64   `json:"id" db:"id"`
	Name         string  `json:"name" db:"name"`
	Email        string  `json:"email" db:"email"`
	Tier         Tier    `json:"tier" db:"tier"`
	DiscountRate float64 `json:"discountRate" db:"discount_rate"`
	CreditLimit  float64 `json:"creditLimit" db:"credit_limit"`
	Region       Region  `json:"region" db:"region"`
}
