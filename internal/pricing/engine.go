// Package pricing computes the monetary breakdown of an order.
//
// Everything here is a pure function of its arguments. The only time
// dependency, the seasonal discount, reads the date passed in by the caller.
package pricing

import (
	"math"
	"time"

	"pricebench/internal/model"
)

const (
	weightRate       = 0.5
	halfShippingOver = 100.0
	freeShippingOver = 500.0
	seasonalRateCap  = 0.25
	flashSaleEvery   = 30
)

// Breakdown holds every intermediate amount of a calculation, unrounded.
type Breakdown struct {
	TotalAmount      float64
	TotalWeight      float64
	TierDiscount     float64
	VolumeDiscount   float64
	SeasonalDiscount float64
	LoyaltyBonus     float64
	ShippingCost     float64
	TaxAmount        float64
}

// DiscountAmount is the sum of all discount components.
func (b Breakdown) DiscountAmount() float64 {
	return b.TierDiscount + b.VolumeDiscount + b.SeasonalDiscount + b.LoyaltyBonus
}

// FinalAmount is total minus discounts plus shipping and tax.
func (b Breakdown) FinalAmount() float64 {
	return b.TotalAmount - b.DiscountAmount() + b.ShippingCost + b.TaxAmount
}

// Calculation rounds each reported field to cents. Intermediate values stay
// unrounded until this point.
func (b Breakdown) Calculation() model.OrderCalculation {
	return model.OrderCalculation{
		TotalAmount:    Round(b.TotalAmount, 2),
		DiscountAmount: Round(b.DiscountAmount(), 2),
		TaxAmount:      Round(b.TaxAmount, 2),
		FinalAmount:    Round(b.FinalAmount(), 2),
	}
}

// Calculate prices an order. Every product referenced by items must be
// present in products; the first one missing is reported as a
// *model.ProductNotFoundError.
func Calculate(
	customer model.Customer,
	items []model.OrderLineItem,
	products map[int64]model.Product,
	now time.Time,
) (model.OrderCalculation, error) {
	b, err := Compute(customer, items, products, now)
	if err != nil {
		return model.OrderCalculation{}, err
	}
	return b.Calculation(), nil
}

// Compute returns the unrounded breakdown behind Calculate.
func Compute(
	customer model.Customer,
	items []model.OrderLineItem,
	products map[int64]model.Product,
	now time.Time,
) (Breakdown, error) {
	var b Breakdown

	// Categories are kept in first-seen order so the volume discount sum is
	// accumulated identically on every call.
	var categories []model.Category
	quantities := make(map[model.Category]int)

	for _, item := range items {
		product, ok := products[item.ProductID]
		if !ok {
			return Breakdown{}, &model.ProductNotFoundError{ProductID: item.ProductID}
		}

		qty := float64(item.Quantity)
		b.TotalAmount += product.Price * qty
		b.TotalWeight += product.Weight * qty

		if _, seen := quantities[product.Category]; !seen {
			categories = append(categories, product.Category)
		}
		quantities[product.Category] += item.Quantity
	}

	b.TierDiscount = b.TotalAmount * customer.DiscountRate

	for _, category := range categories {
		b.VolumeDiscount += b.TotalAmount * VolumeDiscountRate(category, quantities[category])
	}

	b.SeasonalDiscount = b.TotalAmount * SeasonalRate(now, customer.Region)
	b.ShippingCost = ShippingCost(b.TotalWeight, customer.Region, b.TotalAmount)
	b.TaxAmount = Tax(items, products, customer.Region)
	b.LoyaltyBonus = LoyaltyBonus(customer.ID, customer.Tier, b.TotalAmount)

	return b, nil
}

// VolumeDiscountRate returns the fraction of the order total granted for
// buying quantity units of a single category.
func VolumeDiscountRate(category model.Category, quantity int) float64 {
	switch category {
	case model.CategoryElectronics:
		switch {
		case quantity >= 10:
			return 0.05
		case quantity >= 5:
			return 0.02
		}
	case model.CategoryBooks:
		switch {
		case quantity >= 20:
			return 0.10
		case quantity >= 10:
			return 0.05
		}
	case model.CategoryClothing:
		if quantity >= 15 {
			return 0.08
		}
	}
	return 0.0
}

// SeasonalRate returns the promotional discount fraction in effect on the
// given date for the region, capped at 25%.
func SeasonalRate(now time.Time, region model.Region) float64 {
	rate := 0.0

	month := now.Month()
	if month == time.November || month == time.December {
		rate += 0.15
	}

	if month >= time.June && month <= time.August {
		switch region {
		case model.RegionUSEast, model.RegionUSWest:
			rate += 0.10
		case model.RegionEU:
			rate += 0.08
		case model.RegionAsia:
			rate += 0.12
		default:
			rate += 0.05
		}
	}

	// Flash sale
	if now.YearDay()%flashSaleEvery == 0 {
		rate += 0.05
	}

	return math.Min(rate, seasonalRateCap)
}

// BaseShippingRate is the flat shipping charge for a region.
func BaseShippingRate(region model.Region) float64 {
	switch region {
	case model.RegionUSEast:
		return 5.99
	case model.RegionUSWest:
		return 7.99
	case model.RegionEU:
		return 9.99
	case model.RegionAsia:
		return 12.99
	default:
		return 8.99
	}
}

// RegionHash is the sum of the character codes of the region name.
func RegionHash(region model.Region) int {
	sum := 0
	for _, r := range string(region) {
		sum += int(r)
	}
	return sum
}

// DistanceMultiplier is the per-region shipping scale, 1 + 0.2*sin(hash).
// The formula must stay exactly as is; stored orders were priced with it.
func DistanceMultiplier(region model.Region) float64 {
	return 1.0 + math.Sin(float64(RegionHash(region)))*0.2
}

// ShippingCost prices shipping for totalWeight to region. Orders over 100 pay
// half, orders over 500 ship free.
func ShippingCost(totalWeight float64, region model.Region, orderValue float64) float64 {
	cost := (BaseShippingRate(region) + totalWeight*weightRate) * DistanceMultiplier(region)

	if orderValue > halfShippingOver {
		cost *= 0.5
	}
	if orderValue > freeShippingOver {
		cost = 0.0
	}

	return math.Max(cost, 0.0)
}

// RegionalTaxMultiplier scales product tax rates per region.
func RegionalTaxMultiplier(region model.Region) float64 {
	switch region {
	case model.RegionUSWest:
		return 0.9
	case model.RegionEU:
		return 1.2
	case model.RegionAsia:
		return 0.8
	default:
		return 1.0
	}
}

// Tax sums price*quantity*taxRate over the items, scaled by the regional
// multiplier. Items whose product is missing contribute nothing; Compute
// rejects them before this is reached.
func Tax(items []model.OrderLineItem, products map[int64]model.Product, region model.Region) float64 {
	multiplier := RegionalTaxMultiplier(region)

	total := 0.0
	for _, item := range items {
		product, ok := products[item.ProductID]
		if !ok {
			continue
		}
		total += product.Price * float64(item.Quantity) * product.TaxRate * multiplier
	}
	return total
}

// LoyaltyScore derives a 0-99 score from the customer id.
func LoyaltyScore(customerID int64) int64 {
	score := (customerID*31 + 17) % 100
	if score < 0 {
		score += 100
	}
	return score
}

// LoyaltyMultiplier scales the loyalty bonus per tier.
func LoyaltyMultiplier(tier model.Tier) float64 {
	switch tier {
	case model.TierSilver:
		return 1.5
	case model.TierGold:
		return 2.0
	case model.TierPlatinum:
		return 3.0
	default:
		return 1.0
	}
}

// LoyaltyBonus is totalAmount * (score/1000) * tier multiplier.
func LoyaltyBonus(customerID int64, tier model.Tier, totalAmount float64) float64 {
	rate := (float64(LoyaltyScore(customerID)) / 1000.0) * LoyaltyMultiplier(tier)
	return totalAmount * rate
}
