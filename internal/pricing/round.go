package pricing

import "github.com/shopspring/decimal"

// Round rounds v to places decimal places, half away from zero. v is taken at
// its shortest decimal representation, so 2.675 becomes 2.68.
func Round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}
