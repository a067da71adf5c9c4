package model

// Category groups products for volume discounts.
type Category string

const (
	CategoryElectronics Category = "ELECTRONICS"
	CategoryBooks       Category = "BOOKS"
	CategoryClothing    Category = "CLOTHING"
	CategoryHome        Category = "HOME"
	CategorySports      Category = "SPORTS"
)

// Product represents an item in the catalogue.
type Product struct {
	ID       int64    `json:"id" db:"id"`
	Name     string   `json:"name" db:"name"`
	Price    float64  `json:"price" db:"price"`
	Category Category `json:"category" db:"category"`
	TaxRate  float64  `json:"taxRate" db:"tax_rate"`
	Weight   float64  `json:"weight" db:"weight"`
}

// CatalogSnapshot is a complete set of reference data held in memory.
type CatalogSnapshot struct {
	Customers []Customer
	Products  []Product
}
