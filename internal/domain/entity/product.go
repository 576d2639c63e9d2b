package entity

import "time"

// Product product as shown on the detail screen
type Product struct {
	ID               string
	Name             string
	Description      string
	ImageURL         string
	GenericProductID string
	GenericProduct   *GenericProduct
	CreatedAt        time.Time
}

// GenericProduct classification shared by brand-specific products.
// Category is replaced as a whole value; empty means uncategorized.
type GenericProduct struct {
	ID       string
	Name     string
	Category string
}

// Category returns the generic product category, or "" when there is none
func (p Product) Category() string {
	if p.GenericProduct == nil {
		return ""
	}
	return p.GenericProduct.Category
}

// Categories offered by the category selector
var Categories = []string{
	"Produce",
	"Meat & Fish",
	"Dairy & Eggs",
	"Bakery",
	"Pantry",
	"Frozen",
	"Beverages",
	"Snacks",
	"Cleaning",
	"Personal Care",
	"Other",
}

// IsKnownCategory reports whether category is one of Categories
func IsKnownCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}
