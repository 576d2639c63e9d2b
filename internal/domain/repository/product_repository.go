package repository

import (
	"context"

	"github.com/yourusername/grocery-price-ledger/internal/domain/entity"
)

// ProductRepository product side of the external data service
type ProductRepository interface {
	// SaveProduct creates or replaces a product together with its generic product
	SaveProduct(ctx context.Context, product entity.Product) error

	// GetByID returns ErrNotFound when the product does not exist
	GetByID(ctx context.Context, id string) (*entity.Product, error)

	// UpdateGenericProductCategory replaces the category of a generic product
	UpdateGenericProductCategory(ctx context.Context, genericProductID, category string) error
}
