package repository

import (
	"context"

	"github.com/yourusername/grocery-price-ledger/internal/domain/entity"
)

// PriceRepository price history side of the external data service
type PriceRepository interface {
	// ListByProduct price history of a product with stores joined.
	// Callers must not rely on the order of the result.
	ListByProduct(ctx context.Context, productID string) ([]entity.PriceRecord, error)

	// Create assigns an ID, joins the store and returns the stored record.
	// Unknown product or store yields ErrNotFound.
	Create(ctx context.Context, record entity.PriceRecord) (*entity.PriceRecord, error)
}
