package repository

import (
	"context"

	"github.com/yourusername/grocery-price-ledger/internal/domain/entity"
)

// CategorySuggester proposes a category for a product
type CategorySuggester interface {
	// SuggestCategory returns one of the allowed categories
	SuggestCategory(ctx context.Context, product entity.Product, allowed []string) (string, error)
}
