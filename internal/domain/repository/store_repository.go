package repository

import (
	"context"

	"github.com/yourusername/grocery-price-ledger/internal/domain/entity"
)

// StoreRepository read-mostly store reference data
type StoreRepository interface {
	// SaveStore creates or replaces a store (seeding only)
	SaveStore(ctx context.Context, store entity.Store) error

	// GetByID returns ErrNotFound when the store does not exist
	GetByID(ctx context.Context, id string) (*entity.Store, error)

	// GetAll every known store, ordered by name
	GetAll(ctx context.Context) ([]entity.Store, error)
}
