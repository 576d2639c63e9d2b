package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/yourusername/grocery-price-ledger/internal/domain/entity"
	"github.com/yourusername/grocery-price-ledger/internal/domain/repository"
)

type memoryPriceRepository struct {
	mu       sync.RWMutex
	records  map[string][]entity.PriceRecord // key: product ID, insertion order
	stores   repository.StoreRepository
	products repository.ProductRepository
}

// NewMemoryPriceRepository in-memory price history. Stores and products are looked
// up on Create to mimic the foreign keys of the real data service.
func NewMemoryPriceRepository(stores repository.StoreRepository, products repository.ProductRepository) repository.PriceRepository {
	return &memoryPriceRepository{
		records:  make(map[string][]entity.PriceRecord),
		stores:   stores,
		products: products,
	}
}

// ListByProduct newest observation first
func (m *memoryPriceRepository) ListByProduct(ctx context.Context, productID string) ([]entity.PriceRecord, error) {
	m.mu.RLock()
	stored := m.records[productID]
	records := make([]entity.PriceRecord, len(stored))
	copy(records, stored)
	m.mu.RUnlock()

	for i := range records {
		store, err := m.stores.GetByID(ctx, records[i].StoreID)
		if err == nil {
			records[i].Store = store
		}
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].ObservedAt.After(records[j].ObservedAt)
	})
	return records, nil
}

// Create stores a copy with a fresh ID and the store joined
func (m *memoryPriceRepository) Create(ctx context.Context, record entity.PriceRecord) (*entity.PriceRecord, error) {
	if _, err := m.products.GetByID(ctx, record.ProductID); err != nil {
		return nil, err
	}
	store, err := m.stores.GetByID(ctx, record.StoreID)
	if err != nil {
		return nil, err
	}

	record.ID = uuid.New().String()
	record.Store = nil

	m.mu.Lock()
	m.records[record.ProductID] = append(m.records[record.ProductID], record)
	m.mu.Unlock()

	record.Store = store
	return &record, nil
}
