package storage

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/yourusername/grocery-price-ledger/internal/domain/entity"
	"github.com/yourusername/grocery-price-ledger/internal/domain/repository"
)

var errEmptyID = errors.New("id must not be empty")

type memoryStoreRepository struct {
	mu     sync.RWMutex
	stores map[string]entity.Store
}

// NewMemoryStoreRepository in-memory store repository
func NewMemoryStoreRepository() repository.StoreRepository {
	return &memoryStoreRepository{
		stores: make(map[string]entity.Store),
	}
}

func (m *memoryStoreRepository) SaveStore(ctx context.Context, store entity.Store) error {
	if strings.TrimSpace(store.ID) == "" {
		return repository.Upstream("save store", errEmptyID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.stores[store.ID] = store
	return nil
}

func (m *memoryStoreRepository) GetByID(ctx context.Context, id string) (*entity.Store, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	store, exists := m.stores[id]
	if !exists {
		return nil, repository.ErrNotFound
	}
	return &store, nil
}

func (m *memoryStoreRepository) GetAll(ctx context.Context) ([]entity.Store, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stores := make([]entity.Store, 0, len(m.stores))
	for _, store := range m.stores {
		stores = append(stores, store)
	}
	sort.Slice(stores, func(i, j int) bool {
		if stores[i].Name == stores[j].Name {
			return stores[i].ID < stores[j].ID
		}
		return stores[i].Name < stores[j].Name
	})
	return stores, nil
}
