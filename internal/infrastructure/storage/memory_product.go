package storage

import (
	"context"
	"strings"
	"sync"

	"github.com/yourusername/grocery-price-ledger/internal/domain/entity"
	"github.com/yourusername/grocery-price-ledger/internal/domain/repository"
)

type memoryProductRepository struct {
	mu       sync.RWMutex
	products map[string]entity.Product        // key: product ID
	generics map[string]entity.GenericProduct // key: generic product ID
}

// NewMemoryProductRepository in-memory product repository
func NewMemoryProductRepository() repository.ProductRepository {
	return &memoryProductRepository{
		products: make(map[string]entity.Product),
		generics: make(map[string]entity.GenericProduct),
	}
}

// SaveProduct stores the product; the generic product is kept separately so that
// several products can share one category
func (m *memoryProductRepository) SaveProduct(ctx context.Context, product entity.Product) error {
	if strings.TrimSpace(product.ID) == "" {
		return repository.Upstream("save product", errEmptyID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if product.GenericProduct != nil {
		generic := *product.GenericProduct
		if generic.ID == "" {
			generic.ID = product.GenericProductID
		}
		if generic.ID == "" {
			return repository.Upstream("save product", errEmptyID)
		}
		product.GenericProductID = generic.ID
		m.generics[generic.ID] = generic
	}
	product.GenericProduct = nil
	m.products[product.ID] = product
	return nil
}

// GetByID product with its generic product joined
func (m *memoryProductRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	product, exists := m.products[id]
	if !exists {
		return nil, repository.ErrNotFound
	}
	if generic, ok := m.generics[product.GenericProductID]; ok {
		product.GenericProduct = &generic
	}
	return &product, nil
}

// UpdateGenericProductCategory replaces the category value
func (m *memoryProductRepository) UpdateGenericProductCategory(ctx context.Context, genericProductID, category string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	generic, exists := m.generics[genericProductID]
	if !exists {
		return repository.ErrNotFound
	}
	generic.Category = category
	m.generics[genericProductID] = generic
	return nil
}
