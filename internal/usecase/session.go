package usecase

import (
	"sync"

	"github.com/yourusername/grocery-price-ledger/internal/domain/entity"
)

// ProductSession state of one open product detail view. A new session is opened
// when the user switches product, so each ledger only ever holds one product.
type ProductSession struct {
	mu               sync.Mutex
	product          entity.Product
	stores           []entity.Store
	selectedCategory string
	ledger           *Ledger
	submitting       bool
	saving           bool
}

func newProductSession(product entity.Product, stores []entity.Store, ledger *Ledger) *ProductSession {
	return &ProductSession{
		product:          product,
		stores:           stores,
		selectedCategory: product.Category(),
		ledger:           ledger,
	}
}

// ProductID id of the open product
func (s *ProductSession) ProductID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.product.ID
}

// Product copy of the open product
func (s *ProductSession) Product() entity.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	product := s.product
	if product.GenericProduct != nil {
		generic := *product.GenericProduct
		product.GenericProduct = &generic
	}
	return product
}

// Stores stores known when the session was opened
func (s *ProductSession) Stores() []entity.Store {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]entity.Store, len(s.stores))
	copy(out, s.stores)
	return out
}

// Ledger price history of the open product
func (s *ProductSession) Ledger() *Ledger {
	return s.ledger
}

// SelectedCategory category picked but not necessarily saved
func (s *ProductSession) SelectedCategory() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedCategory
}

// SelectCategory picks a category; SaveCategory persists it
func (s *ProductSession) SelectCategory(category string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedCategory = category
}

// Submitting reports whether a price submission is pending
func (s *ProductSession) Submitting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitting
}

// Saving reports whether a category save is pending
func (s *ProductSession) Saving() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saving
}

func (s *ProductSession) beginSubmit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitting {
		return false
	}
	s.submitting = true
	return true
}

func (s *ProductSession) endSubmit() {
	s.mu.Lock()
	s.submitting = false
	s.mu.Unlock()
}

func (s *ProductSession) beginSave() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saving {
		return false
	}
	s.saving = true
	return true
}

func (s *ProductSession) endSave() {
	s.mu.Lock()
	s.saving = false
	s.mu.Unlock()
}

func (s *ProductSession) applyCategory(category string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.product.GenericProduct != nil {
		generic := *s.product.GenericProduct
		generic.Category = category
		s.product.GenericProduct = &generic
	}
}

func (s *ProductSession) setStores(stores []entity.Store) {
	s.mu.Lock()
	s.stores = stores
	s.mu.Unlock()
}
