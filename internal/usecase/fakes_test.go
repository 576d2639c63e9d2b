package usecase

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yourusername/grocery-price-ledger/internal/domain/entity"
	"github.com/yourusername/grocery-price-ledger/internal/domain/repository"
)

func day(d int) time.Time {
	return time.Date(2024, 1, d, 12, 0, 0, 0, time.UTC)
}

func record(id, amount string, at time.Time) entity.PriceRecord {
	return entity.PriceRecord{
		ID:         id,
		ProductID:  "p1",
		StoreID:    "s1",
		Amount:     decimal.RequireFromString(amount),
		ObservedAt: at,
		Store:      &entity.Store{ID: "s1", Name: "Market A"},
	}
}

type fakePriceRepo struct {
	mu        sync.Mutex
	history   []entity.PriceRecord
	listErr   error
	createErr error
	// nilRecord makes Create succeed without a record
	nilRecord bool
	created   []entity.PriceRecord
	// release, when set, blocks Create until it is closed
	release chan struct{}
	entered chan struct{}
}

func (f *fakePriceRepo) ListByProduct(ctx context.Context, productID string) ([]entity.PriceRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]entity.PriceRecord, len(f.history))
	copy(out, f.history)
	return out, nil
}

func (f *fakePriceRepo) Create(ctx context.Context, r entity.PriceRecord) (*entity.PriceRecord, error) {
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.nilRecord {
		return nil, nil
	}
	r.ID = fmt.Sprintf("rec-%d", len(f.created)+1)
	r.Store = &entity.Store{ID: r.StoreID, Name: "Store " + r.StoreID}
	f.created = append(f.created, r)
	return &r, nil
}

type fakeProductRepo struct {
	mu        sync.Mutex
	product   *entity.Product
	getErr    error
	updateErr error
	updates   []string
	release   chan struct{}
	entered   chan struct{}
}

func (f *fakeProductRepo) SaveProduct(ctx context.Context, product entity.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.product = &product
	return nil
}

func (f *fakeProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.product == nil || f.product.ID != id {
		return nil, repository.ErrNotFound
	}
	p := *f.product
	return &p, nil
}

func (f *fakeProductRepo) UpdateGenericProductCategory(ctx context.Context, genericProductID, category string) error {
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates = append(f.updates, genericProductID+"="+category)
	return nil
}

type fakeStoreRepo struct {
	stores []entity.Store
	err    error
}

func (f *fakeStoreRepo) SaveStore(ctx context.Context, store entity.Store) error {
	f.stores = append(f.stores, store)
	return nil
}

func (f *fakeStoreRepo) GetByID(ctx context.Context, id string) (*entity.Store, error) {
	for _, s := range f.stores {
		if s.ID == id {
			s := s
			return &s, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeStoreRepo) GetAll(ctx context.Context) ([]entity.Store, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.stores, nil
}

type fakeSuggester struct {
	category string
	err      error
}

func (f *fakeSuggester) SuggestCategory(ctx context.Context, product entity.Product, allowed []string) (string, error) {
	return f.category, f.err
}

type fakeSheet struct {
	rows     []repository.SheetRow
	parseErr error
	exported []entity.PriceRecord
}

func (f *fakeSheet) Export(ctx context.Context, w io.Writer, product entity.Product, records []entity.PriceRecord) error {
	f.exported = records
	_, err := io.WriteString(w, product.Name)
	return err
}

func (f *fakeSheet) Parse(ctx context.Context, r io.Reader) ([]repository.SheetRow, error) {
	return f.rows, f.parseErr
}

type countingObserver struct {
	mu       sync.Mutex
	outcomes map[string]int
	loads    int
}

func newCountingObserver() *countingObserver {
	return &countingObserver{outcomes: make(map[string]int)}
}

func (o *countingObserver) ObserveSubmission(outcome string) {
	o.mu.Lock()
	o.outcomes[outcome]++
	o.mu.Unlock()
}

func (o *countingObserver) ObserveHistoryLoad() {
	o.mu.Lock()
	o.loads++
	o.mu.Unlock()
}
