package usecase

import (
	"sync"

	"github.com/yourusername/grocery-price-ledger/internal/domain/entity"
)

// Ledger in-memory price history of the currently open product.
// It does no validation; callers guarantee what they put in.
type Ledger struct {
	mu      sync.RWMutex
	records []entity.PriceRecord
}

// NewLedger empty ledger
func NewLedger() *Ledger {
	return &Ledger{}
}

// Load replaces the whole sequence; input order is kept as given
func (l *Ledger) Load(records []entity.PriceRecord) {
	next := make([]entity.PriceRecord, len(records))
	copy(next, records)

	l.mu.Lock()
	l.records = next
	l.mu.Unlock()
}

// Prepend inserts record at the front
func (l *Ledger) Prepend(record entity.PriceRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()

	next := make([]entity.PriceRecord, 0, len(l.records)+1)
	next = append(next, record)
	l.records = append(next, l.records...)
}

// Records copy of the current sequence
func (l *Ledger) Records() []entity.PriceRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]entity.PriceRecord, len(l.records))
	copy(out, l.records)
	return out
}

// Len number of records
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}

// Front first record by position, which is the last submission after Prepend
func (l *Ledger) Front() (entity.PriceRecord, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if len(l.records) == 0 {
		return entity.PriceRecord{}, false
	}
	return l.records[0], true
}

// Latest record with the greatest observation time
func (l *Ledger) Latest() (entity.PriceRecord, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return LatestPrice(l.records)
}
