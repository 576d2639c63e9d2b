package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceRecord a single price observation of a product at a store.
// Records are immutable once created by the data service.
type PriceRecord struct {
	ID         string
	ProductID  string
	StoreID    string
	Amount     decimal.Decimal
	ObservedAt time.Time
	Store      *Store // joined by the data service when available
}

// IsSkipped reports the zero-amount sentinel: the user declined to report a price
func (r PriceRecord) IsSkipped() bool {
	return r.Amount.IsZero()
}

// StoreName joined store name, empty when the store was not joined
func (r PriceRecord) StoreName() string {
	if r.Store == nil {
		return ""
	}
	return r.Store.Name
}
