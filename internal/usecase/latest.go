package usecase

import "github.com/yourusername/grocery-price-ledger/internal/domain/entity"

// LatestPrice returns the record with the maximum ObservedAt, ok=false for no records.
// Input order is irrelevant except on ties, where the first maximal record wins.
// Skipped (zero) records take part; use WithoutSkipped to leave them out.
func LatestPrice(records []entity.PriceRecord) (entity.PriceRecord, bool) {
	if len(records) == 0 {
		return entity.PriceRecord{}, false
	}

	latest := records[0]
	for _, current := range records[1:] {
		if current.ObservedAt.After(latest.ObservedAt) {
			latest = current
		}
	}
	return latest, true
}

// WithoutSkipped filters out zero-amount records
func WithoutSkipped(records []entity.PriceRecord) []entity.PriceRecord {
	out := make([]entity.PriceRecord, 0, len(records))
	for _, r := range records {
		if !r.IsSkipped() {
			out = append(out, r)
		}
	}
	return out
}
