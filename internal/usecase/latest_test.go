package usecase

import (
	"math/rand"
	"testing"
	"time"

	"github.com/yourusername/grocery-price-ledger/internal/domain/entity"
)

func TestLatestPriceScenario(t *testing.T) {
	records := []entity.PriceRecord{
		record("a", "5.00", day(1)),
		record("b", "4.50", day(3)),
		record("c", "6.00", day(2)),
	}

	latest, ok := LatestPrice(records)
	if !ok {
		t.Fatal("expected a latest record")
	}
	if latest.ID != "b" || latest.Amount.StringFixed(2) != "4.50" {
		t.Errorf("got %s %s, want b 4.50", latest.ID, latest.Amount.StringFixed(2))
	}
}

func TestLatestPriceEmpty(t *testing.T) {
	if _, ok := LatestPrice(nil); ok {
		t.Error("nil input must resolve to none")
	}
	if _, ok := LatestPrice([]entity.PriceRecord{}); ok {
		t.Error("empty input must resolve to none")
	}
}

func TestLatestPriceIsMaximal(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for n := 1; n <= 20; n++ {
		records := make([]entity.PriceRecord, n)
		for i := range records {
			records[i] = record("r", "1.00", base.Add(time.Duration(rng.Intn(72))*time.Hour))
		}

		latest, ok := LatestPrice(records)
		if !ok {
			t.Fatalf("n=%d: expected a record", n)
		}
		for _, r := range records {
			if r.ObservedAt.After(latest.ObservedAt) {
				t.Fatalf("n=%d: %v is after resolved %v", n, r.ObservedAt, latest.ObservedAt)
			}
		}
	}
}

func TestLatestPriceOrderIndependent(t *testing.T) {
	records := []entity.PriceRecord{
		record("a", "5.00", day(1)),
		record("b", "4.50", day(3)),
		record("c", "6.00", day(2)),
		record("d", "0", day(2)),
	}

	want, _ := LatestPrice(records)
	permute(records, 0, func(p []entity.PriceRecord) {
		got, _ := LatestPrice(p)
		if !got.ObservedAt.Equal(want.ObservedAt) || !got.Amount.Equal(want.Amount) {
			t.Errorf("permutation %v resolved %s@%v, want %s@%v",
				ids(p), got.Amount, got.ObservedAt, want.Amount, want.ObservedAt)
		}
	})
}

func TestLatestPriceTieFirstWins(t *testing.T) {
	records := []entity.PriceRecord{
		record("a", "1.00", day(1)),
		record("b", "2.00", day(5)),
		record("c", "3.00", day(5)),
	}

	for i := 0; i < 3; i++ {
		got, _ := LatestPrice(records)
		if got.ID != "b" {
			t.Fatalf("tie resolved to %q, want first maximal b", got.ID)
		}
	}
}

func TestLatestPriceIncludesSkipped(t *testing.T) {
	records := []entity.PriceRecord{
		record("paid", "4.50", day(1)),
		record("skipped", "0", day(2)),
	}

	got, _ := LatestPrice(records)
	if got.ID != "skipped" {
		t.Errorf("got %q, skipped records take part in resolution", got.ID)
	}

	got, _ = LatestPrice(WithoutSkipped(records))
	if got.ID != "paid" {
		t.Errorf("got %q after filtering, want paid", got.ID)
	}
}

func permute(records []entity.PriceRecord, k int, visit func([]entity.PriceRecord)) {
	if k == len(records) {
		visit(records)
		return
	}
	for i := k; i < len(records); i++ {
		records[k], records[i] = records[i], records[k]
		permute(records, k+1, visit)
		records[k], records[i] = records[i], records[k]
	}
}

func ids(records []entity.PriceRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}
