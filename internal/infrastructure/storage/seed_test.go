package storage

import (
	"context"
	"strings"
	"testing"
)

const seedFixture = `
stores:
  - id: s1
    name: Market A
products:
  - id: p1
    name: Leite 1L
    generic_product:
      id: g1
      name: Leite
      category: Dairy & Eggs
prices:
  - product_id: p1
    store_id: s1
    amount: "6.49"
    observed_at: 2024-02-01T08:30:00Z
  - product_id: p1
    store_id: s1
    amount: "0"
    observed_at: 2024-02-02T08:30:00Z
`

func TestSeed(t *testing.T) {
	ds := NewMemoryDataService()
	ctx := context.Background()

	report, err := Seed(ctx, strings.NewReader(seedFixture), ds)
	if err != nil {
		t.Fatalf("Seed failed: %v", err)
	}
	if report.Stores != 1 || report.Products != 1 || report.Prices != 2 {
		t.Errorf("unexpected report %+v", report)
	}

	product, err := ds.Products.GetByID(ctx, "p1")
	if err != nil {
		t.Fatal(err)
	}
	if product.Category() != "Dairy & Eggs" {
		t.Errorf("category = %q", product.Category())
	}

	records, _ := ds.Prices.ListByProduct(ctx, "p1")
	if len(records) != 2 || !records[0].IsSkipped() || records[1].Amount.StringFixed(2) != "6.49" {
		t.Errorf("unexpected records %+v", records)
	}
}

func TestSeedRejectsBadPrices(t *testing.T) {
	tests := []struct {
		name   string
		amount string
	}{
		{name: "negative", amount: `"-1"`},
		{name: "not a number", amount: `"cheap"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := strings.Replace(seedFixture, `"6.49"`, tt.amount, 1)
			report, err := Seed(context.Background(), strings.NewReader(doc), NewMemoryDataService())
			if err == nil {
				t.Fatal("expected an error")
			}
			if report.Prices != 0 {
				t.Errorf("prices = %d, want 0", report.Prices)
			}
		})
	}
}

func TestSeedUnknownStore(t *testing.T) {
	doc := strings.Replace(seedFixture, "store_id: s1\n    amount: \"0\"", "store_id: s9\n    amount: \"0\"", 1)
	report, err := Seed(context.Background(), strings.NewReader(doc), NewMemoryDataService())
	if err == nil || !strings.Contains(err.Error(), "price #2") {
		t.Fatalf("expected a price #2 error, got %v", err)
	}
	if report.Prices != 1 {
		t.Errorf("prices = %d, want 1", report.Prices)
	}
}
