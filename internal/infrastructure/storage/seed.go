package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yourusername/grocery-price-ledger/internal/domain/entity"
	"gopkg.in/yaml.v3"
)

// Fixture YAML seed document
type Fixture struct {
	Stores   []FixtureStore   `yaml:"stores"`
	Products []FixtureProduct `yaml:"products"`
	Prices   []FixturePrice   `yaml:"prices"`
}

// FixtureStore store entry of a fixture
type FixtureStore struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	Address string `yaml:"address"`
}

// FixtureProduct product entry of a fixture
type FixtureProduct struct {
	ID             string                 `yaml:"id"`
	Name           string                 `yaml:"name"`
	Description    string                 `yaml:"description"`
	ImageURL       string                 `yaml:"image_url"`
	GenericProduct *FixtureGenericProduct `yaml:"generic_product"`
}

// FixtureGenericProduct generic product of a fixture product
type FixtureGenericProduct struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Category string `yaml:"category"`
}

// FixturePrice price observation of a fixture
type FixturePrice struct {
	ProductID  string    `yaml:"product_id"`
	StoreID    string    `yaml:"store_id"`
	Amount     string    `yaml:"amount"`
	ObservedAt time.Time `yaml:"observed_at"`
}

// SeedReport counts of what Seed wrote
type SeedReport struct {
	Stores   int
	Products int
	Prices   int
}

// Seed decodes a YAML fixture and writes it through the data service ports.
// Prices get fresh IDs from the data service.
func Seed(ctx context.Context, r io.Reader, ds *DataService) (SeedReport, error) {
	var report SeedReport

	var fixture Fixture
	if err := yaml.NewDecoder(r).Decode(&fixture); err != nil {
		return report, fmt.Errorf("failed to decode fixture: %w", err)
	}

	for _, s := range fixture.Stores {
		store := entity.Store{ID: s.ID, Name: s.Name, Address: s.Address}
		if err := ds.Stores.SaveStore(ctx, store); err != nil {
			return report, fmt.Errorf("store %q: %w", s.ID, err)
		}
		report.Stores++
	}

	for _, p := range fixture.Products {
		product := entity.Product{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			ImageURL:    p.ImageURL,
			CreatedAt:   time.Now().UTC(),
		}
		if g := p.GenericProduct; g != nil {
			product.GenericProductID = g.ID
			product.GenericProduct = &entity.GenericProduct{ID: g.ID, Name: g.Name, Category: g.Category}
		}
		if err := ds.Products.SaveProduct(ctx, product); err != nil {
			return report, fmt.Errorf("product %q: %w", p.ID, err)
		}
		report.Products++
	}

	for i, p := range fixture.Prices {
		amount, err := decimal.NewFromString(p.Amount)
		if err != nil {
			return report, fmt.Errorf("price #%d: %w", i+1, err)
		}
		if amount.IsNegative() {
			return report, fmt.Errorf("price #%d: negative amount %s", i+1, amount)
		}
		record := entity.PriceRecord{
			ProductID:  p.ProductID,
			StoreID:    p.StoreID,
			Amount:     amount,
			ObservedAt: p.ObservedAt,
		}
		if _, err := ds.Prices.Create(ctx, record); err != nil {
			return report, fmt.Errorf("price #%d: %w", i+1, err)
		}
		report.Prices++
	}

	return report, nil
}
