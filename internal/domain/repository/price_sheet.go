package repository

import (
	"context"
	"io"
	"time"

	"github.com/yourusername/grocery-price-ledger/internal/domain/entity"
)

// SheetRow one parsed spreadsheet row, price kept raw for the sanitization boundary
type SheetRow struct {
	Line       int
	Store      string
	Price      string
	ObservedAt time.Time // zero when the row has no date
}

// PriceSheet spreadsheet import/export of a price history
type PriceSheet interface {
	// Export writes the records of product as a workbook
	Export(ctx context.Context, w io.Writer, product entity.Product, records []entity.PriceRecord) error

	// Parse reads price rows from a workbook
	Parse(ctx context.Context, r io.Reader) ([]SheetRow, error)
}
