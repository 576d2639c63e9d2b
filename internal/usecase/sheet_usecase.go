package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/yourusername/grocery-price-ledger/internal/domain/entity"
	"github.com/yourusername/grocery-price-ledger/internal/domain/repository"
	"go.uber.org/zap"
)

// SkippedRow an import row that was not submitted
type SkippedRow struct {
	Line   int
	Reason string
}

// ImportReport outcome of a sheet import
type ImportReport struct {
	Imported int
	Skipped  []SkippedRow
}

// SheetUseCase spreadsheet export and bulk price entry
type SheetUseCase interface {
	// Export writes the session ledger as a workbook
	Export(ctx context.Context, session *ProductSession, w io.Writer) error

	// Import submits every valid row through the price gateway
	Import(ctx context.Context, session *ProductSession, r io.Reader) (ImportReport, error)
}

type sheetUseCase struct {
	sheet  repository.PriceSheet
	prices PriceUseCase
	log    *zap.Logger
	now    func() time.Time
}

// NewSheetUseCase log may be nil
func NewSheetUseCase(sheet repository.PriceSheet, prices PriceUseCase, log *zap.Logger) SheetUseCase {
	if log == nil {
		log = zap.NewNop()
	}
	return &sheetUseCase{
		sheet:  sheet,
		prices: prices,
		log:    log,
		now:    time.Now,
	}
}

func (u *sheetUseCase) Export(ctx context.Context, session *ProductSession, w io.Writer) error {
	return u.sheet.Export(ctx, w, session.Product(), session.Ledger().Records())
}

// Import rows naming an unknown store or carrying an invalid price are reported
// and skipped; an upstream failure stops the import.
func (u *sheetUseCase) Import(ctx context.Context, session *ProductSession, r io.Reader) (ImportReport, error) {
	var report ImportReport

	rows, err := u.sheet.Parse(ctx, r)
	if err != nil {
		return report, err
	}

	if !session.beginSubmit() {
		return report, ErrSubmissionInFlight
	}
	defer session.endSubmit()

	storeIndex := indexStores(session.Stores())
	productID := session.ProductID()

	for _, row := range rows {
		storeID, ok := storeIndex[strings.ToLower(strings.TrimSpace(row.Store))]
		if !ok {
			report.Skipped = append(report.Skipped, SkippedRow{Line: row.Line, Reason: fmt.Sprintf("unknown store %q", row.Store)})
			continue
		}

		amount, err := ParseAmount(row.Price)
		if err != nil {
			report.Skipped = append(report.Skipped, SkippedRow{Line: row.Line, Reason: err.Error()})
			continue
		}

		observedAt := row.ObservedAt
		if observedAt.IsZero() {
			observedAt = u.now()
		}

		_, err = u.prices.SubmitAmount(ctx, session.Ledger(), productID, storeID, amount, observedAt)
		if errors.Is(err, repository.ErrNotFound) {
			report.Skipped = append(report.Skipped, SkippedRow{Line: row.Line, Reason: err.Error()})
			continue
		}
		if err != nil {
			return report, fmt.Errorf("row %d: %w", row.Line, err)
		}
		report.Imported++
	}

	u.log.Info("price sheet imported",
		zap.String("product_id", productID),
		zap.Int("imported", report.Imported),
		zap.Int("skipped", len(report.Skipped)))
	return report, nil
}

// indexStores maps lower-cased names and ids to store ids
func indexStores(stores []entity.Store) map[string]string {
	index := make(map[string]string, len(stores)*2)
	for _, s := range stores {
		index[strings.ToLower(s.Name)] = s.ID
	}
	for _, s := range stores {
		index[strings.ToLower(s.ID)] = s.ID
	}
	return index
}
