package usecase

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/yourusername/grocery-price-ledger/internal/domain/repository"
)

func newSheetFixture(t *testing.T, rows []repository.SheetRow) (*productFixture, *sheetUseCase, *fakeSheet) {
	t.Helper()
	f := newProductFixture(t, nil)
	sheet := &fakeSheet{rows: rows}
	uc := NewSheetUseCase(sheet, NewPriceUseCase(f.prices, nil, nil), nil).(*sheetUseCase)
	uc.now = func() time.Time { return day(9) }
	return f, uc, sheet
}

func TestImportSubmitsRows(t *testing.T) {
	rows := []repository.SheetRow{
		{Line: 2, Store: "Market A", Price: "4,10", ObservedAt: day(4)},
		{Line: 3, Store: "s2", Price: "R$ 3.99"},
		{Line: 4, Store: "Unknown Mart", Price: "1,00", ObservedAt: day(4)},
		{Line: 5, Store: "market b", Price: "n/a", ObservedAt: day(4)},
		{Line: 6, Store: "MARKET B", Price: "0", ObservedAt: day(5)},
	}
	f, uc, _ := newSheetFixture(t, rows)
	session := f.open(t)

	report, err := uc.Import(context.Background(), session, strings.NewReader("ignored"))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	if report.Imported != 3 {
		t.Errorf("imported = %d, want 3", report.Imported)
	}
	if len(report.Skipped) != 2 || report.Skipped[0].Line != 4 || report.Skipped[1].Line != 5 {
		t.Errorf("unexpected skipped rows %+v", report.Skipped)
	}
	if session.Ledger().Len() != 6 {
		t.Errorf("ledger length = %d, want 6", session.Ledger().Len())
	}

	created := f.prices.created
	if created[0].StoreID != "s1" || created[0].Amount.StringFixed(2) != "4.10" {
		t.Errorf("unexpected first record %+v", created[0])
	}
	if !created[1].ObservedAt.Equal(day(9)) {
		t.Errorf("row without a date should use the import time, got %v", created[1].ObservedAt)
	}
	if !created[2].IsSkipped() || created[2].StoreID != "s2" {
		t.Errorf("zero price should import as a skip at s2, got %+v", created[2])
	}
}

func TestImportStopsOnUpstreamFailure(t *testing.T) {
	rows := []repository.SheetRow{
		{Line: 2, Store: "Market A", Price: "4,10", ObservedAt: day(4)},
	}
	f, uc, _ := newSheetFixture(t, rows)
	session := f.open(t)
	f.prices.createErr = repository.Upstream("create price", errors.New("disk full"))

	report, err := uc.Import(context.Background(), session, strings.NewReader(""))
	var upstream *repository.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if report.Imported != 0 || session.Ledger().Len() != 3 {
		t.Errorf("failed import changed state: imported=%d len=%d", report.Imported, session.Ledger().Len())
	}
	if session.Submitting() {
		t.Error("submitting flag left set")
	}
}

func TestImportParseError(t *testing.T) {
	f, uc, sheet := newSheetFixture(t, nil)
	sheet.parseErr = errors.New("not a workbook")
	session := f.open(t)

	if _, err := uc.Import(context.Background(), session, strings.NewReader("")); err == nil {
		t.Fatal("expected the parse error")
	}
	if session.Ledger().Len() != 3 {
		t.Errorf("ledger length = %d, want 3", session.Ledger().Len())
	}
}

func TestExportWritesLedger(t *testing.T) {
	f, uc, sheet := newSheetFixture(t, nil)
	session := f.open(t)

	var buf bytes.Buffer
	if err := uc.Export(context.Background(), session, &buf); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if buf.String() != "Arroz 5kg" {
		t.Errorf("unexpected output %q", buf.String())
	}
	if len(sheet.exported) != 3 {
		t.Errorf("exported %d records, want 3", len(sheet.exported))
	}
}
