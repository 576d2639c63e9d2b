package parser

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"github.com/yourusername/grocery-price-ledger/internal/domain/entity"
	"github.com/yourusername/grocery-price-ledger/internal/domain/repository"
	"go.uber.org/zap"
)

const priceSheetName = "Prices"

var sheetHeader = []interface{}{"Store", "Price", "Date", "Skipped"}

// accepted date cells, most specific first
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
}

type excelPriceSheet struct {
	log *zap.Logger
}

// NewExcelPriceSheet xlsx price history import/export
func NewExcelPriceSheet(log *zap.Logger) repository.PriceSheet {
	if log == nil {
		log = zap.NewNop()
	}
	return &excelPriceSheet{log: log}
}

// Export one row per record in ledger order, dates in RFC 3339 UTC
func (e *excelPriceSheet) Export(ctx context.Context, w io.Writer, product entity.Product, records []entity.PriceRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", priceSheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetDocProps(&excelize.DocProperties{Title: product.Name, Subject: product.ID}); err != nil {
		return fmt.Errorf("failed to set document properties: %w", err)
	}

	if err := f.SetSheetRow(priceSheetName, "A1", &sheetHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, record := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			record.StoreName(),
			record.Amount.InexactFloat64(),
			record.ObservedAt.UTC().Format(time.RFC3339),
			record.IsSkipped(),
		}
		if err := f.SetSheetRow(priceSheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// Parse reads the first sheet. The first row is a header when its second cell is
// not a price and at least one column name is recognised; without one the
// columns are store, price, date.
func (e *excelPriceSheet) Parse(ctx context.Context, r io.Reader) ([]repository.SheetRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("excel file has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("excel file is empty")
	}

	columns := map[string]int{"store": 0, "price": 1, "date": 2}
	startRow := 0
	if !looksLikePrice(cellAt(rows[0], 1)) {
		if mapped, ok := mapColumns(rows[0]); ok {
			columns = mapped
			startRow = 1
		}
	}
	e.log.Debug("price sheet columns", zap.Any("columns", columns), zap.Int("rows", len(rows)))

	var out []repository.SheetRow
	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		parsed := repository.SheetRow{
			Line:  i + 1,
			Store: strings.TrimSpace(cellAt(row, columns["store"])),
			Price: strings.TrimSpace(cellAt(row, columns["price"])),
		}
		if col, ok := columns["date"]; ok {
			raw := strings.TrimSpace(cellAt(row, col))
			if raw != "" {
				at, err := parseDate(raw)
				if err != nil {
					e.log.Warn("unreadable date, using submission time", zap.Int("line", i+1), zap.String("value", raw))
				}
				parsed.ObservedAt = at
			}
		}
		out = append(out, parsed)
	}

	return out, nil
}

// mapColumns header row to column indexes, false when no column name is known
func mapColumns(header []string) (map[string]int, bool) {
	columns := make(map[string]int)

	for i, col := range header {
		name := strings.ToLower(strings.TrimSpace(col))
		switch {
		case contains(name, "store", "loja", "market", "mercado", "shop"):
			setOnce(columns, "store", i)
		case contains(name, "price", "preço", "preco", "valor", "amount"):
			setOnce(columns, "price", i)
		case contains(name, "date", "data", "observed", "when"):
			setOnce(columns, "date", i)
		}
	}

	matched := len(columns) > 0
	setOnce(columns, "store", 0)
	setOnce(columns, "price", 1)
	return columns, matched
}

func setOnce(columns map[string]int, key string, idx int) {
	if _, ok := columns[key]; !ok {
		columns[key] = idx
	}
}

func contains(str string, keywords ...string) bool {
	for _, keyword := range keywords {
		if strings.Contains(str, keyword) {
			return true
		}
	}
	return false
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// looksLikePrice applies the price field's input rule: currency symbols and
// spaces are dropped, the first comma is the decimal separator
func looksLikePrice(cell string) bool {
	cell = strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' {
			return r
		}
		return -1
	}, cell)
	if cell == "" {
		return false
	}
	cell = strings.Replace(cell, ",", ".", 1)
	_, err := strconv.ParseFloat(cell, 64)
	return err == nil
}

// parseDate text layouts first, then an Excel serial number
func parseDate(raw string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	if serial, err := strconv.ParseFloat(raw, 64); err == nil {
		return excelize.ExcelDateToTime(serial, false)
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", raw)
}
