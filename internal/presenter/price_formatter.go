// Package presenter renders ledger data as user-facing text.
package presenter

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yourusername/grocery-price-ledger/internal/domain/entity"
	"golang.org/x/text/language"
)

type localeFormat struct {
	symbol       string
	symbolSpace  bool
	decimalSep   string
	groupSep     string
	dateLayout   string
	productLabel string
	priceLabel   string
	dateJoiner   string
	unknownStore string
	shareSuffix  string
}

var supportedTags = []language.Tag{
	language.BrazilianPortuguese,
	language.AmericanEnglish,
}

// indexed like supportedTags
var localeFormats = []localeFormat{
	{
		symbol:       "R$",
		symbolSpace:  true,
		decimalSep:   ",",
		groupSep:     ".",
		dateLayout:   "02/01/2006",
		productLabel: "Produto",
		priceLabel:   "Preço",
		dateJoiner:   "em",
		unknownStore: "Loja desconhecida",
		shareSuffix:  "Compartilhado do meu app de Lista de Supermercado",
	},
	{
		symbol:       "$",
		decimalSep:   ".",
		groupSep:     ",",
		dateLayout:   "1/2/2006",
		productLabel: "Product",
		priceLabel:   "Price",
		dateJoiner:   "on",
		unknownStore: "Unknown store",
		shareSuffix:  "Shared from my Grocery List app",
	},
}

var localeMatcher = language.NewMatcher(supportedTags)

// PriceFormatter renders prices, dates and share text for one locale.
// Output depends only on its input and the formatter's settings.
type PriceFormatter struct {
	tag    language.Tag
	format localeFormat
	loc    *time.Location
}

// NewPriceFormatter resolves locale against the supported locales. An empty
// shareSuffix keeps the locale's default attribution; a nil loc means UTC.
func NewPriceFormatter(locale string, loc *time.Location, shareSuffix string) (*PriceFormatter, error) {
	requested, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", locale, err)
	}

	_, index, confidence := localeMatcher.Match(requested)
	if confidence == language.No {
		return nil, fmt.Errorf("unsupported locale %q", locale)
	}

	format := localeFormats[index]
	if shareSuffix != "" {
		format.shareSuffix = shareSuffix
	}
	if loc == nil {
		loc = time.UTC
	}

	return &PriceFormatter{
		tag:    supportedTags[index],
		format: format,
		loc:    loc,
	}, nil
}

// Locale the matched locale tag
func (f *PriceFormatter) Locale() string {
	return f.tag.String()
}

// Currency two decimals, grouped thousands, currency symbol first
func (f *PriceFormatter) Currency(amount decimal.Decimal) string {
	fixed := amount.Abs().StringFixed(2)
	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if amount.Round(2).IsNegative() {
		b.WriteString("-")
	}
	b.WriteString(f.format.symbol)
	if f.format.symbolSpace {
		b.WriteString(" ")
	}
	b.WriteString(groupDigits(intPart, f.format.groupSep))
	b.WriteString(f.format.decimalSep)
	b.WriteString(fracPart)
	return b.String()
}

// Date calendar date of t in the formatter's time zone
func (f *PriceFormatter) Date(t time.Time) string {
	return t.In(f.loc).Format(f.format.dateLayout)
}

// PriceSegment "Preço: R$ 4,50 em 03/01/2024"; empty when record is nil
func (f *PriceFormatter) PriceSegment(record *entity.PriceRecord) string {
	if record == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s %s %s",
		f.format.priceLabel,
		f.Currency(record.Amount),
		f.format.dateJoiner,
		f.Date(record.ObservedAt))
}

// ShareTitle title of the share sheet
func (f *PriceFormatter) ShareTitle(productName string) string {
	return fmt.Sprintf("%s: %s", f.format.productLabel, productName)
}

// ShareText product name, latest price segment and the attribution line
func (f *PriceFormatter) ShareText(productName string, latest *entity.PriceRecord) string {
	return fmt.Sprintf("%s\n%s\n\n%s", f.ShareTitle(productName), f.PriceSegment(latest), f.format.shareSuffix)
}

// StoreName joined store name or the locale's placeholder
func (f *PriceFormatter) StoreName(record entity.PriceRecord) string {
	if name := record.StoreName(); name != "" {
		return name
	}
	return f.format.unknownStore
}

func groupDigits(digits, sep string) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
