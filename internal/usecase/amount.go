package usecase

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// SanitizeAmountInput keeps only digits and separators, as the price field does while typing
func SanitizeAmountInput(input string) string {
	var b strings.Builder
	for _, r := range input {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ParseAmount turns raw user input into an amount. The first comma is read as the
// decimal separator. Anything that does not parse is ErrInvalidAmount, so malformed
// input never reaches the gateway.
func ParseAmount(input string) (decimal.Decimal, error) {
	cleaned := strings.Replace(SanitizeAmountInput(input), ",", ".", 1)
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("%w: empty price", ErrInvalidAmount)
	}

	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, input)
	}
	if amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: negative price", ErrInvalidAmount)
	}
	return amount, nil
}
