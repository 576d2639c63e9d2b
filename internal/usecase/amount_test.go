package usecase

import (
	"errors"
	"testing"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "12.50", want: "12.50"},
		{input: "12,50", want: "12.50"},
		{input: "R$ 4,99", want: "4.99"},
		{input: "$1234.5", want: "1234.50"},
		{input: "-3", want: "3.00"},
		{input: "0", want: "0.00"},
		{input: "", wantErr: true},
		{input: "abc", wantErr: true},
		{input: "1.2.3", wantErr: true},
		{input: "1,234.50", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidAmount) || !errors.Is(err, ErrValidation) {
					t.Fatalf("expected ErrInvalidAmount, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.StringFixed(2) != tt.want {
				t.Errorf("got %s, want %s", got.StringFixed(2), tt.want)
			}
		})
	}
}

func TestSanitizeAmountInput(t *testing.T) {
	if got := SanitizeAmountInput(" R$ 1.234,5a "); got != "1.234,5" {
		t.Errorf("got %q", got)
	}
}
