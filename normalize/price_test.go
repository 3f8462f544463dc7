package normalize

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestPrice(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		ok       bool
	}{
		{name: "european thousands", input: "1.234,56", expected: "1234.56", ok: true},
		{name: "american thousands", input: "1,234.56", expected: "1234.56", ok: true},
		{name: "decimal comma", input: "12,50", expected: "12.50", ok: true},
		{name: "thousands comma only", input: "1,234", expected: "1234", ok: true},
		{name: "currency prefix", input: "€19.99", expected: "19.99", ok: true},
		{name: "currency suffix with spaces", input: "1 299,00 €", expected: "1299.00", ok: true},
		{name: "plain integer", input: "42", expected: "42", ok: true},
		{name: "starting at wording", input: "Starting at $5", expected: "5", ok: true},
		{name: "letters only", input: "abc", ok: false},
		{name: "empty", input: "", ok: false},
		{name: "separators only", input: ",.", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, ok := Price(tt.input)
			if ok != tt.ok {
				t.Fatalf("Price(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if !ok {
				return
			}
			expected := decimal.RequireFromString(tt.expected)
			if !value.Equal(expected) {
				t.Errorf("Price(%q) = %s, want %s", tt.input, value.String(), expected.String())
			}
		})
	}
}

func TestPositivePriceRejectsZero(t *testing.T) {
	if _, ok := PositivePrice("0,00 €"); ok {
		t.Fatal("zero price should not satisfy PositivePrice")
	}
	value, ok := PositivePrice("0,99 €")
	if !ok || !value.Equal(decimal.RequireFromString("0.99")) {
		t.Fatalf("PositivePrice(0,99) = %v %v, want 0.99 true", value, ok)
	}
}
