package normalize

import (
	"testing"

	"github.com/aluiziolira/go-price-watch/config"
	"github.com/aluiziolira/go-price-watch/models"
)

func TestClassify(t *testing.T) {
	classifier := NewClassifier(config.DefaultAvailabilityKeywords())

	tests := []struct {
		name     string
		text     string
		signal   ControlSignal
		expected models.Availability
	}{
		{name: "french in stock", text: "En stock", expected: models.InStock},
		{name: "english in stock", text: "Usually ships within 2 days - In Stock", expected: models.InStock},
		{name: "french out of stock", text: "Rupture de stock", expected: models.OutOfStock},
		{name: "sold out", text: "Sold out", expected: models.OutOfStock},
		{name: "indisponible does not match disponible", text: "Article indisponible", expected: models.OutOfStock},
		{name: "temporarily unavailable", text: "Temporairement en rupture", expected: models.TemporarilyUnavailable},
		{name: "currently unavailable", text: "Currently unavailable.", expected: models.TemporarilyUnavailable},
		{name: "expired listing", text: "Annonce expirée", expected: models.Expired},
		{name: "keyword beats disabled control", text: "Disponible", signal: ControlDisabled, expected: models.InStock},
		{name: "disabled control fallback", text: "42 items", signal: ControlDisabled, expected: models.OutOfStock},
		{name: "enabled control fallback", text: "", signal: ControlEnabled, expected: models.InStock},
		{name: "no signal at all", text: "", expected: models.UnknownAvailability},
		{name: "unrelated text", text: "ships from France", expected: models.UnknownAvailability},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifier.Classify(tt.text, tt.signal); got != tt.expected {
				t.Errorf("Classify(%q, %v) = %v, want %v", tt.text, tt.signal, got, tt.expected)
			}
		})
	}
}

// Classification must be total: arbitrary input always lands on one of the
// five enum values.
func TestClassifyTotal(t *testing.T) {
	classifier := NewClassifier(config.DefaultAvailabilityKeywords())
	valid := map[models.Availability]bool{
		models.InStock:                true,
		models.OutOfStock:             true,
		models.TemporarilyUnavailable: true,
		models.Expired:                true,
		models.UnknownAvailability:    true,
	}

	inputs := []string{"", " ", "N/A", "42", "\x00\xff", "en stock out of stock", "EN STOCK"}
	for _, input := range inputs {
		for _, signal := range []ControlSignal{NoSignal, ControlEnabled, ControlDisabled} {
			if got := classifier.Classify(input, signal); !valid[got] {
				t.Fatalf("Classify(%q, %v) = %v, not a valid availability", input, signal, got)
			}
		}
	}
}
