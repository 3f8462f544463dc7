package normalize

import (
	"strings"

	"github.com/aluiziolira/go-price-watch/config"
	"github.com/aluiziolira/go-price-watch/models"
)

// ControlSignal is the observed state of an add-to-cart style control, used
// as a fallback when no availability text matches.
type ControlSignal int

const (
	NoSignal ControlSignal = iota
	ControlEnabled
	ControlDisabled
)

// Classifier maps raw availability text onto the closed availability enum.
// Keyword sets are data so new sites and locales only touch configuration.
type Classifier struct {
	keywords config.AvailabilityKeywords
}

// NewClassifier builds a classifier from keyword sets.
func NewClassifier(keywords config.AvailabilityKeywords) *Classifier {
	return &Classifier{keywords: keywords}
}

// Classify resolves raw text plus an optional DOM control signal to exactly
// one availability value. Explicit keywords outrank the control signal;
// expired and out-of-stock phrasings outrank in-stock ones so that
// "indisponible" never matches on its "disponible" suffix.
func (c *Classifier) Classify(raw string, signal ControlSignal) models.Availability {
	text := strings.ToLower(strings.TrimSpace(raw))

	if text != "" {
		switch {
		case containsAny(text, c.keywords.Expired):
			return models.Expired
		case containsAny(text, c.keywords.TemporarilyUnavailable):
			return models.TemporarilyUnavailable
		case containsAny(text, c.keywords.OutOfStock):
			return models.OutOfStock
		case containsAny(text, c.keywords.InStock):
			return models.InStock
		}
	}

	switch signal {
	case ControlDisabled:
		return models.OutOfStock
	case ControlEnabled:
		return models.InStock
	default:
		return models.UnknownAvailability
	}
}

func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}
