// Package extract converts raw page content into product fields using
// per-site selector cascades. One adapter exists per supported site; all of
// them share the cascade helper and the pure normalizers.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"

	"github.com/aluiziolira/go-price-watch/fetch"
	"github.com/aluiziolira/go-price-watch/models"
)

// ErrUnsupportedSite is returned when no adapter exists for a site tag.
var ErrUnsupportedSite = errors.New("extract: unsupported site")

// ErrParse indicates the fetched document could not be parsed at all.
type ErrParse struct {
	Err error
}

func (e ErrParse) Error() string {
	return fmt.Errorf("parse document: %w", e.Err).Error()
}

func (e ErrParse) Unwrap() error {
	return e.Err
}

// Fields is the typed extraction result for one product page. Price, Rating,
// and ReviewCount are nil when the page yields nothing parseable; absent
// fields degrade to zero values rather than failing the record.
type Fields struct {
	Title        string
	Price        *decimal.Decimal
	Availability models.Availability
	Rating       *float64
	ReviewCount  *int
	Description  string
}

// Adapter extracts product fields from a fetched page of one site.
type Adapter interface {
	Site() string
	Extract(page *fetch.Page) (Fields, error)
}

// parseDocument builds a goquery document from the raw page body.
func parseDocument(page *fetch.Page) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
	if err != nil {
		return nil, ErrParse{Err: err}
	}
	return doc, nil
}

// containsAnyPhrase reports whether the lowercased page text contains one of
// the phrases. Phrases are expected lowercase.
func containsAnyPhrase(pageText string, phrases []string) bool {
	for _, phrase := range phrases {
		if strings.Contains(pageText, phrase) {
			return true
		}
	}
	return false
}
