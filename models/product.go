// Package models defines data structures shared across the monitor.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Availability is the closed set of stock classifications a product page can
// resolve to. Classification is total: every input maps to exactly one value.
type Availability string

const (
	InStock                Availability = "in_stock"
	OutOfStock             Availability = "out_of_stock"
	TemporarilyUnavailable Availability = "temporarily_unavailable"
	Expired                Availability = "expired"
	UnknownAvailability    Availability = "unknown"
)

// String returns the wire representation of the availability value.
func (a Availability) String() string {
	return string(a)
}

// Target is one entry from the input URL list. Site is derived from the URL
// domain and is one of the supported site tags or "unknown".
type Target struct {
	URL      string `csv:"url" json:"url"`
	Name     string `csv:"name" json:"name"`
	Category string `csv:"category" json:"category"`
	Site     string `csv:"site" json:"site"`
}

// ProductRecord is one scraped product observation. URL is the identity key
// within a snapshot. Price, Rating, and ReviewCount are nil when the page did
// not yield a parseable value; a nil price is never conflated with a free
// item.
type ProductRecord struct {
	URL           string           `csv:"url" json:"url"`
	Site          string           `csv:"site" json:"site"`
	Name          string           `csv:"name" json:"name"`
	Category      string           `csv:"category" json:"category"`
	Title         string           `csv:"title" json:"title"`
	Price         *decimal.Decimal `csv:"price" json:"price,omitempty"`
	Availability  Availability     `csv:"availability" json:"availability"`
	Rating        *float64         `csv:"rating" json:"rating,omitempty"`
	ReviewCount   *int             `csv:"review_count" json:"review_count,omitempty"`
	Description   string           `csv:"description" json:"description"`
	ScrapedAt     time.Time        `csv:"scraped_at" json:"scraped_at"`
	FetchDuration time.Duration    `csv:"fetch_duration" json:"fetch_duration"`
	Success       bool             `csv:"success" json:"success"`
	Error         string           `csv:"error" json:"error,omitempty"`
}

// PriceValue returns the record price and whether one is present.
func (r *ProductRecord) PriceValue() (decimal.Decimal, bool) {
	if r.Price == nil {
		return decimal.Decimal{}, false
	}
	return *r.Price, true
}

// HasPositivePrice reports whether the record carries a price usable for
// change comparison.
func (r *ProductRecord) HasPositivePrice() bool {
	return r.Price != nil && r.Price.IsPositive()
}

// Snapshot is the complete output of one scraping run. CreatedAt orders
// snapshots in history; Records preserve input order.
type Snapshot struct {
	CreatedAt time.Time       `json:"created_at"`
	Records   []ProductRecord `json:"records"`
}

// ByURL indexes the snapshot records by URL. When the same URL appears more
// than once the chronologically last record wins.
func (s *Snapshot) ByURL() map[string]ProductRecord {
	out := make(map[string]ProductRecord, len(s.Records))
	for _, rec := range s.Records {
		prev, ok := out[rec.URL]
		if ok && prev.ScrapedAt.After(rec.ScrapedAt) {
			continue
		}
		out[rec.URL] = rec
	}
	return out
}
