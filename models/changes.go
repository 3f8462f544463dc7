package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceChange records a price movement that crossed the alert threshold.
// ChangePercent is rounded to two decimal places.
type PriceChange struct {
	URL           string          `csv:"url" json:"url"`
	Title         string          `csv:"title" json:"title"`
	OldPrice      decimal.Decimal `csv:"old_price" json:"old_price"`
	NewPrice      decimal.Decimal `csv:"new_price" json:"new_price"`
	ChangePercent decimal.Decimal `csv:"change_percent" json:"change_percent"`
}

// AvailabilityChange records a stock classification transition.
type AvailabilityChange struct {
	URL             string       `csv:"url" json:"url"`
	Title           string       `csv:"title" json:"title"`
	OldAvailability Availability `csv:"old_availability" json:"old_availability"`
	NewAvailability Availability `csv:"new_availability" json:"new_availability"`
}

// NewProduct is a URL present in the current snapshot but not the previous.
type NewProduct struct {
	URL   string           `csv:"url" json:"url"`
	Title string           `csv:"title" json:"title"`
	Price *decimal.Decimal `csv:"price" json:"price,omitempty"`
}

// RemovedProduct is a URL present in the previous snapshot but not the
// current, carrying the last known price.
type RemovedProduct struct {
	URL       string           `csv:"url" json:"url"`
	Title     string           `csv:"title" json:"title"`
	LastPrice *decimal.Decimal `csv:"last_price" json:"last_price,omitempty"`
}

// ChangeSummary counts the classified changes of one comparison.
type ChangeSummary struct {
	PriceChanges        int       `json:"total_price_changes"`
	AvailabilityChanges int       `json:"total_availability_changes"`
	NewProducts         int       `json:"new_products_count"`
	RemovedProducts     int       `json:"removed_products_count"`
	GeneratedAt         time.Time `json:"generated_at"`
}

// ChangeSet is the classified result of comparing two snapshots keyed by URL.
// Each list is sorted by URL and contains a URL at most once.
type ChangeSet struct {
	PriceChanges        []PriceChange        `json:"price_changes"`
	AvailabilityChanges []AvailabilityChange `json:"availability_changes"`
	NewProducts         []NewProduct         `json:"new_products"`
	RemovedProducts     []RemovedProduct     `json:"removed_products"`
	Summary             ChangeSummary        `json:"summary"`
}

// Empty reports whether the comparison found no changes at all.
func (c *ChangeSet) Empty() bool {
	return len(c.PriceChanges) == 0 &&
		len(c.AvailabilityChanges) == 0 &&
		len(c.NewProducts) == 0 &&
		len(c.RemovedProducts) == 0
}

// PriceRange is the min/max spread of observed prices.
type PriceRange struct {
	Min decimal.Decimal `json:"min"`
	Max decimal.Decimal `json:"max"`
}

// RunSummary aggregates one scraping run for reporting and alerting.
type RunSummary struct {
	TotalProducts     int                  `json:"total_products"`
	SuccessfulScrapes int                  `json:"successful_scrapes"`
	FailedScrapes     int                  `json:"failed_scrapes"`
	SitesScraped      int                  `json:"sites_scraped"`
	AveragePrice      decimal.Decimal      `json:"average_price"`
	PriceRange        PriceRange           `json:"price_range"`
	AvailabilityStats map[Availability]int `json:"availability_stats"`
	SitesBreakdown    map[string]int       `json:"sites_breakdown"`
	AverageRating     *float64             `json:"average_rating,omitempty"`
	GeneratedAt       time.Time            `json:"generated_at"`
}
