// Package monitor orchestrates one scraping run: it turns targets into
// product records through the fetch and extract layers and runs the batch
// over a bounded worker pool.
package monitor

import (
	"context"
	"log/slog"
	"time"

	"github.com/aluiziolira/go-price-watch/extract"
	"github.com/aluiziolira/go-price-watch/fetch"
	"github.com/aluiziolira/go-price-watch/models"
)

// Fetcher retrieves one page. Satisfied by *fetch.Client.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*fetch.Page, error)
}

// Assembler builds one product record per target. A failure at any stage
// yields a failed record carrying only the target identity, the error, and
// timing; the batch is never aborted by one URL.
type Assembler struct {
	fetcher  Fetcher
	registry *extract.Registry
}

// NewAssembler wires the fetch and extract collaborators.
func NewAssembler(fetcher Fetcher, registry *extract.Registry) *Assembler {
	return &Assembler{fetcher: fetcher, registry: registry}
}

// Scrape produces the record for one target.
func (a *Assembler) Scrape(ctx context.Context, target models.Target) models.ProductRecord {
	start := time.Now()

	adapter, err := a.registry.ForSite(target.Site)
	if err != nil {
		return a.failed(target, start, err)
	}

	page, err := a.fetcher.Fetch(ctx, target.URL)
	if err != nil {
		return a.failed(target, start, err)
	}

	fields, err := adapter.Extract(page)
	if err != nil {
		return a.failed(target, start, err)
	}

	return models.ProductRecord{
		URL:           target.URL,
		Site:          target.Site,
		Name:          target.Name,
		Category:      target.Category,
		Title:         fields.Title,
		Price:         fields.Price,
		Availability:  fields.Availability,
		Rating:        fields.Rating,
		ReviewCount:   fields.ReviewCount,
		Description:   fields.Description,
		ScrapedAt:     time.Now(),
		FetchDuration: time.Since(start),
		Success:       true,
	}
}

func (a *Assembler) failed(target models.Target, start time.Time, err error) models.ProductRecord {
	slog.Warn("scrape failed",
		slog.String("url", target.URL),
		slog.String("site", target.Site),
		slog.Any("error", err),
	)
	return models.ProductRecord{
		URL:           target.URL,
		Site:          target.Site,
		Name:          target.Name,
		Category:      target.Category,
		Availability:  models.UnknownAvailability,
		ScrapedAt:     time.Now(),
		FetchDuration: time.Since(start),
		Success:       false,
		Error:         err.Error(),
	}
}
