package diff

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/aluiziolira/go-price-watch/models"
)

// Summarize aggregates one snapshot into run-level statistics: success and
// failure counts, per-site breakdown, availability distribution, and price
// spread over the positively priced records.
func Summarize(snapshot *models.Snapshot) models.RunSummary {
	summary := models.RunSummary{
		AvailabilityStats: make(map[models.Availability]int),
		SitesBreakdown:    make(map[string]int),
		GeneratedAt:       time.Now(),
	}
	if snapshot == nil {
		return summary
	}

	summary.TotalProducts = len(snapshot.Records)

	var (
		priceSum   decimal.Decimal
		priceCount int64
		ratingSum  float64
		ratings    int
	)

	for _, rec := range snapshot.Records {
		summary.SitesBreakdown[rec.Site]++

		if !rec.Success {
			summary.FailedScrapes++
			continue
		}
		summary.SuccessfulScrapes++
		summary.AvailabilityStats[rec.Availability]++

		if rec.HasPositivePrice() {
			price := *rec.Price
			if priceCount == 0 {
				summary.PriceRange = models.PriceRange{Min: price, Max: price}
			} else {
				if price.LessThan(summary.PriceRange.Min) {
					summary.PriceRange.Min = price
				}
				if price.GreaterThan(summary.PriceRange.Max) {
					summary.PriceRange.Max = price
				}
			}
			priceSum = priceSum.Add(price)
			priceCount++
		}

		if rec.Rating != nil {
			ratingSum += *rec.Rating
			ratings++
		}
	}

	summary.SitesScraped = len(summary.SitesBreakdown)
	if priceCount > 0 {
		summary.AveragePrice = priceSum.Div(decimal.NewFromInt(priceCount)).Round(2)
	}
	if ratings > 0 {
		avg := ratingSum / float64(ratings)
		summary.AverageRating = &avg
	}
	return summary
}
