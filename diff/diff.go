// Package diff compares product snapshots and classifies what changed:
// threshold-crossing price movements, availability transitions, and URLs
// appearing or disappearing between runs.
package diff

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/aluiziolira/go-price-watch/models"
)

var hundred = decimal.NewFromInt(100)

// Engine compares snapshots keyed by URL. Threshold is the minimum absolute
// percentage movement reported as a price change, compared inclusively.
type Engine struct {
	threshold decimal.Decimal
	now       func() time.Time
}

// NewEngine builds a comparison engine with the given percentage threshold.
func NewEngine(thresholdPct float64) *Engine {
	return &Engine{
		threshold: decimal.NewFromFloat(thresholdPct).Abs(),
		now:       time.Now,
	}
}

// Compare classifies the differences between two snapshots. Presence is
// decided over all records, so a transient fetch failure never turns a
// monitored URL into a removal or an addition; price and availability are
// only evaluated between two successful observations. Output lists are
// sorted by URL, so comparing the same snapshots always yields the same
// result regardless of record order.
func (e *Engine) Compare(previous, current *models.Snapshot) *models.ChangeSet {
	prev := byURL(previous)
	curr := byURL(current)

	set := &models.ChangeSet{}

	for url, currRec := range curr {
		prevRec, seen := prev[url]
		if !seen {
			set.NewProducts = append(set.NewProducts, models.NewProduct{
				URL:   url,
				Title: currRec.Title,
				Price: currRec.Price,
			})
			continue
		}

		if !prevRec.Success || !currRec.Success {
			continue
		}
		if change, ok := e.priceChange(&prevRec, &currRec); ok {
			set.PriceChanges = append(set.PriceChanges, change)
		}
		if prevRec.Availability != currRec.Availability {
			set.AvailabilityChanges = append(set.AvailabilityChanges, models.AvailabilityChange{
				URL:             url,
				Title:           titleOf(&currRec, &prevRec),
				OldAvailability: prevRec.Availability,
				NewAvailability: currRec.Availability,
			})
		}
	}

	for url, prevRec := range prev {
		if _, seen := curr[url]; seen {
			continue
		}
		set.RemovedProducts = append(set.RemovedProducts, models.RemovedProduct{
			URL:       url,
			Title:     prevRec.Title,
			LastPrice: prevRec.Price,
		})
	}

	sort.Slice(set.PriceChanges, func(i, j int) bool { return set.PriceChanges[i].URL < set.PriceChanges[j].URL })
	sort.Slice(set.AvailabilityChanges, func(i, j int) bool { return set.AvailabilityChanges[i].URL < set.AvailabilityChanges[j].URL })
	sort.Slice(set.NewProducts, func(i, j int) bool { return set.NewProducts[i].URL < set.NewProducts[j].URL })
	sort.Slice(set.RemovedProducts, func(i, j int) bool { return set.RemovedProducts[i].URL < set.RemovedProducts[j].URL })

	set.Summary = models.ChangeSummary{
		PriceChanges:        len(set.PriceChanges),
		AvailabilityChanges: len(set.AvailabilityChanges),
		NewProducts:         len(set.NewProducts),
		RemovedProducts:     len(set.RemovedProducts),
		GeneratedAt:         e.now(),
	}
	return set
}

// priceChange reports the movement between two records when both carry a
// positive price and the movement reaches the threshold.
func (e *Engine) priceChange(prev, curr *models.ProductRecord) (models.PriceChange, bool) {
	if !prev.HasPositivePrice() || !curr.HasPositivePrice() {
		return models.PriceChange{}, false
	}

	oldPrice := *prev.Price
	newPrice := *curr.Price
	// The threshold sees the exact movement; rounding is presentation only.
	pct := newPrice.Sub(oldPrice).Div(oldPrice).Mul(hundred)
	if pct.Abs().LessThan(e.threshold) {
		return models.PriceChange{}, false
	}

	return models.PriceChange{
		URL:           curr.URL,
		Title:         titleOf(curr, prev),
		OldPrice:      oldPrice,
		NewPrice:      newPrice,
		ChangePercent: pct.Round(2),
	}, true
}

func byURL(snapshot *models.Snapshot) map[string]models.ProductRecord {
	if snapshot == nil {
		return nil
	}
	return snapshot.ByURL()
}

func titleOf(primary, fallback *models.ProductRecord) string {
	if primary.Title != "" {
		return primary.Title
	}
	return fallback.Title
}
