package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/aluiziolira/go-price-watch/config"
	"github.com/aluiziolira/go-price-watch/fetch"
	"github.com/aluiziolira/go-price-watch/models"
	"github.com/aluiziolira/go-price-watch/normalize"
)

// etsyAdapter covers Etsy listing pages. Etsy often shows the remaining
// stock count instead of an explicit phrase, and disables the add-to-cart
// button on sold-out listings.
type etsyAdapter struct {
	h       *helper
	profile config.SiteProfile
}

func newEtsyAdapter(h *helper) *etsyAdapter {
	profile, _ := config.ProfileFor(config.SiteEtsy)
	return &etsyAdapter{h: h, profile: profile}
}

func (a *etsyAdapter) Site() string {
	return config.SiteEtsy
}

func (a *etsyAdapter) Extract(page *fetch.Page) (Fields, error) {
	doc, err := parseDocument(page)
	if err != nil {
		return Fields{}, err
	}

	sel := a.profile.Selectors
	fields := Fields{
		Title:       a.h.firstText(doc, sel.Title),
		Price:       a.h.scanPrice(doc, sel.Price),
		Description: a.h.description(doc, sel.Description),
	}

	fields.Availability = a.availability(doc)
	fields.Rating = a.h.scanRating(doc, sel.Reviews)
	fields.ReviewCount = a.h.scanReviewCount(doc, sel.Reviews)

	return fields, nil
}

func (a *etsyAdapter) availability(doc *goquery.Document) models.Availability {
	sel := a.profile.Selectors

	stockText := a.h.firstText(doc, sel.Availability)
	availability := a.h.classifier.Classify(stockText, normalize.NoSignal)
	if availability != models.UnknownAvailability {
		return availability
	}

	// A bare remaining-stock count ("Only 3 left") means the listing is
	// purchasable even without an explicit keyword.
	if strings.ContainsAny(stockText, "0123456789") {
		return models.InStock
	}

	return a.h.classifier.Classify("", a.h.cartSignal(doc, sel.AddToCart))
}
