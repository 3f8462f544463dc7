package extract

import (
	"github.com/aluiziolira/go-price-watch/config"
	"github.com/aluiziolira/go-price-watch/fetch"
	"github.com/aluiziolira/go-price-watch/normalize"
)

// shopifyAdapter covers storefronts on the Shopify platform. Availability
// falls back to the add-to-cart button state when no stock text is present.
type shopifyAdapter struct {
	h       *helper
	profile config.SiteProfile
}

func newShopifyAdapter(h *helper) *shopifyAdapter {
	profile, _ := config.ProfileFor(config.SiteShopify)
	return &shopifyAdapter{h: h, profile: profile}
}

func (a *shopifyAdapter) Site() string {
	return config.SiteShopify
}

func (a *shopifyAdapter) Extract(page *fetch.Page) (Fields, error) {
	doc, err := parseDocument(page)
	if err != nil {
		return Fields{}, err
	}

	sel := a.profile.Selectors
	fields := Fields{
		Title:       a.h.firstText(doc, sel.Title),
		Price:       a.h.firstPrice(doc, sel.Price),
		Description: a.h.description(doc, sel.Description),
	}

	availabilityText := a.h.firstText(doc, sel.Availability)
	signal := normalize.NoSignal
	if availabilityText == "" {
		signal = a.h.cartSignal(doc, sel.AddToCart)
	}
	fields.Availability = a.h.classifier.Classify(availabilityText, signal)

	reviews := normalize.Reviews(a.h.firstText(doc, sel.Reviews))
	fields.Rating = reviews.Rating
	fields.ReviewCount = reviews.ReviewCount

	return fields, nil
}
