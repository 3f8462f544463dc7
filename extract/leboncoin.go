package extract

import (
	"github.com/aluiziolira/go-price-watch/config"
	"github.com/aluiziolira/go-price-watch/fetch"
	"github.com/aluiziolira/go-price-watch/models"
)

// leboncoinAdapter covers Leboncoin classified ads. An ad that still serves
// normally is available; removed or expired ads keep their page but carry a
// fixed notice.
type leboncoinAdapter struct {
	h       *helper
	profile config.SiteProfile
}

func newLeboncoinAdapter(h *helper) *leboncoinAdapter {
	profile, _ := config.ProfileFor(config.SiteLeboncoin)
	return &leboncoinAdapter{h: h, profile: profile}
}

func (a *leboncoinAdapter) Site() string {
	return config.SiteLeboncoin
}

func (a *leboncoinAdapter) Extract(page *fetch.Page) (Fields, error) {
	doc, err := parseDocument(page)
	if err != nil {
		return Fields{}, err
	}

	// Classified ads carry no review system; rating and count stay nil.
	sel := a.profile.Selectors
	fields := Fields{
		Title:        a.h.firstText(doc, sel.Title),
		Price:        a.h.firstPrice(doc, sel.Price),
		Description:  a.h.description(doc, sel.Description),
		Availability: models.InStock,
	}

	if containsAnyPhrase(a.h.pageText(doc), a.profile.ExpiredPhrases) {
		fields.Availability = models.Expired
	}

	return fields, nil
}
