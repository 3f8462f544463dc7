package extract

import (
	"github.com/aluiziolira/go-price-watch/config"
	"github.com/aluiziolira/go-price-watch/fetch"
	"github.com/aluiziolira/go-price-watch/normalize"
)

// amazonAdapter covers Amazon product pages. Amazon serves bot-check pages
// with HTTP 200, so block detection runs on the page text before extraction;
// prices appear under several markups, so every candidate element is scanned
// for the first positive value.
type amazonAdapter struct {
	h       *helper
	profile config.SiteProfile
}

func newAmazonAdapter(h *helper) *amazonAdapter {
	profile, _ := config.ProfileFor(config.SiteAmazon)
	return &amazonAdapter{h: h, profile: profile}
}

func (a *amazonAdapter) Site() string {
	return config.SiteAmazon
}

func (a *amazonAdapter) Extract(page *fetch.Page) (Fields, error) {
	doc, err := parseDocument(page)
	if err != nil {
		return Fields{}, err
	}

	if containsAnyPhrase(a.h.pageText(doc), a.profile.BlockPhrases) {
		return Fields{}, fetch.ErrBlocked{StatusCode: page.StatusCode, Reason: "bot check page"}
	}

	sel := a.profile.Selectors
	fields := Fields{
		Title:       a.h.firstText(doc, sel.Title),
		Price:       a.h.scanPrice(doc, sel.Price),
		Description: a.h.description(doc, sel.Description),
	}

	fields.Availability = a.h.classifier.Classify(a.h.firstText(doc, sel.Availability), normalize.NoSignal)

	// Rating and review count live in different elements; each scans the
	// candidates independently.
	fields.Rating = a.h.scanRating(doc, sel.Reviews)
	fields.ReviewCount = a.h.scanReviewCount(doc, sel.Reviews)

	return fields, nil
}
