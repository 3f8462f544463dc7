package extract

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/aluiziolira/go-price-watch/config"
	"github.com/aluiziolira/go-price-watch/fetch"
	"github.com/aluiziolira/go-price-watch/models"
)

// fiverrAdapter covers Fiverr gig pages. A gig that serves at all is
// available, and ratings often appear as a bare number without any
// surrounding pattern.
type fiverrAdapter struct {
	h       *helper
	profile config.SiteProfile
}

func newFiverrAdapter(h *helper) *fiverrAdapter {
	profile, _ := config.ProfileFor(config.SiteFiverr)
	return &fiverrAdapter{h: h, profile: profile}
}

func (a *fiverrAdapter) Site() string {
	return config.SiteFiverr
}

func (a *fiverrAdapter) Extract(page *fetch.Page) (Fields, error) {
	doc, err := parseDocument(page)
	if err != nil {
		return Fields{}, err
	}

	sel := a.profile.Selectors
	fields := Fields{
		Title: a.h.firstText(doc, sel.Title),
		// Fiverr shows "Starting at $X"; the normalizer drops the wording.
		Price:        a.h.firstPrice(doc, sel.Price),
		Description:  a.h.description(doc, sel.Description),
		Availability: models.InStock,
	}

	fields.Rating = a.rating(doc)
	fields.ReviewCount = a.h.scanReviewCount(doc, sel.Reviews)

	return fields, nil
}

// rating tries the pattern scan first and falls back to a bare "4,9" style
// number on the 0-5 scale.
func (a *fiverrAdapter) rating(doc *goquery.Document) *float64 {
	sel := a.profile.Selectors
	if rating := a.h.scanRating(doc, sel.Reviews); rating != nil {
		return rating
	}

	var found *float64
	for _, selector := range sel.Reviews {
		candidates := a.h.find(doc, selector)
		if candidates == nil {
			continue
		}
		candidates.EachWithBreak(func(_ int, s *goquery.Selection) bool {
			text := strings.ReplaceAll(strings.TrimSpace(s.Text()), ",", ".")
			value, err := strconv.ParseFloat(text, 64)
			if err != nil || value < 0 || value > 5 {
				return true
			}
			found = &value
			return false
		})
		if found != nil {
			break
		}
	}
	return found
}
