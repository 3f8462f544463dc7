package extract

import (
	"github.com/aluiziolira/go-price-watch/config"
	"github.com/aluiziolira/go-price-watch/fetch"
	"github.com/aluiziolira/go-price-watch/models"
	"github.com/aluiziolira/go-price-watch/normalize"
)

// beaconAdapter covers Beacon.by service pages. Services without an explicit
// status are treated as available; there is no rating system.
type beaconAdapter struct {
	h       *helper
	profile config.SiteProfile
}

func newBeaconAdapter(h *helper) *beaconAdapter {
	profile, _ := config.ProfileFor(config.SiteBeacon)
	return &beaconAdapter{h: h, profile: profile}
}

func (a *beaconAdapter) Site() string {
	return config.SiteBeacon
}

func (a *beaconAdapter) Extract(page *fetch.Page) (Fields, error) {
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

	statusText := a.h.firstText(doc, sel.Availability)
	if statusText == "" {
		fields.Availability = models.InStock
	} else {
		fields.Availability = a.h.classifier.Classify(statusText, normalize.NoSignal)
	}

	return fields, nil
}
