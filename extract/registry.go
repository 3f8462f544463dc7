package extract

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aluiziolira/go-price-watch/config"
	"github.com/aluiziolira/go-price-watch/normalize"
)

// Registry holds one adapter per supported site, all sharing the selector
// cache and availability classifier.
type Registry struct {
	adapters map[string]Adapter
}

// NewRegistry builds the adapter set from the immutable site profiles.
func NewRegistry(keywords config.AvailabilityKeywords, descLimit int) *Registry {
	h := newHelper(normalize.NewClassifier(keywords), descLimit)

	adapters := make(map[string]Adapter)
	for _, adapter := range []Adapter{
		newShopifyAdapter(h),
		newAmazonAdapter(h),
		newEtsyAdapter(h),
		newLeboncoinAdapter(h),
		newBeaconAdapter(h),
		newFiverrAdapter(h),
	} {
		adapters[adapter.Site()] = adapter
	}
	return &Registry{adapters: adapters}
}

// ForSite returns the adapter for a site tag.
func (r *Registry) ForSite(site string) (Adapter, error) {
	adapter, ok := r.adapters[strings.ToLower(site)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSite, site)
	}
	return adapter, nil
}

// SupportedSites lists the registered site tags, sorted.
func (r *Registry) SupportedSites() []string {
	sites := make([]string, 0, len(r.adapters))
	for site := range r.adapters {
		sites = append(sites, site)
	}
	sort.Strings(sites)
	return sites
}
