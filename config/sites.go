package config

import "strings"

// Supported site tags.
const (
	SiteShopify   = "shopify"
	SiteAmazon    = "amazon"
	SiteEtsy      = "etsy"
	SiteLeboncoin = "leboncoin"
	SiteBeacon    = "beacon"
	SiteFiverr    = "fiverr"
	SiteUnknown   = "unknown"
)

// FieldSelectors lists CSS selector candidates per logical field, in priority
// order. The first selector yielding non-empty trimmed text wins.
type FieldSelectors struct {
	Title        []string
	Price        []string
	Availability []string
	Reviews      []string
	Description  []string
	AddToCart    []string
}

// SiteProfile is the read-only extraction profile for one supported site.
type SiteProfile struct {
	Selectors      FieldSelectors
	BlockPhrases   []string
	ExpiredPhrases []string
}

var siteProfiles = map[string]SiteProfile{
	SiteShopify: {
		Selectors: FieldSelectors{
			Title:        []string{"h1.product-title", ".product__title", ".product-single__title", "h1"},
			Price:        []string{".price", ".product-price", ".money", ".current_price"},
			Availability: []string{".product-availability", ".inventory_quantity", ".stock-level"},
			Reviews:      []string{".reviews-summary", ".product-reviews", ".review-count"},
			Description:  []string{".product-description", ".product-single__description", ".rte"},
			AddToCart:    []string{"button.add-to-cart", "button.btn-cart", "button.product-submit", "input.add-to-cart"},
		},
	},
	SiteAmazon: {
		Selectors: FieldSelectors{
			Title:        []string{"#productTitle", ".product-title"},
			Price:        []string{".a-price-whole", "#priceblock_dealprice", "#priceblock_ourprice", ".a-offscreen", ".a-price.a-text-price.a-size-medium.apexPriceToPay", ".a-price-range"},
			Availability: []string{"#availability span", ".a-alert-content", ".availability-msg"},
			Reviews:      []string{"[data-hook=\"average-star-rating\"] .a-offscreen", ".a-icon-alt", "[data-hook=\"total-review-count\"]", "#acrCustomerReviewText"},
			Description:  []string{"#feature-bullets ul", ".product-description", "#productDescription"},
		},
		BlockPhrases: []string{
			"api-services-support@amazon.com",
			"robot check",
			"enter the characters you see below",
			"sorry, we just need to make sure you're not a robot",
		},
	},
	SiteEtsy: {
		Selectors: FieldSelectors{
			Title:        []string{"h1[data-test-id=\"listing-page-title\"]", ".listing-page-title"},
			Price:        []string{"[data-test-id=\"listing-page-price\"] .currency-value", ".currency-value", ".notranslate", ".shop2-listing-price"},
			Availability: []string{"[data-test-id=\"listing-page-inventory\"]", ".listing-page-availability", ".stock-level"},
			Reviews:      []string{"[data-test-id=\"review-star-rating\"]", ".shop2-review-average", ".rating-text", "[data-test-id=\"review-count\"]", ".review-count"},
			Description:  []string{".listing-description", ".shop2-listing-description"},
			AddToCart:    []string{"[data-test-id=\"add-to-cart-button\"]"},
		},
	},
	SiteLeboncoin: {
		Selectors: FieldSelectors{
			Title:       []string{"h1[data-qa-id=\"adview_title\"]", ".ad-title"},
			Price:       []string{"[data-qa-id=\"adview_price\"]", ".price"},
			Description: []string{"[data-qa-id=\"adview_description_container\"]", ".ad-description"},
		},
		ExpiredPhrases: []string{
			"cette annonce n'est plus disponible",
			"annonce expirée",
			"cette annonce a été supprimée",
		},
	},
	SiteBeacon: {
		Selectors: FieldSelectors{
			Title:        []string{"h1.service-title", ".service-name", "h1", ".title"},
			Price:        []string{".price", ".service-price", ".pricing", "[data-price]"},
			Availability: []string{".availability", ".service-status", ".status"},
			Description:  []string{".service-description", ".description", ".service-details"},
		},
	},
	SiteFiverr: {
		Selectors: FieldSelectors{
			Title:       []string{"[data-gig-title]", "h1.gig-page-title", ".gig-title", "h1"},
			Price:       []string{".price-value", ".starting-price", "[data-price]", ".price"},
			Reviews:     []string{".gig-rating", ".rating-score", "[data-rating]", ".star-rating", ".reviews-count", "[data-reviews]", ".review-count"},
			Description: []string{".gig-desc-container", ".description", ".gig-description"},
		},
	},
}

// ProfileFor returns the extraction profile for a supported site tag.
func ProfileFor(site string) (SiteProfile, bool) {
	profile, ok := siteProfiles[strings.ToLower(site)]
	return profile, ok
}

// SupportedSites lists the site tags with an extraction profile.
func SupportedSites() []string {
	sites := make([]string, 0, len(siteProfiles))
	for site := range siteProfiles {
		sites = append(sites, site)
	}
	return sites
}

// IsSiteSupported reports whether an adapter exists for the site tag.
func IsSiteSupported(site string) bool {
	_, ok := siteProfiles[strings.ToLower(site)]
	return ok
}

// DetectSite maps a product URL to a supported site tag by domain hints, or
// "unknown" when no mapping applies.
func DetectSite(rawURL string) string {
	lower := strings.ToLower(rawURL)
	switch {
	case strings.Contains(lower, "amazon."):
		return SiteAmazon
	case strings.Contains(lower, "shopify") || strings.Contains(lower, ".myshopify.com"):
		return SiteShopify
	case strings.Contains(lower, "etsy.com"):
		return SiteEtsy
	case strings.Contains(lower, "leboncoin.fr"):
		return SiteLeboncoin
	case strings.Contains(lower, "beacon.by"):
		return SiteBeacon
	case strings.Contains(lower, "fiverr.com"):
		return SiteFiverr
	default:
		return SiteUnknown
	}
}

// AvailabilityKeywords are the locale-aware keyword sets consumed by the
// availability classifier. All entries are lowercase.
type AvailabilityKeywords struct {
	InStock                []string
	OutOfStock             []string
	TemporarilyUnavailable []string
	Expired                []string
}

// DefaultAvailabilityKeywords covers the French and English phrasings the
// supported sites use.
func DefaultAvailabilityKeywords() AvailabilityKeywords {
	return AvailabilityKeywords{
		InStock: []string{
			"en stock", "in stock", "disponible", "available",
		},
		OutOfStock: []string{
			"rupture", "épuisé", "out of stock", "sold out", "indisponible",
		},
		TemporarilyUnavailable: []string{
			"temporairement", "currently unavailable", "temporarily unavailable",
		},
		Expired: []string{
			"annonce expirée", "expiré", "no longer available", "n'est plus disponible",
		},
	}
}

// UserAgents is the rotation pool used to vary request fingerprints.
var UserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:120.0) Gecko/20100101 Firefox/120.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:120.0) Gecko/20100101 Firefox/120.0",
}

// BaselineHeaders accompany every request regardless of the rotated
// user agent.
var BaselineHeaders = map[string]string{
	"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
	"Accept-Language":           "fr-FR,fr;q=0.9,en;q=0.8",
	"Accept-Encoding":           "gzip, deflate, br",
	"DNT":                       "1",
	"Connection":                "keep-alive",
	"Upgrade-Insecure-Requests": "1",
}
