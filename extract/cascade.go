package extract

import (
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/shopspring/decimal"

	"github.com/aluiziolira/go-price-watch/normalize"
)

// selectorCacheSize bounds the compiled-selector cache shared by all
// adapters. The full site table compiles to well under this.
const selectorCacheSize = 256

// selectorCache memoizes compiled CSS selectors. Cascades re-run the same
// selectors on every page, so compilation happens once per selector string.
type selectorCache struct {
	cache *lru.Cache[string, cascadia.Selector]
}

func newSelectorCache() *selectorCache {
	cache, err := lru.New[string, cascadia.Selector](selectorCacheSize)
	if err != nil {
		// Only reachable with a non-positive size constant.
		panic(err)
	}
	return &selectorCache{cache: cache}
}

func (c *selectorCache) compile(selector string) (cascadia.Selector, error) {
	if group, ok := c.cache.Get(selector); ok {
		return group, nil
	}
	group, err := cascadia.Compile(selector)
	if err != nil {
		return nil, err
	}
	c.cache.Add(selector, group)
	return group, nil
}

// helper is the shared extraction toolbox injected into every site adapter:
// the selector cascade, candidate scans, and description flattening.
type helper struct {
	selectors  *selectorCache
	classifier *normalize.Classifier
	descLimit  int
}

func newHelper(classifier *normalize.Classifier, descLimit int) *helper {
	return &helper{
		selectors:  newSelectorCache(),
		classifier: classifier,
		descLimit:  descLimit,
	}
}

// find resolves a selector against the document, tolerating (and skipping)
// selectors that fail to compile.
func (h *helper) find(doc *goquery.Document, selector string) *goquery.Selection {
	group, err := h.selectors.compile(selector)
	if err != nil {
		slog.Debug("skipping invalid selector", slog.String("selector", selector), slog.Any("error", err))
		return nil
	}
	return doc.FindMatcher(group)
}

// firstText runs the selector cascade: the first selector whose first match
// yields non-empty trimmed text wins.
func (h *helper) firstText(doc *goquery.Document, selectors []string) string {
	for _, selector := range selectors {
		sel := h.find(doc, selector)
		if sel == nil {
			continue
		}
		if text := strings.TrimSpace(sel.First().Text()); text != "" {
			return text
		}
	}
	return ""
}

// scanPrice walks every matched element per selector, not just the first,
// and returns the first candidate that normalizes to a positive price.
func (h *helper) scanPrice(doc *goquery.Document, selectors []string) *decimal.Decimal {
	for _, selector := range selectors {
		sel := h.find(doc, selector)
		if sel == nil {
			continue
		}
		var found *decimal.Decimal
		sel.EachWithBreak(func(_ int, s *goquery.Selection) bool {
			price, ok := normalize.PositivePrice(strings.TrimSpace(s.Text()))
			if !ok {
				return true
			}
			found = &price
			return false
		})
		if found != nil {
			return found
		}
	}
	return nil
}

// firstPrice normalizes the cascade text of the price selectors. Unlike
// scanPrice it accepts zero-valued prices.
func (h *helper) firstPrice(doc *goquery.Document, selectors []string) *decimal.Decimal {
	raw := h.firstText(doc, selectors)
	if raw == "" {
		return nil
	}
	price, ok := normalize.Price(raw)
	if !ok {
		return nil
	}
	return &price
}

// cartSignal inspects add-to-cart style controls and reports whether one is
// enabled or disabled. Used when no availability text is present.
func (h *helper) cartSignal(doc *goquery.Document, selectors []string) normalize.ControlSignal {
	for _, selector := range selectors {
		sel := h.find(doc, selector)
		if sel == nil || sel.Length() == 0 {
			continue
		}
		button := sel.First()
		if _, disabled := button.Attr("disabled"); disabled {
			return normalize.ControlDisabled
		}
		if class, _ := button.Attr("class"); strings.Contains(strings.ToLower(class), "disabled") {
			return normalize.ControlDisabled
		}
		return normalize.ControlEnabled
	}
	return normalize.NoSignal
}

// scanRating walks every matched review element and returns the first text
// yielding a 0-5 rating. Independent of scanReviewCount by design: a page may
// expose one without the other.
func (h *helper) scanRating(doc *goquery.Document, selectors []string) *float64 {
	for _, selector := range selectors {
		sel := h.find(doc, selector)
		if sel == nil {
			continue
		}
		var found *float64
		sel.EachWithBreak(func(_ int, s *goquery.Selection) bool {
			rating, ok := normalize.RatingValue(s.Text())
			if !ok {
				return true
			}
			found = &rating
			return false
		})
		if found != nil {
			return found
		}
	}
	return nil
}

// scanReviewCount walks every matched review element and returns the first
// parseable review count.
func (h *helper) scanReviewCount(doc *goquery.Document, selectors []string) *int {
	for _, selector := range selectors {
		sel := h.find(doc, selector)
		if sel == nil {
			continue
		}
		var found *int
		sel.EachWithBreak(func(_ int, s *goquery.Selection) bool {
			count, ok := normalize.ReviewCountValue(s.Text())
			if !ok {
				return true
			}
			found = &count
			return false
		})
		if found != nil {
			return found
		}
	}
	return nil
}

// description extracts and bounds the description text. List-structured
// descriptions are flattened by joining up to the first five items.
func (h *helper) description(doc *goquery.Document, selectors []string) string {
	for _, selector := range selectors {
		sel := h.find(doc, selector)
		if sel == nil || sel.Length() == 0 {
			continue
		}
		element := sel.First()

		var text string
		if items := element.Find("li"); items.Length() > 0 {
			parts := make([]string, 0, 5)
			items.EachWithBreak(func(i int, s *goquery.Selection) bool {
				if part := collapseSpace(s.Text()); part != "" {
					parts = append(parts, part)
				}
				return len(parts) < 5
			})
			text = strings.Join(parts, " | ")
		} else {
			text = collapseSpace(element.Text())
		}

		if text != "" {
			return h.clip(text)
		}
	}
	return ""
}

func (h *helper) clip(text string) string {
	limit := h.descLimit
	if limit <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}

// pageText returns the lowercased visible text for phrase scans.
func (h *helper) pageText(doc *goquery.Document) string {
	return strings.ToLower(doc.Text())
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
