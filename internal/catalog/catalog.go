// Package catalog indexes parsed feed items by product URL.
package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/pauljones0/steam-deal-digest/internal/models"
	"github.com/pauljones0/steam-deal-digest/internal/util"
)

// FeedItem is one feed entry: a single product in a single currency.
type FeedItem struct {
	Title              string   `json:"title"`
	Link               string   `json:"link"`
	OperatingSystems   string   `json:"operatingSystems,omitempty"`
	Currency           string   `json:"currency"`
	DiscountPrice      *float64 `json:"discountPrice,omitempty"`
	DiscountPercentage string   `json:"discountPercentage,omitempty"`
	DiscountStartDate  string   `json:"discountStartDate,omitempty"`
	DiscountEndDate    string   `json:"discountEndDate,omitempty"`
	OriginalPrice      *float64 `json:"originalPrice,omitempty"`
	SteamAppID         *int     `json:"steam_app_id,omitempty"`
	CoverImage         string   `json:"cover_image,omitempty"`
}

// Index holds one product per normalized link, in first-seen order.
type Index struct {
	products map[string]*models.Product
	order    []string
}

// BuildIndex groups items by normalized link. Each product keeps the first variant
// seen per currency; blank title, platform, app id and cover image are filled from
// later items. steamMapping (normalized URL to app id) is applied last and wins.
func BuildIndex(items []FeedItem, steamMapping map[string]int) *Index {
	idx := &Index{products: make(map[string]*models.Product)}
	skipped := 0
	for _, it := range items {
		link := strings.TrimSpace(it.Link)
		key := util.NormalizeURL(link)
		currency := strings.ToUpper(strings.TrimSpace(it.Currency))
		if key == "" || currency == "" {
			skipped++
			continue
		}

		title := strings.TrimSpace(it.Title)
		platform := PlatformAbbrev(it.OperatingSystems)
		p, ok := idx.products[key]
		if !ok {
			p = &models.Product{
				Title:              title,
				Link:               link,
				Platform:           platform,
				SteamAppID:         it.SteamAppID,
				CoverImage:         it.CoverImage,
				VariantsByCurrency: make(map[string]models.Variant),
			}
			idx.products[key] = p
			idx.order = append(idx.order, key)
		}

		if _, seen := p.VariantsByCurrency[currency]; !seen {
			v := models.Variant{
				Currency:           currency,
				DiscountPrice:      it.DiscountPrice,
				DiscountPercentage: models.FlexString(strings.TrimSpace(it.DiscountPercentage)),
				DiscountStartDate:  models.FlexString(strings.TrimSpace(it.DiscountStartDate)),
				DiscountEndDate:    models.FlexString(strings.TrimSpace(it.DiscountEndDate)),
			}
			if it.OriginalPrice != nil {
				v.OriginalPrice = *it.OriginalPrice
			}
			p.VariantsByCurrency[currency] = v
		}
		if p.Platform == "" {
			p.Platform = platform
		}
		if p.Title == "" {
			p.Title = title
		}
		if p.SteamAppID == nil && it.SteamAppID != nil {
			p.SteamAppID = it.SteamAppID
		}
		if p.CoverImage == "" {
			p.CoverImage = it.CoverImage
		}
	}

	for url, appID := range steamMapping {
		if p, ok := idx.products[util.NormalizeURL(url)]; ok {
			id := appID
			p.SteamAppID = &id
		}
	}

	if skipped > 0 {
		slog.Warn("Skipped feed items without link or currency", "count", skipped)
	}
	slog.Info("Built product index", "items", len(items), "products", len(idx.order))
	return idx
}

// IndexFromProducts indexes already-built product rows. Later rows with the same link are ignored.
func IndexFromProducts(rows []models.Product) *Index {
	idx := &Index{products: make(map[string]*models.Product)}
	for i := range rows {
		key := util.NormalizeURL(rows[i].Link)
		if key == "" {
			continue
		}
		if _, ok := idx.products[key]; ok {
			continue
		}
		p := rows[i]
		idx.products[key] = &p
		idx.order = append(idx.order, key)
	}
	return idx
}

func (idx *Index) Len() int {
	return len(idx.order)
}

// Get returns the product for url, matched after normalization.
func (idx *Index) Get(url string) (models.Product, bool) {
	p, ok := idx.products[util.NormalizeURL(url)]
	if !ok {
		return models.Product{}, false
	}
	return *p, true
}

// Products returns every product in first-seen order.
func (idx *Index) Products() []models.Product {
	out := make([]models.Product, 0, len(idx.order))
	for _, key := range idx.order {
		out = append(out, *idx.products[key])
	}
	return out
}

// ResolveURLs maps pasted URLs to products in order of first appearance, without repeats.
// Unknown URLs are returned trimmed in notFound; blank entries are ignored.
func (idx *Index) ResolveURLs(urls []string) (products []models.Product, notFound []string) {
	seen := make(map[string]bool)
	for _, raw := range urls {
		key := util.NormalizeURL(raw)
		if key == "" {
			continue
		}
		p, ok := idx.products[key]
		if !ok {
			notFound = append(notFound, strings.TrimSpace(raw))
			continue
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		products = append(products, *p)
	}
	return products, notFound
}

// OnSale returns the products with a discount in any currency, in first-seen order.
func (idx *Index) OnSale() []models.Product {
	var out []models.Product
	for _, key := range idx.order {
		if p := idx.products[key]; p.IsOnSale() {
			out = append(out, *p)
		}
	}
	return out
}

// PlatformAbbrev turns a feed operatingSystems value into "W, M, L" style.
func PlatformAbbrev(systems string) string {
	upper := strings.ToUpper(systems)
	var parts []string
	if strings.Contains(upper, "WINDOWS") {
		parts = append(parts, "W")
	}
	if strings.Contains(upper, "MAC") {
		parts = append(parts, "M")
	}
	if strings.Contains(upper, "LINUX") {
		parts = append(parts, "L")
	}
	return strings.Join(parts, ", ")
}

// SortByRating orders rows best rated first, then by review count. Rows without a
// rating go last. The sort is stable and returns a new slice.
func SortByRating(rows []models.Product) []models.Product {
	out := append([]models.Product(nil), rows...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].PercentPositive, out[j].PercentPositive
		if a == nil || b == nil {
			return a != nil && b == nil
		}
		if *a != *b {
			return *a > *b
		}
		return reviews(&out[i]) > reviews(&out[j])
	})
	return out
}

func reviews(p *models.Product) int {
	if p.TotalReviews == nil {
		return 0
	}
	return *p.TotalReviews
}

// LoadSteamMapping reads a JSON object of product URL to Steam app id.
// Values may be numbers or numeric strings; nulls and unparsable values are skipped.
func LoadSteamMapping(r io.Reader) (map[string]int, error) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode steam mapping: %w", err)
	}
	out := make(map[string]int, len(raw))
	for url, v := range raw {
		var s models.FlexString
		if err := json.Unmarshal(v, &s); err != nil {
			continue
		}
		id, err := strconv.Atoi(strings.TrimSpace(string(s)))
		if err != nil {
			continue
		}
		out[util.NormalizeURL(url)] = id
	}
	return out, nil
}
