package filters

import (
	"strconv"

	"github.com/pauljones0/steam-deal-digest/internal/models"
)

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func titles(rows []models.Product) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Title
	}
	return out
}

func withPercent(title string, pct *int) models.Product {
	return models.Product{Title: title, Link: "https://shop.example.com/" + title, PercentPositive: pct}
}

func withDiscount(title string, pct string) models.Product {
	p := models.Product{Title: title, Link: "https://shop.example.com/" + title}
	if pct != "" {
		p.VariantsByCurrency = map[string]models.Variant{
			"USD": {Currency: "USD", DiscountPercentage: models.FlexString(pct), OriginalPrice: 20},
		}
	}
	return p
}

func withSaleEnd(title string, ms int64, ok bool) models.Product {
	p := models.Product{Title: title, Link: "https://shop.example.com/" + title}
	if ok {
		p.VariantsByCurrency = map[string]models.Variant{
			"USD": {Currency: "USD", DiscountEndDate: models.FlexString(strconv.FormatInt(ms, 10)), OriginalPrice: 20},
		}
	}
	return p
}

// sampleRows exercises every field at least once, with gaps.
func sampleRows() []models.Product {
	sale := 4.99
	return []models.Product{
		{
			Title: "Hades", Link: "https://shop.example.com/hades", PercentPositive: intPtr(98),
			ReviewDesc: "Overwhelmingly Positive", TotalReviews: intPtr(250000), ReleaseDate: "Sep 17, 2020",
			Publisher: "Supergiant Games", Developer: "Supergiant Games", Tags: models.Tags{"Roguelike", "Action"},
			VariantsByCurrency: map[string]models.Variant{
				"USD": {Currency: "USD", DiscountPrice: &sale, DiscountPercentage: "80", DiscountEndDate: "1772323199999", OriginalPrice: 24.99},
			},
		},
		{
			Title: "Portal 2", Link: "https://shop.example.com/portal-2", PercentPositive: intPtr(99),
			ReviewDesc: "Overwhelmingly Positive", TotalReviews: intPtr(400000), ReleaseDate: "18 Apr 2011",
			Publisher: "Valve", Developer: "Valve", Tags: models.Tags{"Puzzle", "Co-op"},
		},
		{
			Title: "Unknown Indie", Link: "https://shop.example.com/unknown",
		},
	}
}
