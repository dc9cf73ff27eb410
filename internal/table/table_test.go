package table

import (
	"strings"
	"testing"

	"github.com/pauljones0/steam-deal-digest/internal/models"
)

func floatPtr(v float64) *float64 { return &v }

func TestBuild(t *testing.T) {
	products := []models.Product{
		{
			Title:    "Hades",
			Link:     "https://shop.example.com/hades",
			Platform: "W, M",
			VariantsByCurrency: map[string]models.Variant{
				"USD": {Currency: "USD", DiscountPrice: floatPtr(12.50), OriginalPrice: 25},
				"EUR": {Currency: "EUR", OriginalPrice: 24.50},
			},
		},
		{
			Title: "Left | Right",
			VariantsByCurrency: map[string]models.Variant{
				"GBP": {Currency: "GBP", DiscountPrice: floatPtr(5), OriginalPrice: 10},
				"CAD": {Currency: "CAD", OriginalPrice: 20},
			},
		},
		{Title: " ", Link: "https://shop.example.com/x"},
	}

	got := Build(products, []string{"USD", "EUR", "XYZ"}, 10)
	want := strings.Join([]string{
		"| Deals | Platform | % Off w/ code | US ($) | EUR (€) | XYZ | Types |",
		"| --- | --- | --- | --- | --- | --- | --- |",
		"| [Hades](https://shop.example.com/hades) | W, M | 55% | 11.25 | 22.05 | N/A | Steam |",
		`| Left \| Right | N/A | 10% | N/A | N/A | N/A | Steam |`,
		"| [Unknown](https://shop.example.com/x) | N/A | N/A | N/A | N/A | N/A | Steam |",
	}, "\n")

	if got != want {
		t.Errorf("Build() mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestBuild_Empty(t *testing.T) {
	if got := Build(nil, []string{"USD"}, 10); got != "" {
		t.Errorf("Build(nil) = %q, want empty", got)
	}
}

func TestBuild_NoCoupon(t *testing.T) {
	products := []models.Product{{
		Title: "Free",
		VariantsByCurrency: map[string]models.Variant{
			"USD": {Currency: "USD", DiscountPrice: floatPtr(0), OriginalPrice: 0},
		},
	}}
	got := Build(products, []string{"USD"}, 0)
	if !strings.HasSuffix(got, "| Free | N/A | 0% | 0.00 | Steam |") {
		t.Errorf("Build() = %q", got)
	}
}

func TestLabel(t *testing.T) {
	if got := Label("CAD"); got != "CA ($C)" {
		t.Errorf("Label(CAD) = %q", got)
	}
	if got := Label("JPY"); got != "JPY" {
		t.Errorf("Label(JPY) = %q", got)
	}
	for _, code := range AllCurrencies {
		if _, ok := CurrencyLabels[code]; !ok {
			t.Errorf("%s has no label", code)
		}
	}
}
