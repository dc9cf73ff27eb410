package models

import (
	"encoding/json"
	"testing"
)

func TestProductUnmarshal_FlexibleFields(t *testing.T) {
	raw := `{
		"title": "Hades",
		"link": "https://shop.example.com/hades/",
		"steam_app_id": 1145360,
		"variants_by_currency": {
			"USD": {"currency": "USD", "discountPrice": 12.49, "discountPercentage": "50", "discountEndDate": 1772323199999, "originalPrice": 24.99},
			"EUR": {"currency": "EUR", "discountPercentage": "40", "discountEndDate": "1772409599999", "originalPrice": 24.5}
		},
		"steam_percent_positive": 98,
		"steam_total_reviews": null,
		"steam_tags": "Roguelike, Action"
	}`

	var p Product
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if p.PercentPositive == nil || *p.PercentPositive != 98 {
		t.Errorf("PercentPositive = %v, want 98", p.PercentPositive)
	}
	if p.TotalReviews != nil {
		t.Errorf("TotalReviews = %v, want nil", *p.TotalReviews)
	}
	if len(p.Tags) != 1 || p.Tags[0] != "Roguelike, Action" {
		t.Errorf("Tags = %v, want single plain-string entry", p.Tags)
	}
	if got := p.VariantsByCurrency["USD"].DiscountEndDate; got != "1772323199999" {
		t.Errorf("numeric DiscountEndDate decoded as %q", got)
	}

	end, ok := p.SaleEndMillis()
	if !ok || end != 1772409599999 {
		t.Errorf("SaleEndMillis() = %d, %v; want latest end 1772409599999", end, ok)
	}
	best, ok := p.BestDiscount()
	if !ok || best != 50 {
		t.Errorf("BestDiscount() = %d, %v; want 50", best, ok)
	}
}

func TestProduct_PriceFor(t *testing.T) {
	sale := 5.0
	p := Product{VariantsByCurrency: map[string]Variant{
		"USD": {Currency: "USD", DiscountPrice: &sale, OriginalPrice: 10},
		"GBP": {Currency: "GBP", OriginalPrice: 8},
	}}

	tests := []struct {
		currency string
		want     float64
		wantOK   bool
	}{
		{"USD", 5, true},
		{"usd", 5, true},
		{"GBP", 8, true},
		{"CAD", 0, false},
	}
	for _, tt := range tests {
		got, ok := p.PriceFor(tt.currency)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("PriceFor(%q) = %v, %v; want %v, %v", tt.currency, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestProduct_BestDiscountIgnoresGarbage(t *testing.T) {
	p := Product{VariantsByCurrency: map[string]Variant{
		"USD": {DiscountPercentage: "abc"},
		"EUR": {DiscountPercentage: " "},
	}}
	if _, ok := p.BestDiscount(); ok {
		t.Error("BestDiscount() should report no discount for unparseable values")
	}
	if !p.IsOnSale() {
		// "abc" is non-blank, which still counts as a sale marker.
		t.Error("IsOnSale() = false, want true for non-blank discount percentage")
	}
}

func TestProduct_IsOnSale(t *testing.T) {
	price := 3.0
	tests := []struct {
		name string
		p    Product
		want bool
	}{
		{"no variants", Product{}, false},
		{"discount price", Product{VariantsByCurrency: map[string]Variant{"USD": {DiscountPrice: &price}}}, true},
		{"blank percentage", Product{VariantsByCurrency: map[string]Variant{"USD": {DiscountPercentage: "  "}}}, false},
		{"percentage", Product{VariantsByCurrency: map[string]Variant{"USD": {DiscountPercentage: "20"}}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.IsOnSale(); got != tt.want {
				t.Errorf("IsOnSale() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProduct_DedupKey(t *testing.T) {
	id := 620
	tests := []struct {
		name   string
		p      Product
		want   DedupKey
		wantOK bool
	}{
		{"link wins", Product{Link: "https://a.example/portal-2/", SteamAppID: &id}, DedupKey{URL: "https://a.example/portal-2"}, true},
		{"steam fallback", Product{Link: "  ", SteamAppID: &id}, DedupKey{SteamAppID: 620}, true},
		{"unkeyable", Product{Title: "Mystery"}, DedupKey{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.p.DedupKey()
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("DedupKey() = %+v, %v; want %+v, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestBlockType_WantsGames(t *testing.T) {
	tests := []struct {
		t    BlockType
		want bool
	}{
		{"deal_list", true},
		{" Featured ", true},
		{"header", false},
		{"game_screenshots", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := tt.t.WantsGames(); got != tt.want {
			t.Errorf("BlockType(%q).WantsGames() = %v, want %v", tt.t, got, tt.want)
		}
	}
}
