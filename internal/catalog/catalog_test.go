package catalog

import (
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/pauljones0/steam-deal-digest/internal/models"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func titles(rows []models.Product) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Title
	}
	return out
}

func feed() []FeedItem {
	return []FeedItem{
		{Title: "Hades", Link: "https://shop.example.com/hades", OperatingSystems: "Windows, macOS", Currency: "usd", DiscountPrice: floatPtr(12.49), DiscountPercentage: "50", OriginalPrice: floatPtr(24.99), DiscountEndDate: "1772323200000"},
		{Title: "", Link: "https://shop.example.com/hades/", Currency: "EUR", OriginalPrice: floatPtr(24.50), CoverImage: "https://img.example.com/hades.jpg"},
		{Title: "Hades duplicate", Link: "https://shop.example.com/hades#x", Currency: "USD", OriginalPrice: floatPtr(99)},
		{Title: "Portal 2", Link: "https://shop.example.com/portal-2", OperatingSystems: "Windows Linux", Currency: "USD", OriginalPrice: floatPtr(9.99), SteamAppID: intPtr(620)},
		{Title: "No currency", Link: "https://shop.example.com/nope"},
		{Title: "No link", Currency: "USD"},
		{Title: "Celeste", Link: "https://shop.example.com/celeste", Currency: "CAD", DiscountPercentage: " 75 ", OriginalPrice: floatPtr(25)},
	}
}

func TestBuildIndex(t *testing.T) {
	idx := BuildIndex(feed(), map[string]int{"https://shop.example.com/hades/": 1145360})

	if idx.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", idx.Len())
	}
	if got, want := titles(idx.Products()), []string{"Hades", "Portal 2", "Celeste"}; !slices.Equal(got, want) {
		t.Errorf("Products() = %v, want %v", got, want)
	}

	hades, ok := idx.Get("https://shop.example.com/hades")
	if !ok {
		t.Fatal("Hades not indexed")
	}
	want := models.Product{
		Title:      "Hades",
		Link:       "https://shop.example.com/hades",
		Platform:   "W, M",
		CoverImage: "https://img.example.com/hades.jpg",
		SteamAppID: intPtr(1145360),
		VariantsByCurrency: map[string]models.Variant{
			"USD": {Currency: "USD", DiscountPrice: floatPtr(12.49), DiscountPercentage: "50", DiscountEndDate: "1772323200000", OriginalPrice: 24.99},
			"EUR": {Currency: "EUR", OriginalPrice: 24.50},
		},
	}
	if diff := cmp.Diff(want, hades); diff != "" {
		t.Errorf("Hades mismatch (-want +got):\n%s", diff)
	}

	portal, _ := idx.Get("https://shop.example.com/portal-2/")
	if portal.SteamAppID == nil || *portal.SteamAppID != 620 {
		t.Errorf("Portal 2 app id = %v, want 620", portal.SteamAppID)
	}
	if portal.Platform != "W, L" {
		t.Errorf("Portal 2 platform = %q, want %q", portal.Platform, "W, L")
	}
}

func TestBuildIndex_FillsBlankTitle(t *testing.T) {
	items := []FeedItem{
		{Link: "https://shop.example.com/a", Currency: "USD"},
		{Title: "Named later", Link: "https://shop.example.com/a", Currency: "EUR", OperatingSystems: "Linux"},
	}
	p, _ := BuildIndex(items, nil).Get("https://shop.example.com/a")
	if p.Title != "Named later" || p.Platform != "L" {
		t.Errorf("got title %q platform %q", p.Title, p.Platform)
	}
}

func TestResolveURLs(t *testing.T) {
	idx := BuildIndex(feed(), nil)
	products, notFound := idx.ResolveURLs([]string{
		"https://shop.example.com/celeste",
		" https://shop.example.com/missing ",
		"",
		"https://shop.example.com/hades/",
		"https://shop.example.com/celeste#reviews",
	})

	if got, want := titles(products), []string{"Celeste", "Hades"}; !slices.Equal(got, want) {
		t.Errorf("products = %v, want %v", got, want)
	}
	if want := []string{"https://shop.example.com/missing"}; !slices.Equal(notFound, want) {
		t.Errorf("notFound = %v, want %v", notFound, want)
	}
}

func TestOnSale(t *testing.T) {
	idx := BuildIndex(feed(), nil)
	if got, want := titles(idx.OnSale()), []string{"Hades", "Celeste"}; !slices.Equal(got, want) {
		t.Errorf("OnSale() = %v, want %v", got, want)
	}
}

func TestIndexFromProducts(t *testing.T) {
	rows := []models.Product{
		{Title: "A", Link: "https://shop.example.com/a/"},
		{Title: "No link"},
		{Title: "A again", Link: "https://shop.example.com/a"},
		{Title: "B", Link: "https://shop.example.com/b"},
	}
	idx := IndexFromProducts(rows)
	if got, want := titles(idx.Products()), []string{"A", "B"}; !slices.Equal(got, want) {
		t.Errorf("Products() = %v, want %v", got, want)
	}
}

func TestPlatformAbbrev(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"Windows", "W"},
		{"linux, mac, windows", "W, M, L"},
		{"macOS", "M"},
		{"PlayStation", ""},
	}
	for _, tt := range tests {
		if got := PlatformAbbrev(tt.input); got != tt.want {
			t.Errorf("PlatformAbbrev(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSortByRating(t *testing.T) {
	pct := func(v int) *int { return &v }
	rows := []models.Product{
		{Title: "Unrated"},
		{Title: "Good few", PercentPositive: pct(90), TotalReviews: pct(10)},
		{Title: "Great", PercentPositive: pct(97)},
		{Title: "Good many", PercentPositive: pct(90), TotalReviews: pct(5000)},
		{Title: "Unrated 2", TotalReviews: pct(100)},
	}
	got := titles(SortByRating(rows))
	want := []string{"Great", "Good many", "Good few", "Unrated", "Unrated 2"}
	if !slices.Equal(got, want) {
		t.Errorf("SortByRating() = %v, want %v", got, want)
	}
	if rows[0].Title != "Unrated" {
		t.Error("SortByRating modified its input")
	}
}

func TestLoadSteamMapping(t *testing.T) {
	input := `{
		"https://shop.example.com/hades/": 1145360,
		"https://shop.example.com/portal-2": "620",
		"https://shop.example.com/none": null,
		"https://shop.example.com/bad": "abc"
	}`
	got, err := LoadSteamMapping(strings.NewReader(input))
	if err != nil {
		t.Fatalf("LoadSteamMapping() error = %v", err)
	}
	want := map[string]int{
		"https://shop.example.com/hades":    1145360,
		"https://shop.example.com/portal-2": 620,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mapping mismatch (-want +got):\n%s", diff)
	}

	if _, err := LoadSteamMapping(strings.NewReader("[1,2]")); err == nil {
		t.Error("expected an error for a non-object mapping")
	}
}
