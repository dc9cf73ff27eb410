// Package table renders deal rows as a Reddit Markdown table.
package table

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/pauljones0/steam-deal-digest/internal/models"
)

// CurrencyLabels are the column headers for each supported currency.
var CurrencyLabels = map[string]string{
	"USD": "US ($)",
	"GBP": "UK (£)",
	"EUR": "EUR (€)",
	"CAD": "CA ($C)",
	"AUD": "AU ($)",
	"NZD": "NZ ($)",
	"PLN": "PL (zł)",
	"BRL": "BR (R$)",
	"INR": "IN (₹)",
	"IDR": "ID (Rp)",
	"CNY": "CN (¥)",
}

// AllCurrencies lists the supported codes in column order.
var AllCurrencies = []string{"USD", "GBP", "EUR", "CAD", "AUD", "NZD", "PLN", "BRL", "INR", "IDR", "CNY"}

// Label returns the header for a currency code, or the code itself when unknown.
func Label(code string) string {
	if l, ok := CurrencyLabels[code]; ok {
		return l
	}
	return code
}

// Build renders products with one price column per currency, each price reduced by
// couponPercent. It returns "" when there are no products.
func Build(products []models.Product, currencies []string, couponPercent float64) string {
	if len(products) == 0 {
		return ""
	}
	mult := 1 - couponPercent/100

	header := []string{"Deals", "Platform", "% Off w/ code"}
	for _, code := range currencies {
		header = append(header, Label(code))
	}
	header = append(header, "Types")

	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = "---"
	}

	var b strings.Builder
	writeRow(&b, header)
	b.WriteByte('\n')
	writeRow(&b, sep)

	for _, p := range products {
		cells := make([]string, 0, len(header))
		cells = append(cells, dealCell(p), orNA(strings.TrimSpace(p.Platform)), percentCell(p, mult))
		for _, code := range currencies {
			v, ok := p.VariantsByCurrency[code]
			if !ok {
				cells = append(cells, "N/A")
				continue
			}
			cells = append(cells, fmt.Sprintf("%.2f", basePrice(v)*mult))
		}
		cells = append(cells, "Steam")

		for i, c := range cells {
			cells[i] = strings.ReplaceAll(c, "|", `\|`)
		}
		b.WriteByte('\n')
		writeRow(&b, cells)
	}
	return b.String()
}

func writeRow(b *strings.Builder, cells []string) {
	b.WriteString("| ")
	b.WriteString(strings.Join(cells, " | "))
	b.WriteString(" |")
}

func dealCell(p models.Product) string {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		title = "Unknown"
	}
	link := strings.TrimSpace(p.Link)
	if link == "" {
		return title
	}
	return fmt.Sprintf("[%s](%s)", title, link)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func basePrice(v models.Variant) float64 {
	if v.DiscountPrice != nil {
		return *v.DiscountPrice
	}
	return v.OriginalPrice
}

// percentCell is the discount after the coupon, measured on the USD variant or
// else the first variant by currency code.
func percentCell(p models.Product, mult float64) string {
	v, ok := p.VariantsByCurrency["USD"]
	if !ok {
		codes := make([]string, 0, len(p.VariantsByCurrency))
		for code := range p.VariantsByCurrency {
			codes = append(codes, code)
		}
		if len(codes) == 0 {
			return "N/A"
		}
		slices.Sort(codes)
		v = p.VariantsByCurrency[codes[0]]
	}
	return fmt.Sprintf("%d%%", percentOff(v, mult))
}

func percentOff(v models.Variant, mult float64) int {
	if v.OriginalPrice <= 0 {
		return 0
	}
	return int(math.RoundToEven((1 - basePrice(v)*mult/v.OriginalPrice) * 100))
}
