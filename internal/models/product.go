package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNoRows is returned at the API boundary when a request carries no product rows.
var ErrNoRows = errors.New("no product rows supplied")

// Variant is a product's price and discount data for one currency.
// Discount dates are Unix milliseconds; the feed emits them as strings.
type Variant struct {
	Currency           string     `json:"currency" validate:"required,currency"`
	DiscountPrice      *float64   `json:"discountPrice,omitempty" validate:"omitempty,gte=0"`
	DiscountPercentage FlexString `json:"discountPercentage,omitempty"`
	DiscountStartDate  FlexString `json:"discountStartDate,omitempty"`
	DiscountEndDate    FlexString `json:"discountEndDate,omitempty"`
	OriginalPrice      float64    `json:"originalPrice" validate:"gte=0"`
}

// Product is one deal row: feed data plus the Steam/SteamSpy enrichment.
// Nil pointers and empty strings mean the enrichment had no data.
type Product struct {
	Title              string             `json:"title" validate:"required"`
	Link               string             `json:"link" validate:"omitempty,url"`
	Platform           string             `json:"platform,omitempty"`
	CoverImage         string             `json:"cover_image,omitempty"`
	SteamAppID         *int               `json:"steam_app_id,omitempty" validate:"omitempty,gt=0"`
	VariantsByCurrency map[string]Variant `json:"variants_by_currency,omitempty" validate:"dive"`

	PercentPositive *int   `json:"steam_percent_positive" validate:"omitempty,min=0,max=100"`
	ReviewDesc      string `json:"steam_review_desc,omitempty"`
	TotalReviews    *int   `json:"steam_total_reviews" validate:"omitempty,gte=0"`
	ReleaseDate     string `json:"steam_release_date,omitempty"`
	Developer       string `json:"steam_developer,omitempty"`
	Publisher       string `json:"steam_publisher,omitempty"`
	Tags            Tags   `json:"steam_tags,omitempty"`
	OwnersEstimate  *int64 `json:"steamspy_owners_estimate" validate:"omitempty,gte=0"`
	CCU             *int64 `json:"steamspy_ccu" validate:"omitempty,gte=0"`

	ShortDescription string `json:"short_description,omitempty"`
	SaleEndDisplay   string `json:"sale_end_display,omitempty"`
}

// FlexString accepts either a JSON string or a JSON number.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("flex string: %w", err)
	}
	*f = FlexString(n.String())
	return nil
}

// Int parses the value as an integer. Float-looking values such as "1700000000000.0" are truncated.
func (f FlexString) Int() (int64, bool) {
	s := strings.TrimSpace(string(f))
	if s == "" {
		return 0, false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true
	}
	fl, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return int64(fl), true
}

// Tags is the Steam tag list. It also decodes a plain string, which is kept as a single entry.
type Tags []string

func (t *Tags) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = nil
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if strings.TrimSpace(s) == "" {
			*t = nil
			return nil
		}
		*t = Tags{s}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("steam tags: %w", err)
	}
	*t = list
	return nil
}

// IsOnSale reports whether any variant carries a discount price or a non-blank discount percentage.
func (p *Product) IsOnSale() bool {
	for _, v := range p.VariantsByCurrency {
		if v.DiscountPrice != nil {
			return true
		}
		if strings.TrimSpace(string(v.DiscountPercentage)) != "" {
			return true
		}
	}
	return false
}

// BestDiscount returns the highest integer discount percentage across variants.
func (p *Product) BestDiscount() (int, bool) {
	best, found := 0, false
	for _, v := range p.VariantsByCurrency {
		s := strings.TrimSpace(string(v.DiscountPercentage))
		if s == "" {
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			continue
		}
		if !found || n > best {
			best, found = n, true
		}
	}
	return best, found
}

// SaleEndMillis returns the latest discount end timestamp across variants.
func (p *Product) SaleEndMillis() (int64, bool) {
	var latest int64
	found := false
	for _, v := range p.VariantsByCurrency {
		ms, ok := v.DiscountEndDate.Int()
		if !ok {
			continue
		}
		if !found || ms > latest {
			latest, found = ms, true
		}
	}
	return latest, found
}

// PriceFor returns the current price in currency: the discount price when set, else the original price.
func (p *Product) PriceFor(currency string) (float64, bool) {
	v, ok := p.VariantsByCurrency[strings.ToUpper(strings.TrimSpace(currency))]
	if !ok {
		return 0, false
	}
	if v.DiscountPrice != nil {
		return *v.DiscountPrice, true
	}
	return v.OriginalPrice, true
}
