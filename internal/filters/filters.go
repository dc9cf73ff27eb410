// Package filters holds the deal predicates and sorters. Every filter takes the
// rows and the invocation's criteria and returns the rows that pass, possibly
// reordered. Blank, "All" or malformed criteria leave the rows untouched.
package filters

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/pauljones0/steam-deal-digest/internal/models"
)

// Filter is one step of a filter pipeline.
type Filter func(rows []models.Product, c models.Criteria) []models.Product

func keep(rows []models.Product, ok func(*models.Product) bool) []models.Product {
	out := make([]models.Product, 0, len(rows))
	for i := range rows {
		if ok(&rows[i]) {
			out = append(out, rows[i])
		}
	}
	return out
}

// Score filters on the Steam review score.
//
//	Exact %  : percent positive within 1 point of the value
//	Operator : numeric expression against percent positive
//	Label    : review label matches and percent meets the label's minimum
//
// Rows without a percent never pass a score filter.
func Score(rows []models.Product, c models.Criteria) []models.Product {
	switch models.ScoreFilterType(strings.TrimSpace(string(c.ScoreType))) {
	case models.ScoreExact:
		target, err := strconv.Atoi(strings.TrimSpace(c.ScoreValue))
		if err != nil {
			return rows
		}
		return keep(rows, func(p *models.Product) bool {
			if p.PercentPositive == nil {
				return false
			}
			d := *p.PercentPositive - target
			return d >= -1 && d <= 1
		})
	case models.ScoreOperator:
		expr, ok := ParseNumericOperatorExpression(c.ScoreValue)
		if !ok {
			return rows
		}
		return keep(rows, func(p *models.Product) bool {
			return p.PercentPositive != nil && expr.Match(float64(*p.PercentPositive))
		})
	case models.ScoreLabel:
		label := strings.TrimSpace(c.Label)
		minPct, ok := models.LabelMinPercent[label]
		if !ok {
			return rows
		}
		return keep(rows, func(p *models.Product) bool {
			return p.PercentPositive != nil &&
				*p.PercentPositive >= minPct &&
				strings.TrimSpace(p.ReviewDesc) == label
		})
	}
	return rows
}

// MinReviews keeps rows with at least the given number of Steam reviews.
func MinReviews(rows []models.Product, c models.Criteria) []models.Product {
	n, err := strconv.Atoi(strings.TrimSpace(c.MinReviews))
	if err != nil || n <= 0 {
		return rows
	}
	return keep(rows, func(p *models.Product) bool {
		return p.TotalReviews != nil && *p.TotalReviews >= n
	})
}

// Discount compares the best discount across currencies with the expression.
func Discount(rows []models.Product, c models.Criteria) []models.Product {
	expr, ok := ParseNumericOperatorExpression(c.Discount)
	if !ok {
		return rows
	}
	return keep(rows, func(p *models.Product) bool {
		pct, ok := p.BestDiscount()
		return ok && expr.Match(float64(pct))
	})
}

// Price compares the current price in the criteria currency (USD when unset).
// Rows without a variant in that currency are dropped.
func Price(rows []models.Product, c models.Criteria) []models.Product {
	expr, ok := ParseNumericOperatorExpression(c.Price)
	if !ok {
		return rows
	}
	currency := c.Currency
	if strings.TrimSpace(currency) == "" {
		currency = "USD"
	}
	return keep(rows, func(p *models.Product) bool {
		price, ok := p.PriceFor(currency)
		return ok && expr.Match(price)
	})
}

// SaleEnd sorts or filters on the latest discount end date across variants.
func SaleEnd(rows []models.Product, c models.Criteria) []models.Product {
	return byDate(rows, c.SaleEndType, c.SaleEndValue, func(p *models.Product) (int64, bool) {
		return p.SaleEndMillis()
	})
}

// ReleaseDate sorts or filters on the Steam release date.
func ReleaseDate(rows []models.Product, c models.Criteria) []models.Product {
	return byDate(rows, c.ReleaseType, c.ReleaseValue, ReleaseDateMillis)
}

// ReleaseDateMillis parses the row's Steam release date.
func ReleaseDateMillis(p *models.Product) (int64, bool) {
	return ParseReleaseDate(p.ReleaseDate)
}

func byDate(rows []models.Product, typ models.DateFilterType, value string, key func(*models.Product) (int64, bool)) []models.Product {
	switch normalizeDateType(typ) {
	case models.DateEndingSoon, models.DateOldest:
		return sortByDate(rows, key, false)
	case models.DateEndingLatest, models.DateNewest:
		return sortByDate(rows, key, true)
	case models.DateByDate:
		expr := ParseDateFilterExpression(value)
		if expr.Mode == DateModeNone {
			return rows
		}
		return keep(rows, func(p *models.Product) bool {
			ms, ok := key(p)
			return ok && expr.Match(ms)
		})
	}
	return rows
}

func normalizeDateType(typ models.DateFilterType) models.DateFilterType {
	s := strings.TrimSpace(string(typ))
	for _, known := range []models.DateFilterType{
		models.DateEndingSoon, models.DateEndingLatest, models.DateNewest, models.DateOldest, models.DateByDate,
	} {
		if strings.EqualFold(s, string(known)) {
			return known
		}
	}
	return models.DateAll
}

// sortByDate is a stable sort; rows without a date go last in both directions.
func sortByDate(rows []models.Product, key func(*models.Product) (int64, bool), desc bool) []models.Product {
	type keyed struct {
		row models.Product
		ms  int64
		ok  bool
	}
	ks := make([]keyed, len(rows))
	for i := range rows {
		ms, ok := key(&rows[i])
		ks[i] = keyed{row: rows[i], ms: ms, ok: ok}
	}
	slices.SortStableFunc(ks, func(a, b keyed) int {
		if a.ok != b.ok {
			if a.ok {
				return -1
			}
			return 1
		}
		if !a.ok {
			return 0
		}
		if desc {
			return cmp.Compare(b.ms, a.ms)
		}
		return cmp.Compare(a.ms, b.ms)
	})
	out := make([]models.Product, len(ks))
	for i, k := range ks {
		out[i] = k.row
	}
	return out
}

// Title keeps rows whose title contains the query, ignoring case.
func Title(rows []models.Product, c models.Criteria) []models.Product {
	return containing(rows, c.Title, func(p *models.Product) []string { return []string{p.Title} })
}

// Publisher keeps rows whose Steam publisher contains the query, ignoring case.
func Publisher(rows []models.Product, c models.Criteria) []models.Product {
	return containing(rows, c.Publisher, func(p *models.Product) []string { return []string{p.Publisher} })
}

// Developer keeps rows whose Steam developer contains the query, ignoring case.
func Developer(rows []models.Product, c models.Criteria) []models.Product {
	return containing(rows, c.Developer, func(p *models.Product) []string { return []string{p.Developer} })
}

// Tags keeps rows with at least one tag containing the query, ignoring case.
func Tags(rows []models.Product, c models.Criteria) []models.Product {
	return containing(rows, c.Tags, func(p *models.Product) []string { return p.Tags })
}

func containing(rows []models.Product, query string, fields func(*models.Product) []string) []models.Product {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return rows
	}
	return keep(rows, func(p *models.Product) bool {
		for _, f := range fields(p) {
			if strings.Contains(strings.ToLower(strings.TrimSpace(f)), q) {
				return true
			}
		}
		return false
	})
}
