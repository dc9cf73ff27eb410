// Package scoring rates how attractive a deal is for the email picks.
package scoring

import (
	"math"

	"github.com/pauljones0/steam-deal-digest/internal/models"
)

// Component weights. They sum to 1 so a fully maxed row scores 1.
const (
	WeightRating   = 0.25
	WeightReviews  = 0.20
	WeightDiscount = 0.20
	WeightOwners   = 0.20
	WeightCCU      = 0.15
)

// Log scales: the count at which each log component saturates is 10^scale.
const (
	reviewsLogScale = 6.0
	ownersLogScale  = 8.0
	ccuLogScale     = 5.0
)

// Breakdown holds the normalized [0,1] components of a score.
type Breakdown struct {
	Rating   float64 `json:"rating"`
	Reviews  float64 `json:"reviews"`
	Discount float64 `json:"discount"`
	Owners   float64 `json:"owners"`
	CCU      float64 `json:"ccu"`
}

// Total is the weighted sum of the components.
func (b Breakdown) Total() float64 {
	return WeightRating*b.Rating +
		WeightReviews*b.Reviews +
		WeightDiscount*b.Discount +
		WeightOwners*b.Owners +
		WeightCCU*b.CCU
}

// Components computes the score components. Missing data counts as 0, never as an exclusion.
func Components(p *models.Product) Breakdown {
	var b Breakdown
	if p.PercentPositive != nil {
		b.Rating = clamp01(float64(*p.PercentPositive) / 100)
	}
	if p.TotalReviews != nil {
		b.Reviews = logComponent(float64(*p.TotalReviews), reviewsLogScale)
	}
	if pct, ok := p.BestDiscount(); ok {
		b.Discount = clamp01(float64(pct) / 100)
	}
	if p.OwnersEstimate != nil {
		b.Owners = logComponent(float64(*p.OwnersEstimate), ownersLogScale)
	}
	if p.CCU != nil {
		b.CCU = logComponent(float64(*p.CCU), ccuLogScale)
	}
	return b
}

// Score is the pick score of a row, in [0,1].
func Score(p models.Product) float64 {
	return Components(&p).Total()
}

func logComponent(n, scale float64) float64 {
	if n <= 0 {
		return 0
	}
	return clamp01(math.Log10(1+n) / scale)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
