package allocator

import (
	"log/slog"
	"time"
	_ "time/tzdata"

	"github.com/pauljones0/steam-deal-digest/internal/models"
)

const offerEndsLayout = "Jan 02, 2006 03:04 PM EST"

var eastern = loadEastern()

func loadEastern() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		slog.Warn("Failed to load America/New_York, using fixed UTC-5", "error", err)
		return time.FixedZone("EST", -5*60*60)
	}
	return loc
}

// FormatOfferEnds renders a Unix millisecond sale end in New York time,
// e.g. "Feb 20, 2026 11:59 PM EST".
func FormatOfferEnds(ms int64) string {
	return time.UnixMilli(ms).In(eastern).Format(offerEndsLayout)
}

// WithSaleEndDisplay returns a copy of rows with SaleEndDisplay set to
// "Offer ends <time>" for rows that have a sale end, and cleared otherwise.
func WithSaleEndDisplay(rows []models.Product) []models.Product {
	out := make([]models.Product, len(rows))
	for i, p := range rows {
		p.SaleEndDisplay = ""
		if ms, ok := p.SaleEndMillis(); ok {
			p.SaleEndDisplay = "Offer ends " + FormatOfferEnds(ms)
		}
		out[i] = p
	}
	return out
}
