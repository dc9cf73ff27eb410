package filters

import "github.com/pauljones0/steam-deal-digest/internal/models"

// Pipeline applies filters in order.
type Pipeline []Filter

// Apply runs every filter over the rows.
func (p Pipeline) Apply(rows []models.Product, c models.Criteria) []models.Product {
	for _, f := range p {
		rows = f(rows, c)
	}
	return rows
}

var (
	// Deal is the shared deal pipeline used by both the deal finder and the email pool.
	Deal = Pipeline{Score, MinReviews, Discount, Price, SaleEnd}

	// Finder adds the deal finder's search, release-date and text filters.
	Finder = Pipeline{Score, MinReviews, Discount, Price, SaleEnd, Title, ReleaseDate, Publisher, Developer, Tags}

	// EmailPool adds the text filters the email builder applies after the shared pipeline.
	EmailPool = Pipeline{Score, MinReviews, Discount, Price, SaleEnd, Publisher, Developer, Tags}

	// Block is what each content block applies to the pool from its own settings.
	Block = Pipeline{Publisher, Developer, Tags, Price, Discount}
)

// BlockCriteria turns a block's settings into criteria for the Block pipeline.
func BlockCriteria(cfg models.BlockConfig, currency string) models.Criteria {
	return models.Criteria{
		Publisher: cfg.Publisher,
		Developer: cfg.Developer,
		Tags:      cfg.Tags,
		Price:     cfg.PriceValue,
		Currency:  currency,
		Discount:  cfg.DiscountValue,
	}
}

// ApplyAll runs the full deal finder chain.
func ApplyAll(rows []models.Product, c models.Criteria) []models.Product {
	return Finder.Apply(rows, c)
}
