package allocator

import "github.com/pauljones0/steam-deal-digest/internal/models"

// URLResolver maps pasted product URLs to catalog products. *catalog.Index implements it.
type URLResolver interface {
	ResolveURLs(urls []string) (products []models.Product, notFound []string)
}
