package allocator

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/pauljones0/steam-deal-digest/internal/models"
	"github.com/pauljones0/steam-deal-digest/internal/sampler"
)

// Drafts runs n independent allocations concurrently and returns them in draft order.
// Draft i draws from a source seeded with seed+i, and every draft keeps its own used set,
// so drafts may repeat each other's games but never repeat a game within themselves.
func Drafts(ctx context.Context, n int, index URLResolver, opts Options, seed uint64, blocks []models.Block, pool []models.Product) ([][][]models.Product, error) {
	if n <= 0 {
		return [][][]models.Product{}, nil
	}

	out := make([][][]models.Product, n)
	g, ctx := errgroup.WithContext(ctx)
	for i := range n {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("draft %d: %w", i, err)
			}
			draftOpts := opts
			draftOpts.Rand = sampler.NewSeeded(seed + uint64(i))
			out[i] = New(index, draftOpts).Allocate(blocks, pool)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
