// Package allocator assigns pool games to email content blocks so that no game
// appears in more than one block.
package allocator

import (
	"log/slog"
	"strings"

	"github.com/pauljones0/steam-deal-digest/internal/filters"
	"github.com/pauljones0/steam-deal-digest/internal/models"
	"github.com/pauljones0/steam-deal-digest/internal/sampler"
	"github.com/pauljones0/steam-deal-digest/internal/scoring"
	"github.com/pauljones0/steam-deal-digest/internal/util"
)

// DefaultGamesCount is used when a deal list leaves games_count unset.
const DefaultGamesCount = 4

// Options configures an Allocator.
type Options struct {
	// Currency is used by each block's price filter. Defaults to USD.
	Currency string
	// DefaultCount replaces a zero games_count on deal lists.
	DefaultCount int
	// Rand drives the weighted draws. Nil uses the process-wide generator.
	Rand sampler.Source
}

// Allocator runs block allocation over a pool of filtered rows.
// An Allocator holds its random source and is not safe for concurrent use.
type Allocator struct {
	index URLResolver
	opts  Options
}

// New creates an Allocator. index may be nil, in which case URL overrides
// are ignored and Steam id overrides are used instead.
func New(index URLResolver, opts Options) *Allocator {
	if strings.TrimSpace(opts.Currency) == "" {
		opts.Currency = "USD"
	}
	if opts.DefaultCount == 0 {
		opts.DefaultCount = DefaultGamesCount
	}
	return &Allocator{index: index, opts: opts}
}

// Allocate processes blocks in order and returns one entry per block: nil for
// blocks that take no games, otherwise the rows assigned to that block.
// Earlier blocks claim games first. A block short of candidates gets fewer rows.
func (a *Allocator) Allocate(blocks []models.Block, pool []models.Product) [][]models.Product {
	result := make([][]models.Product, len(blocks))
	state := NewState()
	for i, b := range blocks {
		result[i] = a.AllocateBlock(state, b, pool)
	}
	slog.Debug("Allocation finished", "blocks", len(blocks), "pool", len(pool), "claimed", state.Len())
	return result
}

// AllocateBlock fills a single block against the pool and claims its picks in state.
// It returns nil for block types that take no games.
func (a *Allocator) AllocateBlock(state *State, b models.Block, pool []models.Product) []models.Product {
	typ := b.Type.Normalized()
	if !typ.WantsGames() {
		return nil
	}

	picks, overridden := a.overrides(typ, b.Config, pool)
	if !overridden {
		candidates := filters.Block.Apply(pool, filters.BlockCriteria(b.Config, a.opts.Currency))
		candidates = state.Unused(candidates)
		picks = sampler.Sample(candidates, a.count(typ, b.Config), scoring.Score, a.opts.Rand)
		slog.Debug("Sampled block", "type", typ, "candidates", len(candidates), "picked", len(picks))
	} else {
		slog.Debug("Block uses manual picks", "type", typ, "picked", len(picks))
	}

	state.Claim(picks)
	return picks
}

func (a *Allocator) count(typ models.BlockType, cfg models.BlockConfig) int {
	if typ == models.BlockFeatured {
		return 1
	}
	n := cfg.GamesCount
	if n == 0 {
		n = a.opts.DefaultCount
	}
	return max(0, n)
}

// overrides resolves a block's manual picks against the pool. Manual picks skip
// the block filters and the used-set check. ok is false when the block has none.
func (a *Allocator) overrides(typ models.BlockType, cfg models.BlockConfig, pool []models.Product) (picks []models.Product, ok bool) {
	var urls []string
	var ids []int
	if typ == models.BlockFeatured {
		if u := strings.TrimSpace(cfg.OverrideURL); u != "" {
			urls = []string{u}
		}
		if cfg.OverrideSteamID != nil {
			ids = []int{*cfg.OverrideSteamID}
		}
	} else {
		urls = cfg.OverrideURLs
		ids = cfg.OverrideSteamIDs
	}

	switch {
	case len(urls) > 0 && a.index != nil:
		picks = pickByURL(a.index, urls, pool)
	case len(ids) > 0:
		picks = pickBySteamID(ids, pool)
	default:
		return nil, false
	}
	if typ == models.BlockFeatured && len(picks) > 1 {
		picks = picks[:1]
	}
	return picks, true
}

// pickByURL resolves urls through the index and returns the pool rows with the same link.
// Products outside the pool are dropped.
func pickByURL(index URLResolver, urls []string, pool []models.Product) []models.Product {
	byLink := make(map[string]models.Product, len(pool))
	for _, p := range pool {
		if link := util.NormalizeURL(p.Link); link != "" {
			byLink[link] = p
		}
	}

	products, notFound := index.ResolveURLs(urls)
	if len(notFound) > 0 {
		slog.Debug("Override URLs not in catalog", "count", len(notFound))
	}
	picks := make([]models.Product, 0, len(products))
	for _, p := range products {
		if row, ok := byLink[util.NormalizeURL(p.Link)]; ok {
			picks = append(picks, row)
		}
	}
	return picks
}

// pickBySteamID returns the pool row for each id, in id order. When several
// rows share an id the last one wins. Unknown ids are dropped.
func pickBySteamID(ids []int, pool []models.Product) []models.Product {
	byID := make(map[int]models.Product, len(pool))
	for _, p := range pool {
		if p.SteamAppID != nil {
			byID[*p.SteamAppID] = p
		}
	}
	picks := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		if row, ok := byID[id]; ok {
			picks = append(picks, row)
		}
	}
	return picks
}
