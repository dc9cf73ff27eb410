package api

import (
	"log/slog"
	"math/rand/v2"
	"net/http"
	"strings"

	"github.com/pauljones0/steam-deal-digest/internal/allocator"
	"github.com/pauljones0/steam-deal-digest/internal/catalog"
	"github.com/pauljones0/steam-deal-digest/internal/config"
	"github.com/pauljones0/steam-deal-digest/internal/filters"
	"github.com/pauljones0/steam-deal-digest/internal/models"
	"github.com/pauljones0/steam-deal-digest/internal/sampler"
	"github.com/pauljones0/steam-deal-digest/internal/table"
	"github.com/pauljones0/steam-deal-digest/internal/util"
)

type FilterRequest struct {
	Rows     []models.Product `json:"rows"`
	Criteria models.Criteria  `json:"criteria"`
}

type FilterResponse struct {
	Rows    []models.Product `json:"rows"`
	Count   int              `json:"count"`
	Dropped int              `json:"dropped,omitempty"`
}

// FilterHandler runs the full deal finder chain over the posted rows.
func (s *Server) FilterHandler(w http.ResponseWriter, r *http.Request) {
	var req FilterRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	rows, dropped, err := s.validRows(req.Rows)
	if err != nil {
		writeError(w, err)
		return
	}
	if strings.TrimSpace(req.Criteria.Currency) == "" {
		req.Criteria.Currency = s.cfg.DefaultCurrency
	}

	out := filters.ApplyAll(rows, req.Criteria)
	slog.Info("Filtered rows", "in", len(rows), "out", len(out), "dropped", dropped)
	writeJSON(w, http.StatusOK, FilterResponse{Rows: out, Count: len(out), Dropped: dropped})
}

type AllocateRequest struct {
	Rows     []models.Product `json:"rows"`
	Blocks   []models.Block   `json:"blocks"`
	Criteria models.Criteria  `json:"criteria"`
	Currency string           `json:"currency,omitempty"`
	Seed     *uint64          `json:"seed,omitempty"`
	Drafts   int              `json:"drafts,omitempty"`
}

type AllocateResponse struct {
	Blocks    [][]models.Product   `json:"blocks"`
	Drafts    [][][]models.Product `json:"drafts,omitempty"`
	PoolSize  int                  `json:"pool_size"`
	Announced []string             `json:"announced,omitempty"`
}

// AllocateHandler filters the rows into the email pool and assigns games to blocks.
// With drafts > 1 it also returns that many alternative allocations, capped by MAX_DRAFTS.
func (s *Server) AllocateHandler(w http.ResponseWriter, r *http.Request) {
	var req AllocateRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := s.validator.ValidateBlocks(req.Blocks); err != nil {
		writeError(w, err)
		return
	}
	rows, dropped, err := s.validRows(req.Rows)
	if err != nil {
		writeError(w, err)
		return
	}

	currency := resolveCurrency(s.cfg, req.Currency, req.Criteria.Currency)
	req.Criteria.Currency = currency

	pool := allocator.WithSaleEndDisplay(filters.EmailPool.Apply(rows, req.Criteria))
	index := catalog.IndexFromProducts(rows)

	seed := rand.Uint64()
	if req.Seed != nil {
		seed = *req.Seed
	}
	opts := allocator.Options{
		Currency:     currency,
		DefaultCount: s.cfg.DefaultGamesCount,
		Rand:         sampler.NewSeeded(seed),
	}
	resp := AllocateResponse{
		Blocks:   allocator.New(index, opts).Allocate(req.Blocks, pool),
		PoolSize: len(pool),
	}

	if req.Drafts > 1 {
		n := min(req.Drafts, max(1, s.cfg.MaxDrafts))
		drafts, err := allocator.Drafts(r.Context(), n, index, opts, seed+1, req.Blocks, pool)
		if err != nil {
			slog.Error("Failed to build drafts", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
			return
		}
		resp.Drafts = drafts
	}

	if s.announcer != nil && s.announcer.Enabled() {
		ids, err := s.announcer.Announce(r.Context(), req.Blocks, resp.Blocks)
		if err != nil {
			slog.Warn("Failed to announce picks", "error", err)
		}
		resp.Announced = ids
	}

	slog.Info("Allocated blocks", "blocks", len(req.Blocks), "pool", len(pool), "dropped", dropped, "drafts", len(resp.Drafts))
	writeJSON(w, http.StatusOK, resp)
}

func resolveCurrency(cfg *config.Config, candidates ...string) string {
	for _, c := range candidates {
		if c = strings.ToUpper(strings.TrimSpace(c)); c != "" {
			return c
		}
	}
	return cfg.DefaultCurrency
}

type TableRequest struct {
	Rows       []models.Product `json:"rows"`
	Products   []models.Product `json:"products"`
	URLs       string           `json:"urls,omitempty"`
	Currencies []string         `json:"currencies,omitempty"`
	Coupon     *float64         `json:"coupon,omitempty"`
}

// TableHandler renders the Reddit Markdown table. When urls is set, the pasted
// URLs pick and order the products; unknown URLs are reported in X-Not-Found.
func (s *Server) TableHandler(w http.ResponseWriter, r *http.Request) {
	var req TableRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	rows, _, err := s.validRows(append(req.Rows, req.Products...))
	if err != nil {
		writeError(w, err)
		return
	}

	if strings.TrimSpace(req.URLs) != "" {
		var notFound []string
		rows, notFound = catalog.IndexFromProducts(rows).ResolveURLs(util.ParsePastedURLs(req.URLs))
		if len(notFound) > 0 {
			w.Header().Set("X-Not-Found", strings.Join(notFound, ","))
		}
	}

	currencies := s.cfg.DealCurrencies
	if len(req.Currencies) > 0 {
		currencies = util.SplitList(strings.Join(req.Currencies, ","))
	}
	coupon := s.cfg.CouponPercent
	if req.Coupon != nil {
		coupon = config.ClampCoupon(*req.Coupon)
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(table.Build(rows, currencies, coupon))); err != nil {
		slog.Error("Failed to write table", "error", err)
	}
}
