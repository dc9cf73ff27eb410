// Package api exposes filtering, allocation and table building over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/pauljones0/steam-deal-digest/internal/config"
	"github.com/pauljones0/steam-deal-digest/internal/models"
	"github.com/pauljones0/steam-deal-digest/internal/validator"
)

const maxBodyBytes = 10 << 20

// Announcer publishes allocated picks. *notifier.Client implements it.
type Announcer interface {
	Enabled() bool
	Announce(ctx context.Context, blocks []models.Block, picks [][]models.Product) ([]string, error)
}

type Server struct {
	cfg       *config.Config
	validator *validator.Validator
	announcer Announcer
}

// New creates a Server. announcer may be nil.
func New(cfg *config.Config, v *validator.Validator, announcer Announcer) *Server {
	return &Server{cfg: cfg, validator: v, announcer: announcer}
}

// Routes registers every endpoint on a new mux.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /filter", s.FilterHandler)
	mux.HandleFunc("POST /allocate", s.AllocateHandler)
	mux.HandleFunc("POST /table", s.TableHandler)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, `{"status":"ok"}`)
	})
	return mux
}

type errorResponse struct {
	Error string `json:"error"`
}

func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		status = http.StatusRequestEntityTooLarge
	}
	slog.Warn("Rejected request", "status", status, "error", err)
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// validRows drops rows that fail validation. It fails with models.ErrNoRows when nothing is left.
func (s *Server) validRows(rows []models.Product) ([]models.Product, int, error) {
	if len(rows) == 0 {
		return nil, 0, models.ErrNoRows
	}
	valid, errs := s.validator.ValidateProducts(rows)
	if len(valid) == 0 {
		return nil, len(errs), fmt.Errorf("%w: all %d rows failed validation", models.ErrNoRows, len(rows))
	}
	return valid, len(errs), nil
}
