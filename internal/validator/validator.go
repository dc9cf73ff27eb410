package validator

import (
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/pauljones0/steam-deal-digest/internal/models"
)

// Validator is a wrapper around the validator library.
type Validator struct {
	validate *validator.Validate
}

// New creates a new Validator instance.
func New() *Validator {
	v := validator.New()
	// Registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation("currency", isCurrencyCode)
	_ = v.RegisterValidation("blocktype", func(fl validator.FieldLevel) bool {
		return models.BlockType(fl.Field().String()).Known()
	})
	return &Validator{
		validate: v,
	}
}

// isCurrencyCode accepts three ASCII letters in either case.
func isCurrencyCode(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if len(s) != 3 {
		return false
	}
	for _, r := range s {
		if !(r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z') {
			return false
		}
	}
	return true
}

// ValidateStruct validates a struct based on its tags.
func (v *Validator) ValidateStruct(s interface{}) error {
	err := v.validate.Struct(s)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

// RowError describes a product row that failed validation.
type RowError struct {
	Index int
	Title string
	Err   error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d (%q): %v", e.Index, e.Title, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// ValidateProducts keeps the rows that pass validation, in order. Each dropped row
// is logged and reported as a *RowError.
func (v *Validator) ValidateProducts(rows []models.Product) ([]models.Product, []error) {
	valid := make([]models.Product, 0, len(rows))
	var errs []error
	for i := range rows {
		if err := v.ValidateStruct(rows[i]); err != nil {
			slog.Warn("Dropping invalid product row", "index", i, "title", rows[i].Title, "error", err)
			errs = append(errs, &RowError{Index: i, Title: rows[i].Title, Err: err})
			continue
		}
		valid = append(valid, rows[i])
	}
	return valid, errs
}

// ValidateBlocks checks the settings of every known block. Blocks of unknown
// type are passed through untouched, since allocation leaves them empty.
// It returns the first failure wrapped in models.ErrInvalidBlock.
func (v *Validator) ValidateBlocks(blocks []models.Block) error {
	for i, b := range blocks {
		if !b.Type.Known() {
			slog.Warn("Skipping block of unknown type", "index", i, "type", b.Type)
			continue
		}
		if err := v.ValidateStruct(b); err != nil {
			return fmt.Errorf("%w: block %d: %v", models.ErrInvalidBlock, i, err)
		}
	}
	return nil
}
