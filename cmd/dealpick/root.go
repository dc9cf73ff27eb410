package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pauljones0/steam-deal-digest/internal/catalog"
	"github.com/pauljones0/steam-deal-digest/internal/config"
	"github.com/pauljones0/steam-deal-digest/internal/models"
	"github.com/pauljones0/steam-deal-digest/internal/validator"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:           "dealpick",
	Short:         "Filter, pick and tabulate Steam deals",
	Long:          "dealpick filters enriched deal rows, assigns games to email blocks and builds Reddit deal tables.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("rows", "", "Path to enriched product rows (JSON array, - for stdin)")
	rootCmd.PersistentFlags().String("feed", "", "Path to parsed feed items (JSON array); on-sale products are used as rows")
	rootCmd.PersistentFlags().String("steam-mapping", "", "Path to a JSON map of product URL to Steam app id (used with --feed)")
	rootCmd.PersistentFlags().String("currency", "", "Currency for price filters")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: text, json")
}

func initConfig(cmd *cobra.Command) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Override from flags
	if v, _ := cmd.Flags().GetString("currency"); v != "" {
		cfg.DefaultCurrency = strings.ToUpper(strings.TrimSpace(v))
	}
	if v, _ := cmd.Flags().GetString("steam-mapping"); v != "" {
		cfg.SteamMappingPath = v
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v, _ := cmd.Flags().GetString("log-format"); v != "" {
		cfg.LogFormat = strings.ToLower(v)
	}

	slog.SetDefault(cfg.NewLogger(os.Stderr))
	return nil
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return f, nil
}

func readJSON(path string, dst any) error {
	r, err := openInput(path)
	if err != nil {
		return err
	}
	defer r.Close()
	if err := json.NewDecoder(r).Decode(dst); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

// loadRows reads --rows, or builds rows from --feed, and drops invalid rows.
func loadRows(cmd *cobra.Command) ([]models.Product, error) {
	rowsPath, _ := cmd.Flags().GetString("rows")
	feedPath, _ := cmd.Flags().GetString("feed")

	var rows []models.Product
	switch {
	case rowsPath != "":
		if err := readJSON(rowsPath, &rows); err != nil {
			return nil, err
		}
	case feedPath != "":
		idx, err := loadIndex(feedPath)
		if err != nil {
			return nil, err
		}
		rows = idx.OnSale()
	default:
		return nil, fmt.Errorf("one of --rows or --feed is required")
	}

	valid, errs := validator.New().ValidateProducts(rows)
	if len(valid) == 0 {
		return nil, fmt.Errorf("%w: read %d rows, %d invalid", models.ErrNoRows, len(rows), len(errs))
	}
	return valid, nil
}

func loadIndex(feedPath string) (*catalog.Index, error) {
	var items []catalog.FeedItem
	if err := readJSON(feedPath, &items); err != nil {
		return nil, err
	}

	var mapping map[string]int
	if cfg.SteamMappingPath != "" {
		f, err := os.Open(cfg.SteamMappingPath)
		if err != nil {
			slog.Warn("Steam mapping not readable, continuing without it", "path", cfg.SteamMappingPath, "error", err)
		} else {
			defer f.Close()
			mapping, err = catalog.LoadSteamMapping(f)
			if err != nil {
				slog.Warn("Steam mapping invalid, continuing without it", "path", cfg.SteamMappingPath, "error", err)
			}
		}
	}
	return catalog.BuildIndex(items, mapping), nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
