package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pauljones0/steam-deal-digest/internal/catalog"
	"github.com/pauljones0/steam-deal-digest/internal/config"
	"github.com/pauljones0/steam-deal-digest/internal/table"
	"github.com/pauljones0/steam-deal-digest/internal/util"
)

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Print a Reddit Markdown deal table",
	RunE:  runTable,
}

func init() {
	tableCmd.Flags().StringSlice("currencies", nil, "Currency columns (default DEAL_CURRENCIES)")
	tableCmd.Flags().Float64("coupon", -1, "Coupon percent off, 0..50 (default COUPON_PERCENT)")
	tableCmd.Flags().String("urls", "", "File of pasted product URLs selecting and ordering the rows (- for stdin)")
	rootCmd.AddCommand(tableCmd)
}

func runTable(cmd *cobra.Command, args []string) error {
	rows, err := loadRows(cmd)
	if err != nil {
		return err
	}

	if urlsPath, _ := cmd.Flags().GetString("urls"); urlsPath != "" {
		r, err := openInput(urlsPath)
		if err != nil {
			return err
		}
		text, err := io.ReadAll(r)
		r.Close()
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", urlsPath, err)
		}
		var notFound []string
		rows, notFound = catalog.IndexFromProducts(rows).ResolveURLs(util.ParsePastedURLs(string(text)))
		for _, u := range notFound {
			fmt.Fprintf(os.Stderr, "not found: %s\n", u)
		}
		slog.Info("Resolved pasted URLs", "found", len(rows), "not_found", len(notFound))
	}

	currencies := cfg.DealCurrencies
	if v, _ := cmd.Flags().GetStringSlice("currencies"); len(v) > 0 {
		currencies = util.SplitList(strings.Join(v, ","))
	}
	coupon := cfg.CouponPercent
	if v, _ := cmd.Flags().GetFloat64("coupon"); v >= 0 {
		coupon = config.ClampCoupon(v)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), table.Build(rows, currencies, coupon))
	return err
}
