package main

import (
	"github.com/spf13/cobra"

	"github.com/pauljones0/steam-deal-digest/internal/catalog"
	"github.com/pauljones0/steam-deal-digest/internal/filters"
	"github.com/pauljones0/steam-deal-digest/internal/models"
)

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Apply the deal finder filters to rows",
	RunE:  runFilter,
}

func init() {
	addCriteriaFlags(filterCmd)
	filterCmd.Flags().Bool("sort-rating", true, "Order rows by rating before filtering")
	rootCmd.AddCommand(filterCmd)
}

func addCriteriaFlags(cmd *cobra.Command) {
	cmd.Flags().String("score-type", string(models.ScoreAll), `Score filter: All, "Exact %", Operator, Label`)
	cmd.Flags().String("score-value", "", "Score value, e.g. 90 or >=80")
	cmd.Flags().String("label", "", "Review label, e.g. \"Very Positive\"")
	cmd.Flags().String("min-reviews", "", "Minimum review count")
	cmd.Flags().String("discount", "", "Discount expression, e.g. >=50")
	cmd.Flags().String("price", "", "Price expression, e.g. <10")
	cmd.Flags().String("sale-end-type", string(models.DateAll), "Sale end: All, Ending Soon, Ending Latest, By date")
	cmd.Flags().String("sale-end-value", "", "Sale end date, e.g. <=2026-02-28 or 2026-02-01..2026-02-28")
	cmd.Flags().String("release-type", string(models.DateAll), "Release date: All, Newest, Oldest, By date")
	cmd.Flags().String("release-value", "", "Release date expression")
	cmd.Flags().String("title", "", "Title contains")
	cmd.Flags().String("publisher", "", "Publisher contains")
	cmd.Flags().String("developer", "", "Developer contains")
	cmd.Flags().String("tags", "", "Any tag contains")
}

func criteriaFromFlags(cmd *cobra.Command) models.Criteria {
	get := func(name string) string {
		v, _ := cmd.Flags().GetString(name)
		return v
	}
	return models.Criteria{
		ScoreType:    models.ScoreFilterType(get("score-type")),
		ScoreValue:   get("score-value"),
		Label:        get("label"),
		MinReviews:   get("min-reviews"),
		Discount:     get("discount"),
		Price:        get("price"),
		Currency:     cfg.DefaultCurrency,
		SaleEndType:  models.DateFilterType(get("sale-end-type")),
		SaleEndValue: get("sale-end-value"),
		ReleaseType:  models.DateFilterType(get("release-type")),
		ReleaseValue: get("release-value"),
		Title:        get("title"),
		Publisher:    get("publisher"),
		Developer:    get("developer"),
		Tags:         get("tags"),
	}
}

func runFilter(cmd *cobra.Command, args []string) error {
	rows, err := loadRows(cmd)
	if err != nil {
		return err
	}
	if sortRating, _ := cmd.Flags().GetBool("sort-rating"); sortRating {
		rows = catalog.SortByRating(rows)
	}
	out := filters.ApplyAll(rows, criteriaFromFlags(cmd))
	return printJSON(cmd.OutOrStdout(), out)
}
