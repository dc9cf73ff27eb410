package main

import (
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"github.com/pauljones0/steam-deal-digest/internal/allocator"
	"github.com/pauljones0/steam-deal-digest/internal/catalog"
	"github.com/pauljones0/steam-deal-digest/internal/filters"
	"github.com/pauljones0/steam-deal-digest/internal/models"
	"github.com/pauljones0/steam-deal-digest/internal/notifier"
	"github.com/pauljones0/steam-deal-digest/internal/sampler"
	"github.com/pauljones0/steam-deal-digest/internal/validator"
)

var allocateCmd = &cobra.Command{
	Use:   "allocate",
	Short: "Assign games from the email pool to content blocks",
	RunE:  runAllocate,
}

func init() {
	addCriteriaFlags(allocateCmd)
	allocateCmd.Flags().String("blocks", "", "Path to the content blocks (JSON array)")
	allocateCmd.Flags().Uint64("seed", 0, "Random seed (0 picks one)")
	allocateCmd.Flags().Int("drafts", 1, "Number of alternative allocations to print")
	allocateCmd.Flags().Bool("notify", false, "Post the picks to the configured Discord webhook")
	_ = allocateCmd.MarkFlagRequired("blocks")
	rootCmd.AddCommand(allocateCmd)
}

type allocateOutput struct {
	Seed   uint64               `json:"seed"`
	Blocks [][]models.Product   `json:"blocks"`
	Drafts [][][]models.Product `json:"drafts,omitempty"`
}

func runAllocate(cmd *cobra.Command, args []string) error {
	rows, err := loadRows(cmd)
	if err != nil {
		return err
	}

	blocksPath, _ := cmd.Flags().GetString("blocks")
	var blocks []models.Block
	if err := readJSON(blocksPath, &blocks); err != nil {
		return err
	}
	if err := validator.New().ValidateBlocks(blocks); err != nil {
		return err
	}

	seed, _ := cmd.Flags().GetUint64("seed")
	if seed == 0 {
		seed = rand.Uint64()
	}
	criteria := criteriaFromFlags(cmd)
	pool := allocator.WithSaleEndDisplay(filters.EmailPool.Apply(rows, criteria))
	index := catalog.IndexFromProducts(rows)
	opts := allocator.Options{
		Currency:     criteria.Currency,
		DefaultCount: cfg.DefaultGamesCount,
		Rand:         sampler.NewSeeded(seed),
	}

	out := allocateOutput{
		Seed:   seed,
		Blocks: allocator.New(index, opts).Allocate(blocks, pool),
	}
	slog.Info("Allocated blocks", "blocks", len(blocks), "pool", len(pool), "seed", seed)

	if n, _ := cmd.Flags().GetInt("drafts"); n > 1 {
		n = min(n, max(1, cfg.MaxDrafts))
		out.Drafts, err = allocator.Drafts(cmd.Context(), n, index, opts, seed+1, blocks, pool)
		if err != nil {
			return fmt.Errorf("failed to build drafts: %w", err)
		}
	}

	if notify, _ := cmd.Flags().GetBool("notify"); notify {
		client := notifier.New(cfg.DiscordWebhookURL, cfg.NotifyMaxRetries)
		if !client.Enabled() {
			return fmt.Errorf("--notify needs DISCORD_WEBHOOK_URL")
		}
		if _, err := client.Announce(cmd.Context(), blocks, out.Blocks); err != nil {
			return err
		}
	}

	return printJSON(cmd.OutOrStdout(), out)
}
