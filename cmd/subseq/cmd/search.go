package cmd

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/subseq/internal/config"
	"github.com/Aman-CERP/subseq/internal/output"
	"github.com/Aman-CERP/subseq/internal/scanner"
	"github.com/Aman-CERP/subseq/internal/search"
	"github.com/Aman-CERP/subseq/internal/ui"
)

// runSearch reads candidates from stdin, ranks them against query and
// writes the result to stdout. Zero matches is a successful run.
func runSearch(ctx context.Context, cmd *cobra.Command, cfg *config.Config, query string) error {
	candidates, err := scanner.ReadLines(cmd.InOrStdin())
	if err != nil {
		return err
	}

	engine, err := search.NewEngine(cfg.BonusModel(), cfg.EngineConfig())
	if err != nil {
		return err
	}

	ranked, err := engine.Search(ctx, query, candidates)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	opts := cfg.OutputOptions()
	if !opts.Marking() && ui.ColorEnabled(cfg.ColorMode(), out) {
		opts.Before, opts.After = ui.HighlightDelimiters(out)
	}

	slog.Debug("search_output",
		slog.Int("lines", len(ranked)),
		slog.Int("limit", opts.Limit),
		slog.Bool("marking", opts.Marking()),
		slog.Bool("positions", opts.Positions))

	return output.New(out, opts).WriteAll(ranked)
}
