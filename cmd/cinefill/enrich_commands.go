package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"cinefill/internal/enrich"
	"cinefill/internal/ratings"
	"cinefill/internal/trailers"
)

const (
	taskRatings  = "ratings"
	taskTrailers = "trailers"
)

func newRatingsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "ratings",
		Short: "Resolve review scores for catalog movies",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPasses(cmd, ctx, taskRatings)
		},
	}
}

func newTrailersCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "trailers",
		Short: "Resolve trailer links for catalog movies",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPasses(cmd, ctx, taskTrailers)
		},
	}
}

func newEnrichCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "enrich",
		Short: "Run the ratings and trailers passes back to back",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPasses(cmd, ctx, taskRatings, taskTrailers)
		},
	}
}

// runPasses executes the named passes over one catalog load, saves once, and
// prints a summary. Interrupts stop dispatch; whatever resolved before the
// signal is still saved.
func runPasses(cmd *cobra.Command, cmdCtx *commandContext, tasks ...string) error {
	sigCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p, err := openPipeline(cmdCtx)
	if err != nil {
		return err
	}
	defer p.close()

	cfg := cmdCtx.cfg
	client := p.scrapeClient()

	var rows [][]string
	for _, task := range tasks {
		var stats enrich.Stats
		switch task {
		case taskRatings:
			resolver := ratings.NewResolver(client,
				ratings.NewGenerator(ratings.GeneratorConfig{}),
				cfg.Ratings.BaseURL, cmdCtx.logger)
			stats, err = p.enrichPass(sigCtx, task, cfg.Ratings.Workers,
				func(ctx context.Context, e *enrich.Enricher) enrich.Stats {
					return e.EnrichRatings(ctx, p.doc, resolver)
				})
		case taskTrailers:
			resolver := trailers.NewResolver(client,
				cfg.Trailers.SearchURL, cfg.Trailers.MaxResults,
				cfg.Trailers.AcceptThreshold, cmdCtx.logger)
			stats, err = p.enrichPass(sigCtx, task, cfg.Trailers.Workers,
				func(ctx context.Context, e *enrich.Enricher) enrich.Stats {
					return e.EnrichTrailers(ctx, p.doc, resolver)
				})
		default:
			return fmt.Errorf("unknown pass %q", task)
		}
		if err != nil {
			return err
		}
		rows = append(rows, statsRow(task, stats))
		if sigCtx.Err() != nil {
			break
		}
	}

	if err := p.save(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, renderTable(
		[]string{"Pass", "Total", "Processed", "Enriched", "Unresolved", "Skipped"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight},
	))
	return sigCtx.Err()
}

func statsRow(task string, stats enrich.Stats) []string {
	return []string{
		task,
		strconv.Itoa(stats.Total),
		strconv.Itoa(stats.Processed),
		strconv.Itoa(stats.Enriched),
		strconv.Itoa(stats.Unresolved),
		strconv.Itoa(stats.Skipped),
	}
}
