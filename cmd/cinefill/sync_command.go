package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"cinefill/internal/progress"
	"cinefill/internal/tmdb"
)

func newSyncCommand(ctx *commandContext) *cobra.Command {
	var maxPages int

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Pull streaming catalogs from TMDB into the local catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.RequireTMDBToken(); err != nil {
				return err
			}

			sigCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			p, err := openPipeline(ctx)
			if err != nil {
				return err
			}
			defer p.close()

			client, err := tmdb.New(cfg.TMDB.BearerToken, cfg.TMDB.BaseURL,
				cfg.TMDB.Language, cfg.TMDB.Region)
			if err != nil {
				return err
			}

			reporter := progress.New(os.Stdout, "sync", 0, ctx.logger)
			syncer := tmdb.NewSyncer(client, tmdb.SyncConfig{
				Workers:             cfg.TMDB.Workers,
				MaxPagesPerProvider: maxPages,
				Region:              cfg.TMDB.Region,
				Logger:              ctx.logger,
				Progress:            reporter.Step,
			})

			stats, syncErr := syncer.Sync(sigCtx, p.doc)
			reporter.Finish()
			// A cancelled sync still saves the records that completed.
			if saveErr := p.save(); saveErr != nil {
				return saveErr
			}
			if syncErr != nil {
				return syncErr
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Discovered", "Added", "Updated", "Failed", "Catalog"},
				[][]string{{
					strconv.Itoa(stats.Discovered),
					strconv.Itoa(stats.Added),
					strconv.Itoa(stats.Updated),
					strconv.Itoa(stats.Failed),
					strconv.Itoa(len(p.doc.Movies)),
				}},
				[]columnAlignment{alignRight, alignRight, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().IntVar(&maxPages, "max-pages", 0, "Discovery pages per provider (0 uses the default)")
	return cmd
}
