package main

import (
	"context"
	"fmt"
	"os"

	"cinefill/internal/catalog"
	"cinefill/internal/enrich"
	"cinefill/internal/logging"
	"cinefill/internal/progress"
	"cinefill/internal/runlog"
	"cinefill/internal/scrape"
)

// pipeline bundles the stores and shared scrape budget one command run needs.
type pipeline struct {
	ctx   *commandContext
	store *catalog.Store
	doc   *catalog.Document
	runs  *runlog.Store
	pacer *scrape.Pacer
}

func openPipeline(cmdCtx *commandContext) (*pipeline, error) {
	cfg, err := cmdCtx.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := cmdCtx.ensureLogger()
	if err != nil {
		return nil, err
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	store, err := catalog.NewStore(cfg.Paths.CatalogPath, logger)
	if err != nil {
		return nil, err
	}
	doc, err := store.Load()
	if err != nil {
		return nil, err
	}

	ledgerPath, err := cmdCtx.runLogPath()
	if err != nil {
		return nil, err
	}
	runs, err := runlog.Open(ledgerPath)
	if err != nil {
		return nil, err
	}

	return &pipeline{
		ctx:   cmdCtx,
		store: store,
		doc:   doc,
		runs:  runs,
		// One pacer per process: every scraped source draws from the same
		// request budget.
		pacer: scrape.NewPacer(cfg.Scraper.MinRequestInterval()),
	}, nil
}

func (p *pipeline) close() {
	if err := p.runs.Close(); err != nil {
		p.ctx.logger.Warn("close run log", logging.Error(err))
	}
}

func (p *pipeline) scrapeClient() *scrape.Client {
	cfg := p.ctx.cfg
	policy := scrape.Policy{
		RequestTimeout:   cfg.Scraper.RequestTimeout(),
		ThrottleRetries:  cfg.Scraper.ThrottleRetries,
		TransientRetries: cfg.Scraper.TransientRetries,
		BackoffBase:      cfg.Scraper.BackoffBase(),
		BackoffMax:       cfg.Scraper.BackoffMax(),
	}
	return scrape.NewClient(policy, p.pacer, p.ctx.logger)
}

// enrichPass runs one ledgered enrichment pass and returns its stats. The
// catalog is saved by the caller so combined commands write once.
func (p *pipeline) enrichPass(ctx context.Context, task string, workers int, pass func(context.Context, *enrich.Enricher) enrich.Stats) (enrich.Stats, error) {
	run, err := p.runs.StartRun(ctx, task)
	if err != nil {
		return enrich.Stats{}, err
	}

	// Ledger writes survive cancellation; partial runs stay auditable.
	ledgerCtx := context.WithoutCancel(ctx)
	reporter := progress.New(os.Stdout, task, len(p.doc.Movies), p.ctx.logger)
	enricher := enrich.New(enrich.Config{
		Workers: workers,
		Logger:  p.ctx.logger,
		Observer: func(o enrich.RecordOutcome) {
			if err := p.runs.AddOutcome(ledgerCtx, run.ID, runlog.Outcome{
				RecordID: o.RecordID,
				Title:    o.Title,
				Status:   string(o.Status),
				Changed:  o.Changed,
			}); err != nil {
				p.ctx.logger.Warn("record outcome not persisted",
					logging.Int64(logging.FieldRecordID, o.RecordID),
					logging.Error(err))
			}
		},
		Progress: reporter.Step,
	})

	stats := pass(ctx, enricher)
	reporter.Finish()

	if err := p.runs.FinishRun(ledgerCtx, run.ID, runlog.Summary{
		Total:      stats.Total,
		Processed:  stats.Processed,
		Enriched:   stats.Enriched,
		Unresolved: stats.Unresolved,
		Skipped:    stats.Skipped,
	}); err != nil {
		p.ctx.logger.Warn("run not closed in ledger",
			logging.String(logging.FieldRunID, run.ID),
			logging.Error(err))
	}
	return stats, nil
}

func (p *pipeline) save() error {
	return p.store.Save(p.doc)
}
