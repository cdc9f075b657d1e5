package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"cinefill/internal/runlog"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var outcomesRun string

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Show the enrichment run ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := ctx.ensureLogger(); err != nil {
				return err
			}
			ledgerPath, err := ctx.runLogPath()
			if err != nil {
				return err
			}
			store, err := runlog.Open(ledgerPath)
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if outcomesRun != "" {
				outcomes, err := store.Outcomes(cmd.Context(), outcomesRun)
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(outcomes))
				for _, o := range outcomes {
					rows = append(rows, []string{
						strconv.FormatInt(o.RecordID, 10),
						o.Title,
						o.Status,
						strconv.FormatBool(o.Changed),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Record", "Title", "Status", "Changed"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
				))
				return nil
			}

			runs, err := store.RecentRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				return errors.New("no runs recorded yet")
			}
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				finished := "running"
				if !run.FinishedAt.IsZero() {
					finished = run.FinishedAt.Sub(run.StartedAt).String()
				}
				rows = append(rows, []string{
					run.ID,
					run.Task,
					run.StartedAt.Local().Format("2006-01-02 15:04:05"),
					finished,
					strconv.Itoa(run.Summary.Processed),
					strconv.Itoa(run.Summary.Enriched),
					strconv.Itoa(run.Summary.Unresolved),
					strconv.Itoa(run.Summary.Skipped),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Run", "Task", "Started", "Duration", "Processed", "Enriched", "Unresolved", "Skipped"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Number of runs to show")
	cmd.Flags().StringVar(&outcomesRun, "outcomes", "", "Show per-record outcomes for a run id")
	return cmd
}
