package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mjziebarth/etascatgen/internal/store"
)

// RunsOptions holds flags for the runs command.
type RunsOptions struct {
	*RootOptions
	Database string
}

// RunsResult holds the run listing.
type RunsResult struct {
	Runs  []store.Run `json:"runs"`
	Total int         `json:"total"`
}

// NewRunsCommand creates the runs command.
func NewRunsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List persisted simulation runs",
		Long: `List the simulation runs persisted in a SQLite store, oldest first.

Exit codes:
  0 - Listing succeeded
  2 - Command error (database not found, etc.)

Examples:
  etascatgen runs --db runs.db
  etascatgen runs --db runs.db --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRuns(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite store (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runRuns(opts *RunsOptions, cmd *cobra.Command) error {
	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	runs, err := st.ListRuns(context.Background())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}

	if opts.Format == "json" {
		formatter := &OutputFormatter{
			Format:  opts.Format,
			Writer:  cmd.OutOrStdout(),
			Verbose: opts.Verbose,
		}
		return outputRunsJSON(formatter, RunsResult{Runs: runs, Total: len(runs)})
	}

	w := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs found in database.")
		return nil
	}

	// Large catalogs are the normal case, so event counts get digit grouping.
	p := message.NewPrinter(language.English)
	for _, run := range runs {
		fmt.Fprintf(w, "%s\n", run.ID)
		fmt.Fprintf(w, "  Created: %s\n", run.CreatedAt.Format(time.RFC3339))
		p.Fprintf(w, "  Events: %d (burn-in %d), seed %d\n", run.Events, run.BurnIn, run.Seed)
		if opts.Verbose {
			fmt.Fprintf(w, "  Process: mu0=%g, m=[%g,%g], beta=%g, p=%g, c=%g, n=%g\n",
				run.Params.Mu0, run.Params.MMin, run.Params.MMax,
				run.Params.Beta, run.Params.P, run.Params.C,
				run.Params.OffspringFraction)
		}
	}
	p.Fprintf(w, "\n%d run(s)\n", len(runs))
	return nil
}

// outputRunsJSON outputs the run listing as indented JSON.
func outputRunsJSON(formatter *OutputFormatter, result RunsResult) error {
	return writeIndentedResponse(formatter, CLIResponse{
		Status: "ok",
		Data:   result,
	})
}
