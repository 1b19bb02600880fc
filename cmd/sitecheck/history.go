package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sitecheck/sitecheck/internal/config"
	"github.com/sitecheck/sitecheck/internal/database"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [url]",
		Short: "Show past check runs",
		Long: `History lists check runs saved in the local history database.

Without arguments it lists all targets with stored runs. With a URL it
shows the stored runs for that target, newest first.

Examples:
  # List all targets with history
  sitecheck history

  # Show runs for one target
  sitecheck history https://example.com/`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"Directory holding the history database")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}

	// Never create a database just to show it is empty.
	hdb, err := database.Open(dbDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		return fmt.Errorf("no history found: %w", err)
	}
	defer hdb.Close()

	ctx := context.Background()
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		targets, err := hdb.ListTargets(ctx)
		if err != nil {
			return err
		}
		if len(targets) == 0 {
			fmt.Fprintln(out, "No stored runs.")
			return nil
		}
		for _, target := range targets {
			fmt.Fprintln(out, target)
		}
		return nil
	}

	runs, err := hdb.GetRunHistory(ctx, args[0])
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintf(out, "No stored runs for %s.\n", args[0])
		return nil
	}

	for _, run := range runs {
		fmt.Fprintf(out, "%s  pages=%d failed=%d errors=%d warnings=%d\n",
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.PageCount,
			run.FailedPages,
			run.TotalErrors,
			run.TotalWarnings,
		)
	}
	return nil
}
