package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aqasim81/database-bootstrap-engine/internal/history"
)

var historyCmd = &cobra.Command{ //nolint:gochecknoglobals // standard Cobra pattern
	Use:   "history",
	Short: "Show recorded bootstrap runs",
	Long: `List directive outcomes recorded in the bootstrap_history table of the
admin database by runs that used --record-history.`,
	RunE: runHistory,
}

func init() { //nolint:gochecknoinits // standard Cobra pattern for flag registration
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	cfg := AppConfig

	if cfg.AdminURL == "" {
		return errAdminURLRequired
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	pool, err := connectAdmin(ctx, cfg, 0, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer pool.Close()

	rec := history.New(pool)
	if err := rec.EnsureTable(ctx); err != nil {
		return err
	}

	entries, err := rec.List(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if len(entries) == 0 {
		fmt.Fprintln(out, "No bootstrap history recorded.")

		return nil
	}

	for _, e := range entries {
		fmt.Fprintf(out, "  %s  %-18s %-16s %-8s %dms\n",
			e.AppliedAt.Format(time.RFC3339), e.Directive, e.Target, e.Status, e.DurationMs)
	}

	fmt.Fprintf(out, "\n%d entr(ies).\n", len(entries))

	return nil
}
