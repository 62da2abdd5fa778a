package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/aqasim81/database-bootstrap-engine/internal/config"
	"github.com/aqasim81/database-bootstrap-engine/internal/database"
	"github.com/aqasim81/database-bootstrap-engine/internal/executor"
	"github.com/aqasim81/database-bootstrap-engine/internal/history"
	"github.com/aqasim81/database-bootstrap-engine/internal/lint"
	"github.com/aqasim81/database-bootstrap-engine/internal/lint/rules"
	"github.com/aqasim81/database-bootstrap-engine/internal/plan"
)

// errPlanBlocked is returned when apply is blocked by high/critical findings.
var errPlanBlocked = errors.New("apply aborted: plan has high or critical findings (use --force to override)")

// errAdminURLRequired is returned when no admin URL is configured.
var errAdminURLRequired = errors.New(
	"admin URL is required (set --admin-url, BOOTSTRAP_ADMIN_URL, or admin_url in config)",
)

var applyCmd = &cobra.Command{ //nolint:gochecknoglobals // standard Cobra pattern
	Use:   "apply [plan-file]",
	Short: "Apply a bootstrap plan",
	Long: `Apply the directives of a bootstrap plan in order over the
administrative connection. The run stops at the first failing directive,
leaving earlier effects in place. Supports dry-run mode, skip-existing
re-runs, and an optional audit trail.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runApply,
}

func init() { //nolint:gochecknoinits // standard Cobra pattern for flag registration
	applyCmd.Flags().Bool("dry-run", false, "render and verify directives without executing")
	applyCmd.Flags().Bool("force", false, "apply even when the plan has high/critical findings")
	applyCmd.Flags().Bool("skip-existing", false, "skip create directives whose target already exists")
	applyCmd.Flags().Bool("record-history", false, "record each directive outcome in the bootstrap_history table")
	applyCmd.Flags().Duration("statement-timeout", 0, "override statement timeout (e.g., 30s, 5m)")
	rootCmd.AddCommand(applyCmd)
}

func runApply(cmd *cobra.Command, args []string) error {
	cfg := AppConfig

	if cfg.AdminURL == "" {
		return errAdminURLRequired
	}

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	force, _ := cmd.Flags().GetBool("force")
	skipExisting, _ := cmd.Flags().GetBool("skip-existing")
	recordHistory, _ := cmd.Flags().GetBool("record-history")

	stmtTimeout := cfg.StatementTimeout
	if cmd.Flags().Changed("statement-timeout") {
		stmtTimeout, _ = cmd.Flags().GetDuration("statement-timeout")
	}

	planFile := cfg.PlanFile
	if len(args) > 0 {
		planFile = args[0]
	}

	p, err := plan.LoadFromFile(planFile)
	if err != nil {
		return fmt.Errorf("loading plan: %w", err)
	}

	if !force && !dryRun {
		result := lint.New(lint.WithRegistry(rules.NewDefaultRegistry())).Lint(p)
		if printLintFindings(cmd.OutOrStdout(), result) {
			return errPlanBlocked
		}
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	pool, err := connectAdmin(ctx, cfg, stmtTimeout, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer pool.Close()

	return executePlan(ctx, cmd.OutOrStdout(), pool, p, applyOpts{
		adminURL:      cfg.AdminURL,
		stmtTimeout:   stmtTimeout,
		dryRun:        dryRun,
		skipExisting:  skipExisting,
		recordHistory: recordHistory,
	})
}

type applyOpts struct {
	adminURL      string
	stmtTimeout   time.Duration
	dryRun        bool
	skipExisting  bool
	recordHistory bool
}

func connectAdmin(ctx context.Context, cfg *config.Config, stmtTimeout time.Duration, out io.Writer) (*pgxpool.Pool, error) {
	fmt.Fprintf(out, "Connecting to %s\n", config.RedactURL(cfg.AdminURL))

	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	pool, err := database.NewPool(connectCtx, cfg.AdminURL, stmtTimeout)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	return pool, nil
}

func executePlan(
	ctx context.Context,
	out io.Writer,
	pool *pgxpool.Pool,
	p *plan.Plan,
	opts applyOpts,
) error {
	applied := 0
	skipped := 0

	execOpts := []executor.Option{
		executor.WithStatementTimeout(opts.stmtTimeout),
		executor.WithDryRun(opts.dryRun),
		executor.WithSkipExisting(opts.skipExisting),
		executor.WithProgressCallback(func(event executor.ProgressEvent) {
			switch event.Status {
			case executor.StatusStarting:
				fmt.Fprintf(out, "  %s %s ... ", event.Directive.Kind, event.Directive.Target())
			case executor.StatusCompleted:
				fmt.Fprintf(out, "done (%s)\n", event.Duration.Truncate(time.Millisecond))
				applied++
			case executor.StatusSkipped:
				fmt.Fprintf(out, "  %s %s ... skipped\n", event.Directive.Kind, event.Directive.Target())
				skipped++
			case executor.StatusFailed:
				fmt.Fprintf(out, "FAILED\n")
				fmt.Fprintf(out, "    Error: %v\n", event.Error)
			}
		}),
	}

	if opts.recordHistory {
		execOpts = append(execOpts, executor.WithRecorder(history.New(pool)))
	}

	exec := executor.New(pool, opts.adminURL, execOpts...)

	if opts.dryRun {
		fmt.Fprintln(out, "\n--- DRY RUN (no changes will be made) ---")
	}

	if err := exec.Run(ctx, p); err != nil {
		return err
	}

	if opts.dryRun {
		fmt.Fprintf(out, "\nDry run complete: %d directive(s) verified.\n", len(p.Directives))
	} else {
		fmt.Fprintf(out, "\nBootstrap complete: %d applied, %d skipped.\n", applied, skipped)
	}

	return nil
}
