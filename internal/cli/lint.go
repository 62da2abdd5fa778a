package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/aqasim81/database-bootstrap-engine/internal/lint"
	"github.com/aqasim81/database-bootstrap-engine/internal/lint/rules"
	"github.com/aqasim81/database-bootstrap-engine/internal/plan"
)

var lintCmd = &cobra.Command{ //nolint:gochecknoglobals // standard Cobra pattern
	Use:   "lint [plan-file]",
	Short: "Lint a bootstrap plan",
	Long: `Check a bootstrap plan for problems before applying it: directives
that reference roles or databases the plan has not created, duplicate
creates, weak or plan-file-literal passwords, superuser roles, and
capabilities enabled without switching connections.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLint,
}

func init() { //nolint:gochecknoinits // standard Cobra pattern for flag registration
	lintCmd.Flags().Bool("fail-on-high", false, "exit with non-zero code if high/critical findings exist")
	rootCmd.AddCommand(lintCmd)
}

// errHighSeverityFindings is returned when --fail-on-high is set and high/critical findings exist.
var errHighSeverityFindings = errors.New("high or critical severity findings detected")

func runLint(cmd *cobra.Command, args []string) error {
	planFile := AppConfig.PlanFile
	if len(args) > 0 {
		planFile = args[0]
	}

	p, err := plan.LoadFromFile(planFile)
	if err != nil {
		return fmt.Errorf("loading plan: %w", err)
	}

	result := lint.New(lint.WithRegistry(rules.NewDefaultRegistry())).Lint(p)

	hasHighOrCritical := printLintFindings(cmd.OutOrStdout(), result)

	failOnHigh, _ := cmd.Flags().GetBool("fail-on-high")
	if failOnHigh && hasHighOrCritical {
		return errHighSeverityFindings
	}

	return nil
}

// printLintFindings writes findings to out and reports whether any are
// High or Critical.
func printLintFindings(out io.Writer, result *lint.Result) bool {
	if len(result.Findings) == 0 {
		fmt.Fprintln(out, "Plan is clean.")

		return false
	}

	for _, f := range result.Findings {
		fmt.Fprintf(out, "  [%s] directive %d: %s\n", f.Severity, f.DirectiveIndex+1, f.Message)
		fmt.Fprintf(out, "    Target: %s\n", f.Target)
		fmt.Fprintf(out, "    Rule:   %s\n", f.Rule)
		fmt.Fprintf(out, "    Fix:    %s\n\n", f.Suggestion)
	}

	fmt.Fprintf(out, "Found %d finding(s).\n", len(result.Findings))

	return result.HasHighOrCritical()
}
