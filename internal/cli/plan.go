package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aqasim81/database-bootstrap-engine/internal/plan"
	"github.com/aqasim81/database-bootstrap-engine/internal/render"
)

var planCmd = &cobra.Command{ //nolint:gochecknoglobals // standard Cobra pattern
	Use:   "plan [plan-file]",
	Short: "Show the execution plan",
	Long: `Display the ordered directives of a bootstrap plan with the SQL each
one renders to, without connecting to any server.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlanCmd,
}

func init() { //nolint:gochecknoinits // standard Cobra pattern for flag registration
	rootCmd.AddCommand(planCmd)
}

func runPlanCmd(cmd *cobra.Command, args []string) error {
	planFile := AppConfig.PlanFile
	if len(args) > 0 {
		planFile = args[0]
	}

	p, err := plan.LoadFromFile(planFile)
	if err != nil {
		return fmt.Errorf("loading plan: %w", err)
	}

	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Plan %s (%d directive(s), checksum %s)\n\n", p.FilePath, len(p.Directives), p.Checksum[:12])

	for i := range p.Directives {
		d := &p.Directives[i]

		if d.Kind == plan.KindSwitchConnection {
			fmt.Fprintf(out, "  %d. %s %s\n     -- reconnect to database %q\n", i+1, d.Kind, d.Target(), d.Database)

			continue
		}

		sql, err := render.ForDisplay(d)
		if err != nil {
			return fmt.Errorf("rendering directive %d (%s %s): %w", i+1, d.Kind, d.Target(), err)
		}

		fmt.Fprintf(out, "  %d. %s %s\n     %s\n", i+1, d.Kind, d.Target(), sql)
	}

	return nil
}
