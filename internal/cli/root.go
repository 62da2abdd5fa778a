package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aqasim81/database-bootstrap-engine/internal/config"
)

const version = "0.1.0"

// AppConfig holds the loaded configuration, set during PersistentPreRunE.
var AppConfig *config.Config //nolint:gochecknoglobals // standard Cobra pattern for shared config

// rootCmd is the base command for the bootstrap CLI.
var rootCmd = &cobra.Command{ //nolint:gochecknoglobals // standard Cobra pattern
	Use:     "bootstrap",
	Version: version,
	Short:   "Declarative PostgreSQL environment bootstrap CLI",
	Long: `bootstrap provisions a PostgreSQL environment from a declarative plan:
it creates roles and databases, grants privileges, and enables extensions,
applying directives strictly in order over an administrative connection
and stopping on the first failure. Plans are linted for ordering and
credential problems before anything touches the server.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
}

func init() { //nolint:gochecknoinits // standard Cobra pattern for flag registration
	rootCmd.PersistentFlags().String("config", "bootstrap.yml", "path to configuration file")
	rootCmd.PersistentFlags().String("admin-url", "", "administrative PostgreSQL connection string")
	rootCmd.PersistentFlags().String("plan", "", "path to the plan file")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable verbose output")
}

// Execute runs the root command. Called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig loads configuration with precedence: flag > env > file.
func loadConfig(cmd *cobra.Command) error {
	configPath, _ := cmd.Flags().GetString("config")
	allowMissing := !cmd.Flags().Changed("config")

	cfg, err := config.Load(configPath, allowMissing)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	config.MergeEnv(cfg)
	mergeFlags(cmd, cfg)

	AppConfig = cfg

	return nil
}

// mergeFlags overrides config with explicitly-set CLI flags.
func mergeFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("admin-url") {
		cfg.AdminURL, _ = cmd.Flags().GetString("admin-url")
	}

	if cmd.Flags().Changed("plan") {
		cfg.PlanFile, _ = cmd.Flags().GetString("plan")
	}
}
