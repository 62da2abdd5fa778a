package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values for configuration fields.
const (
	DefaultPlanFile         = "./plan.yml"
	DefaultConnectTimeout   = 10 * time.Second
	DefaultStatementTimeout = 30 * time.Second
	DefaultFormat           = "text"
)

// Config holds the application configuration loaded from file, environment, and flags.
type Config struct {
	AdminURL         string
	PlanFile         string
	ConnectTimeout   time.Duration
	StatementTimeout time.Duration
	Format           string
}

// yamlConfig is the raw YAML file representation with string durations.
type yamlConfig struct {
	AdminURL         string `yaml:"admin_url"`
	PlanFile         string `yaml:"plan_file"`
	ConnectTimeout   string `yaml:"connect_timeout"`
	StatementTimeout string `yaml:"statement_timeout"`
	Format           string `yaml:"format"`
}

// New returns a Config populated with default values.
func New() *Config {
	return &Config{
		PlanFile:         DefaultPlanFile,
		ConnectTimeout:   DefaultConnectTimeout,
		StatementTimeout: DefaultStatementTimeout,
		Format:           DefaultFormat,
	}
}

// Load reads a YAML configuration file and returns a Config.
// If allowMissing is true and the file does not exist, defaults are returned.
func Load(path string, allowMissing bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && allowMissing {
			return New(), nil
		}

		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	var raw yamlConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	return fromYAML(&raw)
}

// fromYAML converts the raw YAML representation to a Config with defaults applied.
func fromYAML(raw *yamlConfig) (*Config, error) {
	cfg := New()

	if raw.AdminURL != "" {
		cfg.AdminURL = raw.AdminURL
	}

	if raw.PlanFile != "" {
		cfg.PlanFile = raw.PlanFile
	}

	if raw.ConnectTimeout != "" {
		d, err := time.ParseDuration(raw.ConnectTimeout)
		if err != nil {
			return nil, fmt.Errorf("parsing connect_timeout %q: %w", raw.ConnectTimeout, err)
		}

		cfg.ConnectTimeout = d
	}

	if raw.StatementTimeout != "" {
		d, err := time.ParseDuration(raw.StatementTimeout)
		if err != nil {
			return nil, fmt.Errorf("parsing statement_timeout %q: %w", raw.StatementTimeout, err)
		}

		cfg.StatementTimeout = d
	}

	if raw.Format != "" {
		cfg.Format = raw.Format
	}

	return cfg, nil
}

// MergeEnv overrides config fields from BOOTSTRAP_* environment variables.
func MergeEnv(cfg *Config) {
	if v := os.Getenv("BOOTSTRAP_ADMIN_URL"); v != "" {
		cfg.AdminURL = v
	}

	if v := os.Getenv("BOOTSTRAP_PLAN_FILE"); v != "" {
		cfg.PlanFile = v
	}

	if v := os.Getenv("BOOTSTRAP_CONNECT_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.ConnectTimeout = d
		}
	}

	if v := os.Getenv("BOOTSTRAP_STATEMENT_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.StatementTimeout = d
		}
	}
}
