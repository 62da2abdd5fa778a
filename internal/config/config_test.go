package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aqasim81/database-bootstrap-engine/internal/config"
)

func TestNew_returnsDefaults(t *testing.T) {
	t.Parallel()

	cfg := config.New()

	assert.Empty(t, cfg.AdminURL)
	assert.Equal(t, config.DefaultPlanFile, cfg.PlanFile)
	assert.Equal(t, config.DefaultConnectTimeout, cfg.ConnectTimeout)
	assert.Equal(t, config.DefaultStatementTimeout, cfg.StatementTimeout)
	assert.Equal(t, config.DefaultFormat, cfg.Format)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		content      string
		allowMissing bool
		writeFile    bool
		wantErr      bool
		check        func(t *testing.T, cfg *config.Config)
	}{
		{
			name:      "valid file parses all fields",
			writeFile: true,
			content: `admin_url: "postgres://admin@localhost:5432/postgres"
plan_file: "./env/bootstrap.yml"
connect_timeout: "5s"
statement_timeout: "1m"
format: "json"
`,
			check: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.Equal(t, "postgres://admin@localhost:5432/postgres", cfg.AdminURL)
				assert.Equal(t, "./env/bootstrap.yml", cfg.PlanFile)
				assert.Equal(t, 5*time.Second, cfg.ConnectTimeout)
				assert.Equal(t, time.Minute, cfg.StatementTimeout)
				assert.Equal(t, "json", cfg.Format)
			},
		},
		{
			name:      "partial file applies defaults",
			writeFile: true,
			content:   `admin_url: "postgres://localhost/postgres"`,
			check: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.Equal(t, "postgres://localhost/postgres", cfg.AdminURL)
				assert.Equal(t, config.DefaultPlanFile, cfg.PlanFile)
				assert.Equal(t, config.DefaultConnectTimeout, cfg.ConnectTimeout)
				assert.Equal(t, config.DefaultStatementTimeout, cfg.StatementTimeout)
			},
		},
		{
			name:      "invalid connect_timeout",
			writeFile: true,
			content:   `connect_timeout: "soon"`,
			wantErr:   true,
		},
		{
			name:      "invalid statement_timeout",
			writeFile: true,
			content:   `statement_timeout: "whenever"`,
			wantErr:   true,
		},
		{
			name:      "invalid YAML",
			writeFile: true,
			content:   "admin_url: [unclosed",
			wantErr:   true,
		},
		{
			name:         "missing file allowed returns defaults",
			allowMissing: true,
			check: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.Equal(t, config.DefaultPlanFile, cfg.PlanFile)
			},
		},
		{
			name:    "missing file not allowed errors",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "bootstrap.yml")

			if tt.writeFile {
				require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))
			}

			cfg, err := config.Load(path, tt.allowMissing)

			if tt.wantErr {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestMergeEnv(t *testing.T) { //nolint:paralleltest // uses t.Setenv
	t.Setenv("BOOTSTRAP_ADMIN_URL", "postgres://env@localhost/postgres")
	t.Setenv("BOOTSTRAP_PLAN_FILE", "/etc/bootstrap/plan.yml")
	t.Setenv("BOOTSTRAP_CONNECT_TIMEOUT", "3s")
	t.Setenv("BOOTSTRAP_STATEMENT_TIMEOUT", "90s")

	cfg := config.New()
	config.MergeEnv(cfg)

	assert.Equal(t, "postgres://env@localhost/postgres", cfg.AdminURL)
	assert.Equal(t, "/etc/bootstrap/plan.yml", cfg.PlanFile)
	assert.Equal(t, 3*time.Second, cfg.ConnectTimeout)
	assert.Equal(t, 90*time.Second, cfg.StatementTimeout)
}

func TestMergeEnv_invalidDurationIgnored(t *testing.T) { //nolint:paralleltest // uses t.Setenv
	t.Setenv("BOOTSTRAP_CONNECT_TIMEOUT", "never")

	cfg := config.New()
	config.MergeEnv(cfg)

	assert.Equal(t, config.DefaultConnectTimeout, cfg.ConnectTimeout)
}

func TestMergeEnv_emptyEnvLeavesConfig(t *testing.T) { //nolint:paralleltest // uses t.Setenv
	t.Setenv("BOOTSTRAP_ADMIN_URL", "")

	cfg := config.New()
	cfg.AdminURL = "postgres://from-file@localhost/postgres"
	config.MergeEnv(cfg)

	assert.Equal(t, "postgres://from-file@localhost/postgres", cfg.AdminURL)
}
