package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/restgen/internal/errors"
	"github.com/toyz/restgen/internal/utils"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadConfig_Defaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadConfig(dir, "", nil)
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.Dir)
	assert.Empty(t, cfg.File)
	assert.Equal(t, "restgen_client.go", cfg.Output)
	assert.Equal(t, []string{"./..."}, cfg.Packages)
	assert.Empty(t, cfg.Declarations)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, DefaultDebounce, cfg.Watch.Debounce)
	assert.Equal(t, utils.DiagnosticInfo, cfg.DiagnosticLevel())
}

func TestLoadConfig_File(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
	}{
		{"yaml", "restgen.yaml"},
		{"yml", "restgen.yml"},
		{"hidden", ".restgen.yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, filepath.Join(dir, tt.fileName), `output: client_gen.go
packages: ["./api/..."]
exclude: ["**/legacy/**"]
declarations: ["decl/*.yaml"]
tags: [integration]
log_level: verbose
watch:
  debounce: 1s
`)

			cfg, err := LoadConfig(dir, "", nil)
			require.NoError(t, err)

			assert.Equal(t, filepath.Join(dir, tt.fileName), cfg.File)
			assert.Equal(t, "client_gen.go", cfg.Output)
			assert.Equal(t, []string{"./api/..."}, cfg.Packages)
			assert.Equal(t, []string{"**/legacy/**"}, cfg.Exclude)
			assert.Equal(t, []string{"decl/*.yaml"}, cfg.Declarations)
			assert.Equal(t, []string{"integration"}, cfg.Tags)
			assert.Equal(t, utils.DiagnosticVerbose, cfg.DiagnosticLevel())
			assert.Equal(t, time.Second, cfg.Watch.Debounce)
		})
	}
}

func TestLoadConfig_ExplicitPath(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "restgen.yaml"), "output: ignored_gen.go\n")
	custom := filepath.Join(dir, "conf", "custom.yaml")
	writeFile(t, custom, "output: custom_gen.go\n")

	cfg, err := LoadConfig(dir, custom, nil)
	require.NoError(t, err)
	assert.Equal(t, "custom_gen.go", cfg.Output)
	assert.Equal(t, custom, cfg.File)

	_, err = LoadConfig(dir, filepath.Join(dir, "missing.yaml"), nil)
	require.Error(t, err)
}

func TestLoadConfig_Precedence(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "restgen.yaml"), `output: file_gen.go
log_level: warn
watch:
  debounce: 2s
`)

	t.Run("environment overrides file", func(t *testing.T) {
		t.Setenv("RESTGEN_OUTPUT", "env_gen.go")
		t.Setenv("RESTGEN_WATCH_DEBOUNCE", "500ms")

		cfg, err := LoadConfig(dir, "", nil)
		require.NoError(t, err)
		assert.Equal(t, "env_gen.go", cfg.Output)
		assert.Equal(t, 500*time.Millisecond, cfg.Watch.Debounce)
		assert.Equal(t, "warn", cfg.LogLevel)
	})

	t.Run("changed flags override environment", func(t *testing.T) {
		t.Setenv("RESTGEN_OUTPUT", "env_gen.go")

		cmd := &cobra.Command{}
		cmd.Flags().String("output", "", "")
		cmd.Flags().String("log-level", "", "")
		require.NoError(t, cmd.Flags().Set("output", "flag_gen.go"))

		cfg, err := LoadConfig(dir, "", cmd)
		require.NoError(t, err)
		assert.Equal(t, "flag_gen.go", cfg.Output)
		assert.Equal(t, "warn", cfg.LogLevel, "unset flags keep lower sources")
	})
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".env"), "RESTGEN_LOG_LEVEL=debug\n")
	t.Cleanup(func() { os.Unsetenv("RESTGEN_LOG_LEVEL") })

	cfg, err := LoadConfig(dir, "", nil)
	require.NoError(t, err)
	assert.Equal(t, utils.DiagnosticDebug, cfg.DiagnosticLevel())
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"output not go", "output: client.txt\n"},
		{"output test file", "output: client_test.go\n"},
		{"output with directory", "output: gen/client.go\n"},
		{"bad exclude glob", "exclude: ['[abc']\n"},
		{"empty declaration glob", "declarations: ['']\n"},
		{"unknown log level", "log_level: loud\n"},
		{"negative debounce", "watch:\n  debounce: -1s\n"},
		{"malformed yaml", "output: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, filepath.Join(dir, "restgen.yaml"), tt.content)

			_, err := LoadConfig(dir, "", nil)
			require.Error(t, err)

			var diag errors.Diagnostic
			require.ErrorAs(t, err, &diag)
			assert.Equal(t, errors.ConfigurationErrorCode, diag.ErrorCode())
		})
	}
}

func TestConfig_Resolve(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Dir = filepath.Join("work", "project")

	assert.Equal(t, filepath.Join("work", "project", "api", "*.yaml"), cfg.Resolve(filepath.Join("api", "*.yaml")))

	abs, err := filepath.Abs("decl.yaml")
	require.NoError(t, err)
	assert.Equal(t, abs, cfg.Resolve(abs))
}
