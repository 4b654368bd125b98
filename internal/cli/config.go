package cli

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/toyz/restgen/internal/emitter"
	"github.com/toyz/restgen/internal/errors"
	"github.com/toyz/restgen/internal/utils"
)

// EnvPrefix prefixes environment variables overriding configuration keys,
// e.g. RESTGEN_OUTPUT or RESTGEN_WATCH_DEBOUNCE
const EnvPrefix = "RESTGEN"

// DefaultDebounce is the default delay between a change and regeneration
const DefaultDebounce = 300 * time.Millisecond

// configFileNames are searched in order when no config file is given
var configFileNames = []string{
	"restgen.yaml",
	"restgen.yml",
	".restgen.yaml",
	".restgen.yml",
}

// Config holds the configuration for the CLI
type Config struct {
	// Dir is the directory package patterns and relative paths resolve in
	Dir string `mapstructure:"-"`

	// File is the config file that was read, empty when defaults are used
	File string `mapstructure:"-"`

	// Output is the name of the file generated in each package
	Output string `mapstructure:"output"`

	// Packages are the package patterns used when none are given
	Packages []string `mapstructure:"packages"`

	// Exclude lists doublestar globs for files and directories to skip
	Exclude []string `mapstructure:"exclude"`

	// Declarations lists globs of YAML declaration files
	Declarations []string `mapstructure:"declarations"`

	// Tags are build tags used when loading packages
	Tags []string `mapstructure:"tags"`

	// LogLevel is one of silent, error, warn, info, verbose, debug
	LogLevel string `mapstructure:"log_level"`

	// Watch configures the watch command
	Watch WatchConfig `mapstructure:"watch"`
}

// WatchConfig contains file watching configuration
type WatchConfig struct {
	// Debounce is how long to wait for changes to settle
	Debounce time.Duration `mapstructure:"debounce"`
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		Dir:      ".",
		Output:   emitter.DefaultFileName,
		Packages: []string{"./..."},
		Exclude:  []string{},
		LogLevel: "info",
		Watch:    WatchConfig{Debounce: DefaultDebounce},
	}
}

// flagKeys maps command-line flags to configuration keys
var flagKeys = map[string]string{
	"output":       "output",
	"exclude":      "exclude",
	"declarations": "declarations",
	"tags":         "tags",
	"log-level":    "log_level",
	"debounce":     "watch.debounce",
}

// LoadConfig reads the configuration. Values come from, in increasing
// precedence: defaults, the config file, a .env file in dir, the environment
// and the flags of cmd that were set. configPath selects a file explicitly;
// otherwise restgen.yaml and its variants are searched in dir.
func LoadConfig(dir, configPath string, cmd *cobra.Command) (*Config, error) {
	if dir == "" {
		dir = "."
	}
	defaults := DefaultConfig()

	v := viper.New()
	v.SetDefault("output", defaults.Output)
	v.SetDefault("packages", defaults.Packages)
	v.SetDefault("exclude", defaults.Exclude)
	v.SetDefault("declarations", []string{})
	v.SetDefault("tags", []string{})
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("watch.debounce", defaults.Watch.Debounce)

	if err := godotenv.Load(filepath.Join(dir, ".env")); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return nil, errors.WrapConfigurationError(".env", err)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configPath == "" {
		configPath = findConfigFile(dir)
	}
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.WrapConfigurationError(configPath, err)
		}
	}

	if cmd != nil {
		flags := cmd.Flags()
		for name, key := range flagKeys {
			if flag := flags.Lookup(name); flag != nil {
				if err := v.BindPFlag(key, flag); err != nil {
					return nil, errors.WrapConfigurationError("--"+name, err)
				}
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WrapConfigurationError(configPath, fmt.Errorf("failed to unmarshal config: %w", err))
	}
	cfg.Dir = dir
	cfg.File = configPath

	if err := cfg.Validate(); err != nil {
		return nil, errors.WrapConfigurationError(configSource(configPath), err)
	}
	return cfg, nil
}

// findConfigFile returns the first config file present in dir
func findConfigFile(dir string) string {
	for _, name := range configFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func configSource(path string) string {
	if path == "" {
		return "configuration"
	}
	return path
}

// Validate checks every configuration value
func (c *Config) Validate() error {
	if err := utils.ValidateOutputFileName("output")(c.Output); err != nil {
		return err
	}
	if err := utils.ValidateEach("exclude", utils.ValidateGlob("exclude"))(c.Exclude); err != nil {
		return err
	}
	if err := utils.ValidateEach("declarations", utils.ValidateGlob("declarations"))(c.Declarations); err != nil {
		return err
	}
	if err := utils.ValidateLogLevel("log_level")(c.LogLevel); err != nil {
		return err
	}
	return utils.ValidateDebounce("watch.debounce")(c.Watch.Debounce)
}

// DiagnosticLevel returns the configured level
func (c *Config) DiagnosticLevel() utils.DiagnosticLevel {
	level, _ := utils.ParseDiagnosticLevel(c.LogLevel)
	return level
}

// Resolve returns path relative to the config directory
func (c *Config) Resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir, path)
}
