package cli

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/toyz/restgen/internal/emitter"
	"github.com/toyz/restgen/internal/errors"
)

// initConfig is the file written by the init command. Debounce is kept as a
// string so the file reads "300ms" rather than nanoseconds.
type initConfig struct {
	Output       string          `yaml:"output"`
	Packages     []string        `yaml:"packages"`
	Exclude      []string        `yaml:"exclude"`
	Declarations []string        `yaml:"declarations"`
	Tags         []string        `yaml:"tags,omitempty"`
	LogLevel     string          `yaml:"log_level"`
	Watch        initWatchConfig `yaml:"watch"`
}

type initWatchConfig struct {
	Debounce string `yaml:"debounce"`
}

func newInitCommand(opts *rootOptions) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a restgen.yaml with the default configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := filepath.Join(opts.dir, configFileNames[0])
			if _, err := os.Stat(path); err == nil && !force {
				return errors.WrapConfigurationError(path, os.ErrExist)
			}

			content, err := renderInitConfig(DefaultConfig())
			if err != nil {
				return err
			}
			if err := os.WriteFile(path, content, 0o644); err != nil {
				return errors.WrapFileSystemError("write", path, err)
			}
			cmd.Printf("Wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing config file")
	return cmd
}

// renderInitConfig encodes cfg as the init config file
func renderInitConfig(cfg *Config) ([]byte, error) {
	out := initConfig{
		Output:       cfg.Output,
		Packages:     cfg.Packages,
		Exclude:      append([]string{}, cfg.Exclude...),
		Declarations: append([]string{}, cfg.Declarations...),
		Tags:         cfg.Tags,
		LogLevel:     cfg.LogLevel,
		Watch:        initWatchConfig{Debounce: cfg.Watch.Debounce.String()},
	}
	if out.Output == "" {
		out.Output = emitter.DefaultFileName
	}

	var buf bytes.Buffer
	buf.WriteString("# restgen configuration\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return nil, errors.WrapConfigurationError("init", err)
	}
	if err := enc.Close(); err != nil {
		return nil, errors.WrapConfigurationError("init", err)
	}
	return buf.Bytes(), nil
}
