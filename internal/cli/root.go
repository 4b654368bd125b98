// Package cli provides the restgen command-line interface.
package cli

import (
	"context"
	stderrors "errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/toyz/restgen/internal/utils"
)

// Exit codes returned by ExitCode
const (
	ExitOK      = 0
	ExitInvalid = 1 // some clients were invalid
	ExitFailure = 2 // configuration, loading or writing failed
)

// ExitCode maps an error returned by a command to a process exit code
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case stderrors.Is(err, ErrInvalidClients):
		return ExitInvalid
	default:
		return ExitFailure
	}
}

// rootOptions holds the persistent flags shared by every command
type rootOptions struct {
	configFile string
	dir        string
	verbose    bool
	quiet      bool
}

// environment is what a command needs to run
type environment struct {
	config      *Config
	diagnostics *utils.DiagnosticSystem
	reporter    *DiagnosticReporter
}

// setup loads the configuration and builds the output of a command
func (o *rootOptions) setup(cmd *cobra.Command) (*environment, error) {
	cfg, err := LoadConfig(o.dir, o.configFile, cmd)
	if err != nil {
		return nil, err
	}
	switch {
	case o.quiet:
		cfg.LogLevel = "error"
	case o.verbose && cfg.DiagnosticLevel() < utils.DiagnosticVerbose:
		cfg.LogLevel = "verbose"
	}

	diagnostics := utils.NewDiagnosticSystem(cfg.DiagnosticLevel())
	reporter := NewDiagnosticReporter(cfg.DiagnosticLevel() >= utils.DiagnosticVerbose)
	if out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr(); out != os.Stdout || errOut != os.Stderr {
		diagnostics.SetOutput(out, errOut)
		reporter.SetOutput(errOut)
	}

	if cfg.File != "" {
		diagnostics.Debug("Using config file %s", cfg.File)
	}
	return &environment{config: cfg, diagnostics: diagnostics, reporter: reporter}, nil
}

// NewRootCommand builds the restgen command tree
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "restgen",
		Short: "Generate REST client implementations from annotated Go interfaces",
		Long: `restgen reads Go interfaces annotated with //rest:: comments, or YAML
declaration files, and generates implementations that issue HTTP requests
through the github.com/toyz/restgen/pkg/rest runtime.

Example:
  restgen generate ./...            # Generate clients for every package
  restgen check ./api/...           # Validate declarations without writing
  restgen clean ./...               # Remove generated files
  restgen watch ./...               # Regenerate on change`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configFile, "config", "c", "", "config file (default: restgen.yaml)")
	flags.StringVarP(&opts.dir, "dir", "C", ".", "directory to run in")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "only show errors")
	flags.StringP("output", "o", "", "name of the generated file in each package")
	flags.StringSlice("exclude", nil, "doublestar globs of files and directories to skip")
	flags.StringSlice("declarations", nil, "globs of YAML declaration files")
	flags.StringSlice("tags", nil, "build tags used when loading packages")
	flags.String("log-level", "", "silent, error, warn, info, verbose or debug")
	root.MarkFlagsMutuallyExclusive("verbose", "quiet")

	root.AddCommand(
		newGenerateCommand(opts),
		newCheckCommand(opts),
		newCleanCommand(opts),
		newWatchCommand(opts),
		newInitCommand(opts),
		newVersionCommand(),
	)
	return root
}

// Execute runs the command tree with args
func Execute(ctx context.Context, args []string) error {
	root := NewRootCommand()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}
