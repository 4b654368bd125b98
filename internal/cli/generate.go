package cli

import (
	stderrors "errors"
	"time"

	"github.com/spf13/cobra"
)

func newGenerateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "generate [packages...]",
		Short: "Generate client implementations",
		Long: `Generate client implementations for the annotated interfaces of the given
packages and the configured declaration files. Each package gets one file
(restgen_client.go by default) holding every valid client it declares.

Invalid clients are reported and left out while the rest are generated;
the command then exits with status 1.

Example:
  restgen generate                   # Packages from the config, default ./...
  restgen generate ./api/...         # One subtree
  restgen generate --exclude '**/legacy/**' ./...`,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			return runGenerate(env, NewGenerator(env.config, env.diagnostics, env.reporter), args)
		},
	}
}

// runGenerate performs one generation run and prints its summary
func runGenerate(env *environment, g *Generator, patterns []string) error {
	env.diagnostics.Header("Generating clients")

	summary, err := g.Run(patterns, true)
	if err != nil && !stderrors.Is(err, ErrInvalidClients) {
		return err
	}

	env.diagnostics.Summary("Summary", summary.Stats())
	env.diagnostics.Verbose("Finished in %s", summary.Duration.Round(time.Millisecond))
	if err == nil {
		env.diagnostics.GenerationComplete()
	}
	return err
}
