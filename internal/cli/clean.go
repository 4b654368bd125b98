package cli

import (
	"github.com/spf13/cobra"
)

func newCleanCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clean [packages...]",
		Short: "Remove generated client files",
		Long: `Remove the generated client files under the directories of the given
package patterns. Only files starting with the restgen header are removed.

Example:
  restgen clean ./...`,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			patterns := args
			if len(patterns) == 0 {
				patterns = env.config.Packages
			}

			env.diagnostics.Header("Cleaning generated files")
			processor := NewGenerator(env.config, env.diagnostics, env.reporter).Processor()
			removed, err := NewCleaner(processor, env.config.Dir, env.config.Output).Clean(patterns)
			for _, file := range removed {
				env.diagnostics.PhaseProgress("Removing " + file)
			}
			if err != nil {
				return err
			}
			env.diagnostics.Success("Removed %d files", len(removed))
			return nil
		},
	}
}
