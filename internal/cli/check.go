package cli

import (
	"github.com/spf13/cobra"
)

func newCheckCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check [packages...]",
		Short: "Validate client declarations without writing files",
		Long: `Validate the client declarations of the given packages and the configured
declaration files. Nothing is written. With --verbose the request steps of
every generated method are printed.

Example:
  restgen check ./...
  restgen check -v ./api`,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			env.diagnostics.Header("Checking clients")

			g := NewGenerator(env.config, env.diagnostics, env.reporter)
			summary, err := g.Run(args, false)
			env.diagnostics.Summary("Summary", map[string]interface{}{
				"Clients valid":   summary.ClientsGenerated,
				"Clients invalid": summary.ClientsInvalid,
			})
			if err == nil {
				env.diagnostics.Success("All clients are valid")
			}
			return err
		},
	}
}
