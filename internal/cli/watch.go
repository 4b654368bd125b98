package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/toyz/restgen/internal/utils"
)

func newWatchCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [packages...]",
		Short: "Regenerate clients when sources change",
		Long: `Generate once, then watch the package directories and declaration files
and regenerate after changes settle. Stop with Ctrl+C.

Example:
  restgen watch ./...
  restgen watch --debounce 1s ./api/...`,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			patterns := args
			if len(patterns) == 0 {
				patterns = env.config.Packages
			}

			roots := watchRoots(env.config, patterns)
			g := NewGenerator(env.config, env.diagnostics, env.reporter)
			_ = runGenerate(env, g, patterns)

			env.diagnostics.Info("Watching %d roots, press Ctrl+C to stop", len(roots))
			watcher := NewWatcher(g.Processor(), env.diagnostics, env.config.Watch.Debounce, env.config.Output)
			return watcher.Watch(cmd.Context(), roots, func() error {
				return runGenerate(env, g, patterns)
			})
		},
	}
	cmd.Flags().Duration("debounce", DefaultDebounce, "time to wait for changes to settle")
	return cmd
}

// watchRoots returns the existing directories of the package patterns and
// of the declaration globs
func watchRoots(cfg *Config, patterns []string) []string {
	var candidates, roots []string
	for _, pattern := range patterns {
		candidates = append(candidates, cfg.Resolve(utils.PatternRoot(pattern)))
	}
	for _, glob := range cfg.Declarations {
		candidates = append(candidates, cfg.Resolve(globBase(glob)))
	}
	for _, dir := range candidates {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			roots = append(roots, dir)
		}
	}
	return roots
}

// globBase returns the leading directory of a glob that holds no pattern
// characters
func globBase(glob string) string {
	dir := filepath.ToSlash(glob)
	for {
		if !containsMeta(dir) {
			if dir == glob {
				return filepath.Dir(glob)
			}
			return filepath.FromSlash(dir)
		}
		parent := filepath.ToSlash(filepath.Dir(dir))
		if parent == dir {
			return "."
		}
		dir = parent
	}
}

func containsMeta(s string) bool {
	for _, r := range s {
		switch r {
		case '*', '?', '[', '{', '\\':
			return true
		}
	}
	return false
}
