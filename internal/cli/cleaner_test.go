package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/restgen/internal/utils"
)

func TestCleaner_Clean(t *testing.T) {
	const generated = utils.GeneratedHeader + "\n\npackage api\n"

	tests := []struct {
		name     string
		patterns []string
		removed  []string
	}{
		{"recursive", []string{"./..."}, []string{"api/restgen_client.go", "api/v2/restgen_client.go"}},
		{"subtree", []string{"./api/v2/..."}, []string{"api/v2/restgen_client.go"}},
		{"single directory", []string{"./api"}, []string{"api/restgen_client.go"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, filepath.Join(dir, "api", "restgen_client.go"), generated)
			writeFile(t, filepath.Join(dir, "api", "v2", "restgen_client.go"), generated)
			writeFile(t, filepath.Join(dir, "handwritten", "restgen_client.go"), "package handwritten\n")
			writeFile(t, filepath.Join(dir, "api", "client.go"), "package api\n")

			removed, err := NewCleaner(utils.NewFileProcessor(), dir, "restgen_client.go").Clean(tt.patterns)
			require.NoError(t, err)

			want := make([]string, len(tt.removed))
			for i, rel := range tt.removed {
				want[i] = filepath.Join(dir, filepath.FromSlash(rel))
			}
			assert.ElementsMatch(t, want, removed)
			for _, file := range want {
				assert.NoFileExists(t, file)
			}
			assert.FileExists(t, filepath.Join(dir, "handwritten", "restgen_client.go"), "files without the header stay")
			assert.FileExists(t, filepath.Join(dir, "api", "client.go"))
		})
	}
}

func TestCleaner_UsesGeneratorExclusions(t *testing.T) {
	const generated = utils.GeneratedHeader + "\n\npackage api\n"
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "api", "restgen_client.go"), generated)
	writeFile(t, filepath.Join(dir, "legacy", "restgen_client.go"), generated)

	cfg := DefaultConfig()
	cfg.Dir = dir
	cfg.Exclude = []string{"legacy/**", "legacy"}
	g := NewGenerator(cfg, utils.NewDiagnosticSystem(utils.DiagnosticSilent), NewDiagnosticReporter(false))

	removed, err := NewCleaner(g.Processor(), dir, cfg.Output).Clean([]string{"./..."})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "api", "restgen_client.go")}, removed)
	assert.FileExists(t, filepath.Join(dir, "legacy", "restgen_client.go"))
}
