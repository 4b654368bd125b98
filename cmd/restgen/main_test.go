package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/restgen/internal/cli"
)

func TestRun(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "decl"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "restgen.yaml"), []byte("packages: []\ndeclarations: [\"decl/*.yaml\"]\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "decl", "broken.yaml"), []byte(`package: broken
clients:
  - name: Broken
    annotations: ["//rest::client"]
    methods:
      - name: Count
        returns: int
`), 0o644))

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"version", []string{"version"}, cli.ExitOK},
		{"invalid clients", []string{"-q", "-C", dir, "check"}, cli.ExitInvalid},
		{"unknown command", []string{"frobnicate"}, cli.ExitFailure},
		{"bad config", []string{"-q", "-C", dir, "generate", "-o", "client.txt"}, cli.ExitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, run(tt.args))
		})
	}
}
