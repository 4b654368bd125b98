package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/restgen/internal/utils"
)

const petsDeclaration = `package: pets
path: example.com/app/pets
clients:
  - name: PetClient
    annotations: ["//rest::client -RootURL=https://pets.example.com"]
    methods:
      - name: Ping
        annotations: ["//rest::get /ping"]
`

const brokenDeclaration = `package: broken
path: example.com/app/broken
clients:
  - name: Broken
    annotations: ["//rest::client"]
    methods:
      - name: Count
        returns: int
`

// newTestGenerator returns a generator reading declaration files from dir
// with its output captured
func newTestGenerator(t *testing.T, dir string, level utils.DiagnosticLevel) (*Generator, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Dir = dir
	cfg.Packages = nil
	cfg.Declarations = []string{"**/*.yaml"}

	var out, errOut bytes.Buffer
	diagnostics := utils.NewDiagnosticSystem(level)
	diagnostics.SetOutput(&out, &errOut)
	reporter := NewDiagnosticReporter(level >= utils.DiagnosticVerbose)
	reporter.SetOutput(&errOut)
	return NewGenerator(cfg, diagnostics, reporter), &out, &errOut
}

func TestGenerator_Run(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "pets", "pets.yaml"), petsDeclaration)

	g, out, _ := newTestGenerator(t, dir, utils.DiagnosticInfo)
	summary, err := g.Run(nil, true)
	require.NoError(t, err)

	generated := filepath.Join(dir, "pets", "restgen_client.go")
	assert.Equal(t, 1, summary.PackagesProcessed)
	assert.Equal(t, 1, summary.ClientsGenerated)
	assert.Zero(t, summary.ClientsInvalid)
	assert.Equal(t, []string{generated}, summary.GeneratedFiles)
	assert.Contains(t, out.String(), "pets.PetClient")
	assert.Contains(t, out.String(), "Writing "+generated)

	content, err := os.ReadFile(generated)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Code generated by restgen. DO NOT EDIT.")
	assert.Contains(t, string(content), "package pets")
	assert.Contains(t, string(content), "PetClientImpl")

	t.Run("unchanged content is not rewritten", func(t *testing.T) {
		g, _, _ := newTestGenerator(t, dir, utils.DiagnosticInfo)
		summary, err := g.Run(nil, true)
		require.NoError(t, err)
		assert.Empty(t, summary.GeneratedFiles)
		assert.Equal(t, []string{generated}, summary.UnchangedFiles)
	})
}

func TestGenerator_RunInvalid(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "pets", "pets.yaml"), petsDeclaration)
	writeFile(t, filepath.Join(dir, "broken", "broken.yaml"), brokenDeclaration)

	g, _, errOut := newTestGenerator(t, dir, utils.DiagnosticInfo)
	summary, err := g.Run(nil, true)
	require.ErrorIs(t, err, ErrInvalidClients)
	assert.Equal(t, ExitInvalid, ExitCode(err))

	assert.Equal(t, 1, summary.ClientsGenerated)
	assert.Equal(t, 1, summary.ClientsInvalid)
	assert.FileExists(t, filepath.Join(dir, "pets", "restgen_client.go"))
	assert.NoFileExists(t, filepath.Join(dir, "broken", "restgen_client.go"))

	assert.Contains(t, errOut.String(), "✗ Broken")
	assert.Contains(t, errOut.String(), "[MissingVerb]")
	assert.Contains(t, errOut.String(), "[PrimitiveReturnType]")
}

func TestGenerator_RunWithoutWrite(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "pets", "pets.yaml"), petsDeclaration)

	g, out, _ := newTestGenerator(t, dir, utils.DiagnosticVerbose)
	summary, err := g.Run(nil, false)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.ClientsGenerated)
	assert.Empty(t, summary.GeneratedFiles)
	assert.NoFileExists(t, filepath.Join(dir, "pets", "restgen_client.go"))
	assert.Contains(t, out.String(), "Ping:")
}

func TestGenerator_RunWithoutWriteDescribesInvalidMethods(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "search", "search.yaml"), `package: search
path: example.com/app/search
clients:
  - name: Search
    annotations: ["//rest::client"]
    methods:
      - name: Find
        annotations: ["//rest::get /find/{term}"]
`)

	g, out, _ := newTestGenerator(t, dir, utils.DiagnosticVerbose)
	summary, err := g.Run(nil, false)
	require.ErrorIs(t, err, ErrInvalidClients)

	assert.Equal(t, 1, summary.ClientsInvalid)
	assert.Contains(t, out.String(), "Find (not generated):")
}

func TestGenerator_LoadErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bad.yaml"), "package: [pets")

	g, _, errOut := newTestGenerator(t, dir, utils.DiagnosticInfo)
	_, err := g.Run(nil, true)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, ExitCode(err))
	assert.Contains(t, errOut.String(), "[DeclarationSourceError]")

	t.Run("valid files are still generated", func(t *testing.T) {
		writeFile(t, filepath.Join(dir, "pets", "pets.yaml"), petsDeclaration)

		g, _, _ := newTestGenerator(t, dir, utils.DiagnosticInfo)
		summary, err := g.Run(nil, true)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrInvalidClients)
		assert.Equal(t, 1, summary.ClientsGenerated)
		assert.FileExists(t, filepath.Join(dir, "pets", "restgen_client.go"))
	})
}

func TestGenerationSummary_Stats(t *testing.T) {
	summary := GenerationSummary{
		PackagesProcessed: 2,
		ClientsGenerated:  3,
		ClientsInvalid:    1,
		GeneratedFiles:    []string{"a.go"},
		UnchangedFiles:    []string{"b.go", "c.go"},
	}
	stats := summary.Stats()
	assert.Equal(t, 2, stats["Packages processed"])
	assert.Equal(t, 3, stats["Clients generated"])
	assert.Equal(t, 1, stats["Clients invalid"])
	assert.Equal(t, 1, stats["Files written"])
	assert.Equal(t, 2, stats["Files unchanged"])
}
