package utils

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func relative(t *testing.T, root string, paths []string) []string {
	t.Helper()
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		rel, err := filepath.Rel(root, p)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(rel))
	}
	sort.Strings(out)
	return out
}

func TestFileProcessor_WalkFiles(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"client.go":           "package api",
		"client_test.go":      "package api",
		"decl.yaml":           "package: api",
		"nested/decl.yml":     "package: nested",
		"vendor/dep/dep.go":   "package dep",
		".git/config":         "",
		"testdata/fixture.go": "package fixture",
		"legacy/old.go":       "package legacy",
	})

	tests := []struct {
		name    string
		exclude []string
		filter  FileFilter
		want    []string
	}{
		{"go files", nil, GoFileFilter(), []string{"client.go", "legacy/old.go"}},
		{"declarations", nil, DeclarationFileFilter(), []string{"decl.yaml", "nested/decl.yml"}},
		{"excluded directory", []string{"**/legacy"}, GoFileFilter(), []string{"client.go"}},
		{"named", nil, NamedFileFilter("client.go"), []string{"client.go"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fp := NewFileProcessor().WithExclude(tt.exclude...)
			files, err := fp.WalkFiles(root, FileWalkOptions{
				FileFilter:      tt.filter,
				DirectoryFilter: DefaultDirectoryFilter(),
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, relative(t, root, files))
		})
	}
}

func TestFileProcessor_FindGeneratedFiles(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a/restgen_client.go": GeneratedHeader + "\n\npackage a\n",
		"b/restgen_client.go": "package b\n",
		"c/other.go":          GeneratedHeader + "\n\npackage c\n",
	})

	fp := NewFileProcessor()
	files, err := fp.FindGeneratedFiles([]string{root}, "restgen_client.go")
	require.NoError(t, err)
	assert.Equal(t, []string{"a/restgen_client.go"}, relative(t, root, files))

	removed, err := fp.RemoveFiles(append(files, filepath.Join(root, "gone.go")))
	require.NoError(t, err)
	assert.Equal(t, files, removed)
	assert.NoFileExists(t, files[0])
	assert.FileExists(t, filepath.Join(root, "b", "restgen_client.go"))
}

func TestFileProcessor_WatchDirectories(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"api/client.go":        "package api",
		"api/v2/client.go":     "package v2",
		"node_modules/x/y.js":  "",
		"_examples/ex/main.go": "package main",
		"skipped/main.go":      "package main",
	})

	fp := NewFileProcessor().WithExclude("**/skipped")
	dirs, err := fp.WatchDirectories([]string{root, root})
	require.NoError(t, err)
	assert.Equal(t, []string{".", "api", "api/v2"}, relative(t, root, dirs))
}

func TestPatternRoot(t *testing.T) {
	tests := []struct {
		pattern string
		want    string
	}{
		{"./...", "."},
		{"...", "."},
		{"./api/...", filepath.FromSlash("./api")},
		{"./api", filepath.FromSlash("./api")},
		{".", "."},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			assert.Equal(t, tt.want, PatternRoot(tt.pattern))
		})
	}
}

func TestWriteGoFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "restgen_client.go")

	changed, err := WriteGoFile(path, []byte("package api\n\nvar   x   = 1\n"))
	require.NoError(t, err)
	assert.True(t, changed)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "package api\n\nvar x = 1\n", string(content))

	changed, err = WriteGoFile(path, []byte("package api\n\nvar x = 1\n"))
	require.NoError(t, err)
	assert.False(t, changed, "identical content is not rewritten")

	_, err = WriteGoFile(path, []byte("package api\nvar = \n"))
	assert.Error(t, err)
}

func TestFileProcessor_Excluded(t *testing.T) {
	root := t.TempDir()
	fp := NewFileProcessor().WithBase(root).WithExclude("legacy/**", "**/*_mock.go")

	tests := []struct {
		path string
		want bool
	}{
		{filepath.Join(root, "legacy", "old.go"), true},
		{filepath.Join(root, "api", "client_mock.go"), true},
		{filepath.Join(root, "api", "client.go"), false},
	}
	for _, tt := range tests {
		t.Run(filepath.Base(tt.path), func(t *testing.T) {
			assert.Equal(t, tt.want, fp.Excluded(tt.path))
		})
	}

	assert.False(t, NewFileProcessor().Excluded(filepath.Join(root, "legacy", "old.go")))
}
