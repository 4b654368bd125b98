package utils

import (
	"bufio"
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// GeneratedHeader opens every file restgen writes
const GeneratedHeader = "// Code generated by restgen. DO NOT EDIT."

// FileProcessor provides utilities for common file processing operations
type FileProcessor struct {
	fileReader *FileReader
	exclude    []string
	base       string
}

// NewFileProcessor creates a new file processor
func NewFileProcessor() *FileProcessor {
	return NewFileProcessorWithReader(NewFileReader())
}

// NewFileProcessorWithReader creates a file processor with an existing FileReader
func NewFileProcessorWithReader(reader *FileReader) *FileProcessor {
	return &FileProcessor{
		fileReader: reader,
	}
}

// WithExclude sets doublestar patterns for paths the processor skips
func (fp *FileProcessor) WithExclude(patterns ...string) *FileProcessor {
	fp.exclude = append(fp.exclude, patterns...)
	return fp
}

// WithBase sets the directory relative exclude patterns are matched from
func (fp *FileProcessor) WithBase(dir string) *FileProcessor {
	if abs, err := filepath.Abs(dir); err == nil {
		fp.base = abs
	}
	return fp
}

// FileFilter defines a function that determines whether a file should be processed
type FileFilter func(path string, info fs.DirEntry) bool

// DirectoryFilter defines a function that determines whether a directory should be processed
type DirectoryFilter func(path string, info fs.DirEntry) bool

// FileWalkOptions configures file walking behavior
type FileWalkOptions struct {
	FileFilter      FileFilter
	DirectoryFilter DirectoryFilter
	SkipErrors      bool
}

// GoFileFilter matches Go source files other than tests
func GoFileFilter() FileFilter {
	return func(path string, info fs.DirEntry) bool {
		name := info.Name()
		return !info.IsDir() && strings.HasSuffix(name, ".go") && !strings.HasSuffix(name, "_test.go")
	}
}

// DeclarationFileFilter matches YAML declaration files
func DeclarationFileFilter() FileFilter {
	return func(path string, info fs.DirEntry) bool {
		ext := filepath.Ext(info.Name())
		return !info.IsDir() && (ext == ".yaml" || ext == ".yml")
	}
}

// NamedFileFilter matches files with the given base name
func NamedFileFilter(name string) FileFilter {
	return func(path string, info fs.DirEntry) bool {
		return !info.IsDir() && info.Name() == name
	}
}

// DefaultDirectoryFilter skips common directories that shouldn't contain source code
func DefaultDirectoryFilter() DirectoryFilter {
	skipDirs := map[string]bool{
		"vendor":       true,
		"node_modules": true,
		"testdata":     true,
		"build":        true,
		"dist":         true,
	}

	return func(path string, info fs.DirEntry) bool {
		if !info.IsDir() {
			return true
		}
		name := info.Name()
		if strings.HasPrefix(name, ".") && name != "." && name != ".." {
			return false
		}
		if strings.HasPrefix(name, "_") {
			return false
		}
		return !skipDirs[name]
	}
}

// PatternRoot converts a package pattern such as ./api/... into the
// directory it walks
func PatternRoot(pattern string) string {
	root := strings.TrimSuffix(pattern, "...")
	root = strings.TrimSuffix(root, "/")
	if root == "" {
		return "."
	}
	return filepath.FromSlash(root)
}

// Excluded reports whether path matches one of the exclude patterns. The
// path is matched as given and, when it lies under the base directory,
// relative to it.
func (fp *FileProcessor) Excluded(path string) bool {
	if len(fp.exclude) == 0 {
		return false
	}
	candidates := []string{trimRoot(path)}
	if fp.base != "" {
		if abs, err := filepath.Abs(path); err == nil {
			if rel, err := filepath.Rel(fp.base, abs); err == nil && rel != "." && !strings.HasPrefix(rel, "..") {
				candidates = append(candidates, filepath.ToSlash(rel))
			}
		}
	}
	for _, pattern := range fp.exclude {
		for _, candidate := range candidates {
			if ok, _ := doublestar.Match(pattern, candidate); ok {
				return true
			}
		}
	}
	return false
}

// trimRoot converts path to slashes without a volume or leading slash
func trimRoot(path string) string {
	clean := filepath.Clean(path)
	clean = clean[len(filepath.VolumeName(clean)):]
	return strings.TrimPrefix(filepath.ToSlash(clean), "/")
}

// WalkFiles walks through files in a directory tree with filtering
func (fp *FileProcessor) WalkFiles(rootDir string, options FileWalkOptions) ([]string, error) {
	var matchedFiles []string

	err := filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if options.SkipErrors {
				return nil
			}
			return err
		}

		if d.IsDir() {
			if path == rootDir {
				return nil
			}
			if fp.Excluded(path) || (options.DirectoryFilter != nil && !options.DirectoryFilter(path, d)) {
				return filepath.SkipDir
			}
			return nil
		}

		if fp.Excluded(path) {
			return nil
		}
		if options.FileFilter == nil || options.FileFilter(path, d) {
			matchedFiles = append(matchedFiles, path)
		}
		return nil
	})

	return matchedFiles, err
}

// WatchDirectories returns every directory under the roots that the default
// directory filter keeps. Directories are returned once, in walk order.
func (fp *FileProcessor) WatchDirectories(roots []string) ([]string, error) {
	var dirs []string
	seen := make(map[string]bool)
	filter := DefaultDirectoryFilter()

	for _, root := range roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}
			if path != root && (fp.Excluded(path) || !filter(path, d)) {
				return filepath.SkipDir
			}
			abs, err := filepath.Abs(path)
			if err != nil {
				return err
			}
			if !seen[abs] {
				seen[abs] = true
				dirs = append(dirs, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", root, err)
		}
	}
	return dirs, nil
}

// FindGeneratedFiles returns the files named fileName under the roots that
// carry the restgen header. Files of the same name written by hand are
// never returned.
func (fp *FileProcessor) FindGeneratedFiles(roots []string, fileName string) ([]string, error) {
	var generated []string
	for _, root := range roots {
		files, err := fp.WalkFiles(root, FileWalkOptions{
			FileFilter:      NamedFileFilter(fileName),
			DirectoryFilter: DefaultDirectoryFilter(),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", root, err)
		}
		for _, file := range files {
			ok, err := fp.IsGeneratedFile(file)
			if err != nil {
				return nil, err
			}
			if ok {
				generated = append(generated, file)
			}
		}
	}
	return generated, nil
}

// IsGeneratedFile reports whether the file starts with the restgen header
func (fp *FileProcessor) IsGeneratedFile(path string) (bool, error) {
	content, err := fp.fileReader.ReadFile(path)
	if err != nil {
		return false, err
	}
	line, _, err := bufio.NewReader(bytes.NewReader(content)).ReadLine()
	if err != nil {
		return false, nil
	}
	return strings.TrimSpace(string(line)) == GeneratedHeader, nil
}

// RemoveFiles deletes the files and returns the ones actually removed
func (fp *FileProcessor) RemoveFiles(files []string) ([]string, error) {
	var removed []string
	for _, file := range files {
		if err := os.Remove(file); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return removed, fmt.Errorf("failed to remove %s: %w", file, err)
		}
		fp.fileReader.InvalidateFile(file)
		removed = append(removed, file)
	}
	return removed, nil
}

// GetFileReader returns the underlying FileReader
func (fp *FileProcessor) GetFileReader() *FileReader {
	return fp.fileReader
}
