package utils

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
)

// GoModParser provides utilities for parsing go.mod files
type GoModParser struct {
	fileReader *FileReader
}

// NewGoModParser creates a new go.mod parser with caching
func NewGoModParser(fileReader *FileReader) *GoModParser {
	if fileReader == nil {
		fileReader = NewFileReader()
	}
	return &GoModParser{
		fileReader: fileReader,
	}
}

// parse reads and parses a go.mod file
func (p *GoModParser) parse(goModPath string) (*modfile.File, error) {
	cleanPath := filepath.Clean(goModPath)
	if err := HasSuffix("goModPath", "go.mod")(cleanPath); err != nil {
		return nil, fmt.Errorf("file is not a go.mod file: %s", goModPath)
	}

	content, err := p.fileReader.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read go.mod file: %w", err)
	}

	modFile, err := modfile.Parse(cleanPath, content, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to parse go.mod file: %w", err)
	}
	return modFile, nil
}

// ParseModuleName extracts the module name from a go.mod file
func (p *GoModParser) ParseModuleName(goModPath string) (string, error) {
	modFile, err := p.parse(goModPath)
	if err != nil {
		return "", err
	}
	if modFile.Module == nil {
		return "", fmt.Errorf("no module declaration found in go.mod")
	}
	return modFile.Module.Mod.Path, nil
}

// RequiresModule reports whether the go.mod file is the module itself, a
// module nested under it, or requires it
func (p *GoModParser) RequiresModule(goModPath, module string) (bool, error) {
	modFile, err := p.parse(goModPath)
	if err != nil {
		return false, err
	}
	if modFile.Module != nil {
		self := modFile.Module.Mod.Path
		if self == module || strings.HasPrefix(module, self+"/") {
			return true, nil
		}
	}
	for _, req := range modFile.Require {
		if req.Mod.Path == module || strings.HasPrefix(module, req.Mod.Path+"/") {
			return true, nil
		}
	}
	return false, nil
}

// FindGoModFile searches for go.mod file starting from the given directory and walking up
func (p *GoModParser) FindGoModFile(startDir string) (string, error) {
	currentDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", startDir, err)
	}

	for {
		goModPath := filepath.Join(currentDir, "go.mod")
		if content, err := p.fileReader.ReadFile(goModPath); err == nil && len(content) > 0 {
			return goModPath, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return "", fmt.Errorf("go.mod file not found")
}
