package utils

import (
	"bytes"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
)

// FormatGoCode formats Go source code using the same logic as gofmt
func FormatGoCode(source []byte) ([]byte, error) {
	return format.Source(source)
}

// WriteGoFile formats source and writes it to filename. The file is left
// untouched when its content already matches, so repeated runs do not bump
// modification times. It reports whether the file was written.
func WriteGoFile(filename string, source []byte) (bool, error) {
	formatted, err := FormatGoCode(source)
	if err != nil {
		return false, fmt.Errorf("invalid Go source for %s: %w", filepath.Base(filename), err)
	}

	if existing, err := os.ReadFile(filename); err == nil && bytes.Equal(existing, formatted) {
		return false, nil
	}

	if err := os.WriteFile(filename, formatted, 0o644); err != nil {
		return false, err
	}
	return true, nil
}
