package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileReader reads files through a cache that is invalidated when a file's
// modification time or size changes
type FileReader struct {
	contentCache *Cache[string, []byte]
}

// NewFileReader creates a new FileReader instance with caching
func NewFileReader() *FileReader {
	return &FileReader{
		contentCache: NewCache[string, []byte](),
	}
}

// ReadFile reads a file and returns its contents. The returned slice is
// shared with the cache and must not be modified.
func (fr *FileReader) ReadFile(filePath string) ([]byte, error) {
	cleanPath, err := fr.validateAndCleanPath(filePath)
	if err != nil {
		return nil, err
	}

	if cached, ok := fr.contentCache.GetWithFileValidation(cleanPath, cleanPath); ok {
		return cached, nil
	}

	content, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filepath.Base(cleanPath), err)
	}

	// a file removed between read and stat is simply not cached
	_ = fr.contentCache.SetWithFileInfo(cleanPath, content, cleanPath)
	return content, nil
}

// ClearCache clears all cached files
func (fr *FileReader) ClearCache() {
	fr.contentCache.Clear()
}

// InvalidateFile removes a specific file from the cache
func (fr *FileReader) InvalidateFile(filePath string) {
	if filePath == "" {
		return
	}
	fr.contentCache.Delete(filepath.Clean(filePath))
}

// CachedFiles returns the number of cached files
func (fr *FileReader) CachedFiles() int {
	return fr.contentCache.Size()
}

// validateAndCleanPath validates and cleans a file path
func (fr *FileReader) validateAndCleanPath(filePath string) (string, error) {
	if err := NotEmpty("filePath")(filePath); err != nil {
		return "", fmt.Errorf("file path %w", err)
	}

	cleanPath := filepath.Clean(filePath)
	if _, err := os.Stat(cleanPath); os.IsNotExist(err) {
		return "", fmt.Errorf("file does not exist: %s: %w", cleanPath, err)
	}
	return cleanPath, nil
}
