package cli

import (
	"path/filepath"
	"strings"

	"github.com/toyz/restgen/internal/errors"
	"github.com/toyz/restgen/internal/utils"
)

// Cleaner handles cleaning up generated files
type Cleaner struct {
	processor *utils.FileProcessor
	dir       string
	fileName  string
}

// NewCleaner creates a cleaner removing files named fileName. Patterns are
// resolved in dir.
func NewCleaner(processor *utils.FileProcessor, dir, fileName string) *Cleaner {
	return &Cleaner{
		processor: processor,
		dir:       dir,
		fileName:  fileName,
	}
}

// Clean removes the generated files in the directories of the package
// patterns. Patterns ending in "..." include subdirectories. Only files
// carrying the restgen header are removed.
func (c *Cleaner) Clean(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		root := utils.PatternRoot(pattern)
		if !filepath.IsAbs(root) {
			root = filepath.Join(c.dir, root)
		}

		found, err := c.processor.FindGeneratedFiles([]string{root}, c.fileName)
		if err != nil {
			return nil, errors.WrapFileSystemError("scan", root, err)
		}
		recursive := strings.HasSuffix(pattern, "...")
		for _, file := range found {
			if recursive || filepath.Dir(file) == filepath.Clean(root) {
				files = append(files, file)
			}
		}
	}

	removed, err := c.processor.RemoveFiles(files)
	if err != nil {
		return removed, errors.WrapFileSystemError("remove", c.fileName, err)
	}
	return removed, nil
}
