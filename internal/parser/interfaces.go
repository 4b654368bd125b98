package parser

import (
	"github.com/toyz/restgen/internal/models"
)

// Source reads client declarations. Implementations never modify what they
// read and return clients in source order.
type Source interface {
	// Load reads the clients matched by the patterns. The meaning of a
	// pattern depends on the source: package patterns for Go sources, file
	// globs for declaration files.
	Load(patterns ...string) ([]*models.ClientDeclaration, error)
}

// FileReader reads file contents, typically through a cache
type FileReader interface {
	ReadFile(path string) ([]byte, error)
}
