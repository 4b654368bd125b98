package generator

import "github.com/toyz/restgen/internal/models"

// CodeGenerator turns client declarations into one generated file per package
type CodeGenerator interface {
	Generate(clients []*models.ClientDeclaration) ([]*Result, error)
	GeneratePackage(pkg *models.PackageDeclarations) (*Result, error)
}
