package cli

import (
	"fmt"
	"path/filepath"

	"github.com/toyz/restgen/internal/models"
	"github.com/toyz/restgen/internal/utils"
)

// RuntimeModule is the module providing the package generated clients import
const RuntimeModule = "github.com/toyz/restgen"

// ModuleResolver handles resolving Go module information for output directories
type ModuleResolver struct {
	gomod   *utils.GoModParser
	checked map[string]bool
}

// NewModuleResolver creates a new module resolver sharing the file reader's cache
func NewModuleResolver(reader *utils.FileReader) *ModuleResolver {
	return &ModuleResolver{
		gomod:   utils.NewGoModParser(reader),
		checked: make(map[string]bool),
	}
}

// ModuleName returns the name of the module containing dir
func (r *ModuleResolver) ModuleName(dir string) (string, error) {
	goMod, err := r.gomod.FindGoModFile(dir)
	if err != nil {
		return "", fmt.Errorf("failed to determine module of %s: %w", dir, err)
	}
	return r.gomod.ParseModuleName(goMod)
}

// RuntimeWarning returns a warning when the module containing dir cannot
// import the runtime package. Each go.mod is checked once; an empty string
// means there is nothing to report.
func (r *ModuleResolver) RuntimeWarning(dir string) string {
	goMod, err := r.gomod.FindGoModFile(dir)
	if err != nil {
		return fmt.Sprintf("no go.mod found for %s; generated code imports %s", dir, models.RuntimePackage)
	}
	if r.checked[goMod] {
		return ""
	}
	r.checked[goMod] = true

	ok, err := r.gomod.RequiresModule(goMod, RuntimeModule)
	if err != nil {
		return fmt.Sprintf("could not inspect %s: %v", goMod, err)
	}
	if ok {
		return ""
	}
	return fmt.Sprintf("%s does not require %s; run 'go get %s' in %s",
		goMod, RuntimeModule, models.RuntimePackage, filepath.Dir(goMod))
}
