package parser

import "github.com/toyz/restgen/internal/models"

const (
	// RuntimeAlias is the import alias of the runtime package in declaration files
	RuntimeAlias = "rest"

	// ContextAlias is the import alias of the context package in declaration files
	ContextAlias = "context"

	// argPrefix names unnamed method parameters: arg0, arg1, ...
	argPrefix = "arg"
)

// runtimeInterfaces are the runtime types declared as interfaces, with the
// runtime interface each one embeds
var runtimeInterfaces = map[string]string{
	"Collection":     "",
	"List":           "Collection",
	"Set":            "Collection",
	"Map":            "",
	"Authentication": "",
}

// runtimeInterface builds a runtime interface the way the Go source sees it
func runtimeInterface(name string, args ...*models.TypeRef) *models.TypeRef {
	ref := models.RuntimeInterface(name, args...)
	ref.HasOwnMethods = true
	if embed := runtimeInterfaces[name]; embed != "" {
		ref.Supertypes = []*models.TypeRef{runtimeInterface(embed, args...)}
	}
	return ref
}

// defaultImports are available to every declaration file
func defaultImports() map[string]string {
	return map[string]string{
		RuntimeAlias: models.RuntimePackage,
		ContextAlias: "context",
	}
}
