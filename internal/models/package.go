package models

// PackageDeclarations groups the clients declared in one Go package. Clients
// of a package share one generated file and one set of decorators.
type PackageDeclarations struct {
	PackageName string               // name of the Go package
	PackagePath string               // import path of the package
	Dir         string               // directory the generated file is written to
	Clients     []*ClientDeclaration // clients in declaration order
}

// GroupByPackage groups clients by package, keeping the order in which
// packages and clients first appear
func GroupByPackage(clients []*ClientDeclaration) []*PackageDeclarations {
	var out []*PackageDeclarations
	index := make(map[string]*PackageDeclarations)
	for _, c := range clients {
		key := c.PackagePath
		if key == "" {
			key = c.Dir
		}
		pkg, ok := index[key]
		if !ok {
			pkg = &PackageDeclarations{
				PackageName: c.PackageName,
				PackagePath: c.PackagePath,
				Dir:         c.Dir,
			}
			index[key] = pkg
			out = append(out, pkg)
		}
		pkg.Clients = append(pkg.Clients, c)
	}
	return out
}
