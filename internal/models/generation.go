package models

// GeneratedFile represents the generated client file of one package
type GeneratedFile struct {
	PackageName string   // name of the package
	FilePath    string   // path where the file should be written
	Content     []byte   // generated Go code content
	Clients     []string // clients implemented in the file
	Decorators  []string // decorator types declared in the file
}
