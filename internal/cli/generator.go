package cli

import (
	stderrors "errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/toyz/restgen/internal/emitter"
	"github.com/toyz/restgen/internal/errors"
	"github.com/toyz/restgen/internal/generator"
	"github.com/toyz/restgen/internal/models"
	"github.com/toyz/restgen/internal/parser"
	"github.com/toyz/restgen/internal/utils"
)

// ErrInvalidClients is returned when at least one client was left out of
// generation because of validation diagnostics
var ErrInvalidClients = stderrors.New("one or more clients are invalid")

// GenerationSummary contains information about one generation run
type GenerationSummary struct {
	PackagesProcessed int
	ClientsGenerated  int
	ClientsInvalid    int
	Decorators        int
	GeneratedFiles    []string // files written in this run
	UnchangedFiles    []string // files whose content was already current
	Duration          time.Duration
}

// Stats returns the summary as diagnostic statistics
func (s GenerationSummary) Stats() map[string]interface{} {
	return map[string]interface{}{
		"Packages processed": s.PackagesProcessed,
		"Clients generated":  s.ClientsGenerated,
		"Clients invalid":    s.ClientsInvalid,
		"Decorator types":    s.Decorators,
		"Files written":      len(s.GeneratedFiles),
		"Files unchanged":    len(s.UnchangedFiles),
	}
}

// Generator orchestrates loading declarations, generating clients and
// writing the results
type Generator struct {
	config      *Config
	reader      *utils.FileReader
	processor   *utils.FileProcessor
	modules     *ModuleResolver
	codegen     generator.CodeGenerator
	reporter    *DiagnosticReporter
	diagnostics *utils.DiagnosticSystem
}

// NewGenerator creates a generator for the configuration
func NewGenerator(cfg *Config, diagnostics *utils.DiagnosticSystem, reporter *DiagnosticReporter) *Generator {
	reader := utils.NewFileReader()
	return &Generator{
		config:      cfg,
		reader:      reader,
		processor:   utils.NewFileProcessorWithReader(reader).WithBase(cfg.Dir).WithExclude(cfg.Exclude...),
		modules:     NewModuleResolver(reader),
		codegen:     generator.NewGenerator(generator.WithFileName(cfg.Output)),
		reporter:    reporter,
		diagnostics: diagnostics,
	}
}

// Processor returns the file processor bound to the configured directory and
// exclusions. watch and clean walk the tree through it.
func (g *Generator) Processor() *utils.FileProcessor {
	return g.processor
}

// Load reads the clients of the package patterns and of the configured
// declaration files. Clients read before an error are still returned.
func (g *Generator) Load(patterns []string) ([]*models.ClientDeclaration, error) {
	if len(patterns) == 0 {
		patterns = g.config.Packages
	}
	errs := errors.NewMultipleErrors()
	var clients []*models.ClientDeclaration

	if len(patterns) > 0 {
		g.diagnostics.Verbose("Loading packages %v", patterns)
		src := parser.NewGoSource(g.config.Dir, g.config.Tags...)
		src.Exclude = g.processor.Excluded
		loaded, err := src.Load(patterns...)
		errs.Merge(err)
		clients = append(clients, loaded...)
	}

	if len(g.config.Declarations) > 0 {
		globs := make([]string, len(g.config.Declarations))
		for i, glob := range g.config.Declarations {
			globs[i] = g.config.Resolve(glob)
		}
		g.diagnostics.Verbose("Loading declaration files %v", globs)
		loaded, err := parser.NewYAMLSource(g.reader).Load(globs...)
		errs.Merge(err)
		clients = append(clients, loaded...)
	}

	return clients, errs.ErrorOrNil()
}

// Run generates the clients of the package patterns. With write unset
// nothing is written and the generated method bodies are described in
// verbose mode. The returned error is ErrInvalidClients when some clients
// were skipped, or the load or write failure.
func (g *Generator) Run(patterns []string, write bool) (GenerationSummary, error) {
	start := time.Now()
	var summary GenerationSummary

	g.diagnostics.PhaseHeader("Loading declarations")
	clients, loadErr := g.Load(patterns)
	if loadErr != nil {
		g.reporter.ReportError(loadErr)
		if len(clients) == 0 {
			return summary, loadErr
		}
	}
	g.diagnostics.PhaseItem(fmt.Sprintf("Found %d clients", len(clients)))

	g.diagnostics.PhaseHeader("Generating")
	results, genErr := g.codegen.Generate(clients)
	if genErr != nil {
		g.reporter.ReportError(genErr)
	}

	var writeErr error
	for _, result := range results {
		summary.PackagesProcessed++
		for _, report := range result.Reports {
			if report.Valid() {
				summary.ClientsGenerated++
				g.diagnostics.PhaseItem(fmt.Sprintf("%s.%s", result.Package.PackageName, report.Client.Name))
				continue
			}
			summary.ClientsInvalid++
			g.reporter.ReportInvalid(report)
		}

		if g.diagnostics.Enabled(utils.DiagnosticVerbose) && !write {
			for _, body := range result.Bodies {
				g.diagnostics.Verbose("%s:\n%s", body.Method.Name, emitter.Describe(body))
			}
			for _, body := range result.Diagnosed {
				g.diagnostics.Verbose("%s (not generated):\n%s", body.Method.Name, emitter.Describe(body))
			}
		}

		if result.File == nil {
			continue
		}
		summary.Decorators += len(result.File.Decorators)
		if !write {
			continue
		}
		if err := g.writeFile(result.File, &summary); err != nil && writeErr == nil {
			writeErr = err
		}
	}
	summary.Duration = time.Since(start)

	switch {
	case writeErr != nil:
		return summary, writeErr
	case genErr != nil:
		return summary, genErr
	case loadErr != nil:
		return summary, loadErr
	case summary.ClientsInvalid > 0:
		return summary, ErrInvalidClients
	}
	return summary, nil
}

// writeFile writes a generated file unless its content is already current
func (g *Generator) writeFile(file *models.GeneratedFile, summary *GenerationSummary) error {
	dir := filepath.Dir(file.FilePath)
	if warning := g.modules.RuntimeWarning(dir); warning != "" {
		g.reporter.ReportWarning(warning)
	} else if module, err := g.modules.ModuleName(dir); err == nil {
		g.diagnostics.Debug("%s is in module %s", dir, module)
	}

	changed, err := utils.WriteGoFile(file.FilePath, file.Content)
	if err != nil {
		wrapped := errors.WrapFileSystemError("write", file.FilePath, err)
		g.reporter.ReportError(wrapped)
		return wrapped
	}
	g.reader.InvalidateFile(file.FilePath)

	if changed {
		g.diagnostics.PhaseProgress("Writing " + file.FilePath)
		summary.GeneratedFiles = append(summary.GeneratedFiles, file.FilePath)
	} else {
		g.diagnostics.Verbose("Unchanged %s", file.FilePath)
		summary.UnchangedFiles = append(summary.UnchangedFiles, file.FilePath)
	}
	return nil
}
