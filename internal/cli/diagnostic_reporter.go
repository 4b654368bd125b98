package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/toyz/restgen/internal/errors"
	"github.com/toyz/restgen/internal/validator"
)

// DiagnosticReporter prints validation reports and tool errors with their
// locations, context and suggestions
type DiagnosticReporter struct {
	out     io.Writer
	verbose bool
	colors  bool
}

// NewDiagnosticReporter creates a reporter writing to stderr
func NewDiagnosticReporter(verbose bool) *DiagnosticReporter {
	return &DiagnosticReporter{
		out:     os.Stderr,
		verbose: verbose,
		colors:  !color.NoColor,
	}
}

// SetOutput redirects the reporter, disabling colors
func (r *DiagnosticReporter) SetOutput(out io.Writer) {
	r.out = out
	r.colors = false
}

func (r *DiagnosticReporter) paint(c *color.Color, s string) string {
	if !r.colors {
		return s
	}
	return c.Sprint(s)
}

// ReportWarning prints a single warning line
func (r *DiagnosticReporter) ReportWarning(message string) {
	fmt.Fprintf(r.out, "%s %s\n", r.paint(color.New(color.FgYellow, color.Bold), "!"), message)
}

// ReportInvalid prints every diagnostic of a client left out of generation
func (r *DiagnosticReporter) ReportInvalid(report *validator.Report) {
	if report.Valid() {
		return
	}
	client := report.Client
	header := fmt.Sprintf("%s (%d problems)", client.Name, len(report.Diagnostics))
	if len(report.Diagnostics) == 1 {
		header = fmt.Sprintf("%s (1 problem)", client.Name)
	}
	fmt.Fprintf(r.out, "%s %s\n", r.paint(color.New(color.FgRed, color.Bold), "✗"), header)
	for _, d := range report.Diagnostics {
		r.reportDiagnostic(d, "  ")
	}
}

// ReportError prints a tool error. Collections are expanded so every
// diagnostic they carry is shown with its own details.
func (r *DiagnosticReporter) ReportError(err error) {
	if err == nil {
		return
	}

	var multi *errors.MultipleErrors
	if stderrors.As(err, &multi) {
		for _, d := range multi.Errors {
			r.reportDiagnostic(d, "")
		}
		return
	}

	var diag errors.Diagnostic
	if stderrors.As(err, &diag) {
		r.reportDiagnostic(diag, "")
		return
	}

	fmt.Fprintf(r.out, "%s %s\n", r.paint(color.New(color.FgRed, color.Bold), "✗"), err.Error())
}

// reportDiagnostic prints one diagnostic with its code, suggestions and, in
// verbose mode, its context and cause chain
func (r *DiagnosticReporter) reportDiagnostic(d errors.Diagnostic, indent string) {
	code := r.paint(color.New(color.FgRed), "["+d.ErrorCode().String()+"]")
	fmt.Fprintf(r.out, "%s- %s %s\n", indent, d.Error(), code)

	if suggestions := d.Suggestions(); len(suggestions) > 0 {
		r.printSuggestions(indent+"    ", suggestions)
	}

	if !r.verbose {
		return
	}
	if ctx := d.Context(); len(ctx) > 0 {
		r.printContext(indent+"    ", ctx)
	}
	if cause := d.Unwrap(); cause != nil {
		fmt.Fprintf(r.out, "%s    cause:\n", indent)
		level := 1
		for err := cause; err != nil; err = stderrors.Unwrap(err) {
			fmt.Fprintf(r.out, "%s      %d. %s\n", indent, level, err.Error())
			level++
		}
	}
}

// printSuggestions prints actionable suggestions
func (r *DiagnosticReporter) printSuggestions(indent string, suggestions []string) {
	for _, suggestion := range suggestions {
		lines := strings.Split(suggestion, "\n")
		fmt.Fprintf(r.out, "%s%s %s\n", indent, r.paint(color.New(color.FgCyan), "hint:"), lines[0])
		for _, line := range lines[1:] {
			if strings.TrimSpace(line) != "" {
				fmt.Fprintf(r.out, "%s      %s\n", indent, line)
			}
		}
	}
}

// printContext prints context information sorted by key
func (r *DiagnosticReporter) printContext(indent string, context map[string]interface{}) {
	keys := make([]string, 0, len(context))
	for key := range context {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	fmt.Fprintf(r.out, "%scontext:\n", indent)
	for _, key := range keys {
		fmt.Fprintf(r.out, "%s  %s: %v\n", indent, formatContextKey(key), context[key])
	}
}

// formatContextKey converts snake_case keys to Title Case
func formatContextKey(key string) string {
	parts := strings.Split(key, "_")
	for i, part := range parts {
		if len(part) > 0 {
			parts[i] = strings.ToUpper(part[:1]) + part[1:]
		}
	}
	return strings.Join(parts, " ")
}
