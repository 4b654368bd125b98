package cli

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/restgen/internal/errors"
	"github.com/toyz/restgen/internal/models"
	"github.com/toyz/restgen/internal/validator"
)

func newTestReporter(verbose bool) (*DiagnosticReporter, *bytes.Buffer) {
	var buf bytes.Buffer
	r := NewDiagnosticReporter(verbose)
	r.SetOutput(&buf)
	return r, &buf
}

func TestDiagnosticReporter_ReportInvalid(t *testing.T) {
	loc := errors.SourceLocation{File: "client.go", Line: 12, Column: 2}
	report := &validator.Report{
		Client: &models.ClientDeclaration{Name: "BookClient"},
		Diagnostics: []errors.Diagnostic{
			errors.NewShapeError(errors.MissingVerbCode, "BookClient", "Count", "method has no HTTP verb", loc),
			errors.NewUnresolvedURLVariable("Search", "term", loc),
		},
	}

	r, buf := newTestReporter(false)
	r.ReportInvalid(report)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.NotEmpty(t, lines)
	assert.Equal(t, "✗ BookClient (2 problems)", lines[0])
	assert.Contains(t, buf.String(), "[MissingVerb]")
	assert.Contains(t, buf.String(), "[UnresolvedUrlVariable]")
	assert.Contains(t, buf.String(), "client.go:12")

	t.Run("valid reports print nothing", func(t *testing.T) {
		r, buf := newTestReporter(false)
		r.ReportInvalid(&validator.Report{Client: &models.ClientDeclaration{Name: "Fine"}})
		assert.Empty(t, buf.String())
	})

	t.Run("single problem", func(t *testing.T) {
		r, buf := newTestReporter(false)
		r.ReportInvalid(&validator.Report{
			Client:      &models.ClientDeclaration{Name: "C"},
			Diagnostics: report.Diagnostics[:1],
		})
		assert.True(t, strings.HasPrefix(buf.String(), "✗ C (1 problem)\n"))
	})
}

func TestDiagnosticReporter_ReportError(t *testing.T) {
	cause := fmt.Errorf("permission denied")
	diag := errors.WrapFileSystemError("write", "api/restgen_client.go", cause).
		WithSuggestion("check the permissions of api")

	tests := []struct {
		name     string
		err      error
		verbose  bool
		contains []string
		absent   []string
	}{
		{
			name:     "plain error",
			err:      fmt.Errorf("boom"),
			contains: []string{"✗ boom"},
		},
		{
			name:     "diagnostic",
			err:      diag,
			contains: []string{"failed to write api/restgen_client.go", "[FileSystemError]", "hint: check the permissions of api"},
			absent:   []string{"context:", "cause:"},
		},
		{
			name:     "verbose diagnostic",
			err:      diag,
			verbose:  true,
			contains: []string{"context:", "Operation: write", "Path: api/restgen_client.go", "cause:", "1. permission denied"},
		},
		{
			name: "multiple errors",
			err: &errors.MultipleErrors{Errors: []errors.Diagnostic{
				errors.New(errors.SyntaxErrorCode, "bad annotation"),
				errors.New(errors.DeclarationSourceErrorCode, "bad file"),
			}},
			contains: []string{"- bad annotation [SyntaxError]", "- bad file [DeclarationSourceError]"},
		},
		{
			name:     "wrapped diagnostic",
			err:      fmt.Errorf("load: %w", errors.New(errors.ConfigurationErrorCode, "bad config")),
			contains: []string{"- bad config [ConfigurationError]"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, buf := newTestReporter(tt.verbose)
			r.ReportError(tt.err)
			for _, s := range tt.contains {
				assert.Contains(t, buf.String(), s)
			}
			for _, s := range tt.absent {
				assert.NotContains(t, buf.String(), s)
			}
		})
	}
}

func TestDiagnosticReporter_ReportWarning(t *testing.T) {
	r, buf := newTestReporter(false)
	r.ReportWarning("go.mod does not require github.com/toyz/restgen")
	assert.Equal(t, "! go.mod does not require github.com/toyz/restgen\n", buf.String())

	r.ReportError(nil)
	assert.Equal(t, "! go.mod does not require github.com/toyz/restgen\n", buf.String())
}

func TestFormatContextKey(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"path", "Path"},
		{"source_file", "Source File"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, formatContextKey(tt.key))
		})
	}
}
