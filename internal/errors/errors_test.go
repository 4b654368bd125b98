package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseError_Error(t *testing.T) {
	loc := SourceLocation{File: "client.go", Line: 7, Column: 3}
	tests := []struct {
		name string
		err  *BaseError
		want string
	}{
		{"message only", New(MissingVerbCode, "method has no HTTP verb"), "method has no HTTP verb"},
		{"with element", New(MissingVerbCode, "method has no HTTP verb").WithElement("BookClient.Count"), "BookClient.Count: method has no HTTP verb"},
		{"with location", New(MissingVerbCode, "boom").WithLocation(loc), "client.go:7:3: boom"},
		{"line only", New(MissingVerbCode, "boom").WithLocation(SourceLocation{File: "c.yaml", Line: 4}), "c.yaml:4: boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestErrorCode_Categories(t *testing.T) {
	tests := []struct {
		code    ErrorCode
		name    string
		binding bool
		shape   bool
	}{
		{DuplicateBindingCode, "DuplicateBinding", true, false},
		{MixedFieldAndPartCode, "MixedFieldAndPartAnnotations", true, false},
		{BodyNotAllowedCode, "BodyNotAllowed", true, false},
		{PrimitiveReturnTypeCode, "PrimitiveReturnType", false, true},
		{MissingClientAnnotationCode, "MissingClientAnnotation", false, true},
		{ConfigurationErrorCode, "ConfigurationError", false, false},
		{ErrorCode(999), "UnknownError", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.code.String())
			assert.Equal(t, tt.binding, tt.code.IsBinding())
			assert.Equal(t, tt.shape, tt.code.IsShape())
		})
	}
}

func TestBindingErrors(t *testing.T) {
	loc := SourceLocation{File: "client.go", Line: 10}

	err := NewDuplicateBinding("GetBook", "other", "id", loc)
	assert.Equal(t, DuplicateBindingCode, err.ErrorCode())
	assert.Equal(t, "GetBook(other)", err.Element())
	assert.Equal(t, "id", err.Context()["name"])
	assert.NotEmpty(t, err.Suggestions())

	unresolved := NewUnresolvedURLVariable("GetBook", "id", loc)
	assert.Equal(t, "GetBook", unresolved.Element(), "url variables have no parameter")
	assert.Len(t, unresolved.Suggestions(), 2)

	var diag Diagnostic = unresolved
	assert.Equal(t, loc, diag.Location())
}

func TestMultipleErrors(t *testing.T) {
	errs := NewMultipleErrors()
	assert.True(t, errs.IsEmpty())
	require.NoError(t, errs.ErrorOrNil())

	var nilErrs *MultipleErrors
	require.NoError(t, nilErrs.ErrorOrNil())

	errs.Add(nil)
	errs.Add(New(SyntaxErrorCode, "bad annotation"))
	errs.Merge(nil)
	errs.Merge(fmt.Errorf("plain failure"))

	other := NewMultipleErrors()
	other.Add(NewShapeError(MissingVerbCode, "C", "Count", "method has no HTTP verb", SourceLocation{}))
	other.Add(New(SyntaxErrorCode, "another"))
	errs.Merge(other)

	assert.Equal(t, 4, errs.Count())
	assert.True(t, errs.HasCode(MissingVerbCode))
	assert.Len(t, errs.GetByCode(SyntaxErrorCode), 2)
	assert.Equal(t, UnknownErrorCode, errs.Errors[1].ErrorCode(), "plain errors are wrapped")

	err := errs.ErrorOrNil()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "multiple errors (4 total)")
	assert.Contains(t, err.Error(), "  4. another")

	var shape *ShapeError
	require.True(t, stderrors.As(err, &shape), "collected diagnostics are reachable with errors.As")
	assert.Equal(t, "Count", shape.Method)
}

func TestWrappers(t *testing.T) {
	cause := fmt.Errorf("permission denied")

	fsErr := WrapFileSystemError("write", "api/client.go", cause)
	assert.Equal(t, FileSystemErrorCode, fsErr.ErrorCode())
	assert.Equal(t, "failed to write api/client.go", fsErr.Error())
	assert.ErrorIs(t, fsErr, cause)
	assert.Equal(t, "api/client.go", fsErr.Context()["path"])

	cfgErr := WrapConfigurationError("restgen.yaml", cause)
	assert.Equal(t, ConfigurationErrorCode, cfgErr.ErrorCode())
	assert.Equal(t, "invalid configuration in restgen.yaml", cfgErr.Error())

	srcErr := WrapDeclarationSourceError("decl.yaml", cause)
	assert.Equal(t, DeclarationSourceErrorCode, srcErr.ErrorCode())
	assert.ErrorIs(t, srcErr, cause)

	parseErr := WrapParseError("//rest::get", cause)
	assert.Equal(t, SyntaxErrorCode, parseErr.ErrorCode())
	assert.Contains(t, parseErr.Error(), `"//rest::get"`)

	genErr := NewGenerationError("render", "api/restgen_client.go", cause)
	assert.Equal(t, "render failed for api/restgen_client.go: permission denied", genErr.Error())
	assert.ErrorIs(t, genErr, cause)
}
