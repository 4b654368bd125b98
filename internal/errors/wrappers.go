package errors

import "fmt"

// WrapFileSystemError wraps a file system failure
func WrapFileSystemError(operation, path string, cause error) *BaseError {
	return Wrapf(FileSystemErrorCode, cause, "failed to %s %s", operation, path).
		WithContext("operation", operation).
		WithContext("path", path)
}

// WrapConfigurationError wraps a configuration loading failure
func WrapConfigurationError(source string, cause error) *BaseError {
	return Wrapf(ConfigurationErrorCode, cause, "invalid configuration in %s", source).
		WithContext("source", source)
}

// WrapDeclarationSourceError wraps a failure reading client declarations
func WrapDeclarationSourceError(source string, cause error) *BaseError {
	return Wrapf(DeclarationSourceErrorCode, cause, "failed to load declarations from %s", source).
		WithContext("source", source)
}

// WrapParseError wraps an annotation parse failure
func WrapParseError(annotation string, cause error) *SyntaxError {
	err := &SyntaxError{
		BaseError: Wrap(SyntaxErrorCode, fmt.Sprintf("failed to parse annotation %q: %v", annotation, cause), cause),
	}
	err.WithContext("annotation", annotation)
	return err
}
