package errors

import (
	"strings"
	"unicode"
)

// validFormats is the set of output formats any rendering backend may produce.
var validFormats = map[string]bool{
	"svg": true,
	"png": true,
	"pdf": true,
}

// ValidateOutputFormat validates a rendering output format.
// Individual backends may support a subset of these; backend-specific
// restrictions are enforced by the backends themselves.
func ValidateOutputFormat(format string) error {
	if format == "" {
		return New(ErrCodeInvalidFormat, "output format cannot be empty")
	}
	if !validFormats[format] {
		return New(ErrCodeInvalidFormat, "invalid output format: %s (must be 'svg', 'png', or 'pdf')", format)
	}
	return nil
}

// ValidateDiagramPath validates a diagram source file path for safety.
//
// The validation rules are intentionally conservative:
//   - No empty paths
//   - No control characters or null bytes
//   - Maximum length of 500 characters
//
// Existence is checked separately so a missing file can be reported as
// FILE_NOT_FOUND rather than INVALID_PATH.
func ValidateDiagramPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || (unicode.IsControl(r) && r != '\t') {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateToolName validates an external renderer command name.
// It rejects names with path separators or shell metacharacters so a
// configured command is always resolved through PATH lookup rules, never
// interpreted by a shell.
func ValidateToolName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "tool name cannot be empty")
	}

	if strings.ContainsAny(name, " \t;|&$<>`\"'") {
		return New(ErrCodeInvalidInput, "tool name contains shell metacharacters: %q", name)
	}

	return nil
}
