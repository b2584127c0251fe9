package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// taskIDRegex matches the task identifiers depview accepts: a leading
// alphanumeric followed by alphanumerics, dots, underscores or hyphens.
var taskIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateTaskID validates a task identifier for safety and correctness.
// IDs flow into cache keys, file names and API routes, so the rules are
// intentionally conservative:
//   - No empty IDs
//   - No control characters
//   - Maximum length of 256 characters
//   - Alphanumerics plus dot, underscore and hyphen only
func ValidateTaskID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidTask, "task ID cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidTask, "task ID too long (max 256 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidTask, "task ID contains control characters")
		}
	}

	if !taskIDRegex.MatchString(id) {
		return New(ErrCodeInvalidTask, "invalid task ID: %q", id)
	}

	return nil
}

// ValidateProjectName validates a project name.
// Names appear in cache namespaces and log lines; path-like names are
// rejected outright.
func ValidateProjectName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidProject, "project name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidProject, "project name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidProject, "project name contains control characters")
		}
	}

	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidProject, "project name cannot contain path separators")
	}

	return nil
}

// ValidatePath validates a file path for safety.
// It prevents path traversal and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	return nil
}

// validFormats are the artifact formats the renderers can produce.
var validFormats = map[string]bool{
	"svg": true,
	"png": true,
	"pdf": true,
	"dot": true,
}

// ValidateFormat validates an output format name.
func ValidateFormat(format string) error {
	if format == "" {
		return New(ErrCodeInvalidFormat, "format cannot be empty")
	}
	if !validFormats[format] {
		return New(ErrCodeInvalidFormat, "unsupported format %q (expected svg, png, pdf or dot)", format)
	}
	return nil
}
