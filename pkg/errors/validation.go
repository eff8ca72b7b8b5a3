package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// maxNameLength bounds diagram names accepted by stores and the HTTP API.
const maxNameLength = 128

var nameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateName validates a diagram name for safety and correctness.
// Names double as file names in the file store, so anything that could
// escape the store directory is rejected:
//   - No empty names
//   - No control characters or null bytes
//   - No path separators or traversal sequences
//   - Maximum length of 128 characters
func ValidateName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "diagram name cannot be empty")
	}

	if len(name) > maxNameLength {
		return New(ErrCodeInvalidName, "diagram name too long (max %d characters)", maxNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "diagram name contains invalid control characters")
		}
	}

	for _, pattern := range []string{"..", "/", "\\"} {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidName, "diagram name contains invalid characters: %q", pattern)
		}
	}

	if !nameRegex.MatchString(name) {
		return New(ErrCodeInvalidName, "invalid diagram name: %q", name)
	}

	return nil
}

// ValidateFormat checks that format is one of the allowed values.
func ValidateFormat(format string, allowed []string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "unsupported format %q (want one of %s)", format, strings.Join(allowed, ", "))
}
