package errors

import (
	"strings"
	"unicode"
)

// maxNameLength bounds resource names and output identifiers.
const maxNameLength = 255

// ValidateResourceName validates a font or image name before it is resolved
// against a resource directory. Names must stay inside the directory they are
// looked up in.
//
// Validation rules:
//   - No empty names
//   - No control characters or null bytes
//   - No path traversal sequences (..)
//   - No absolute paths or backslashes
func ValidateResourceName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "resource name cannot be empty")
	}
	if len(name) > maxNameLength {
		return New(ErrCodeInvalidName, "resource name too long (max %d characters)", maxNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "resource name contains invalid control characters")
		}
	}

	if strings.HasPrefix(name, "/") {
		return New(ErrCodeInvalidName, "resource name must be relative: %q", name)
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"//",   // Double slash
		"\\",   // Backslash (Windows path)
	}
	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidName, "resource name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateOutputID validates a card output identifier.
// The identifier becomes a file name, so it must be a plain base name.
func ValidateOutputID(id string) error {
	if strings.TrimSpace(id) == "" {
		return New(ErrCodeInvalidName, "output identifier cannot be empty")
	}
	if len(id) > maxNameLength {
		return New(ErrCodeInvalidName, "output identifier too long (max %d characters)", maxNameLength)
	}
	if strings.ContainsAny(id, "/\\") {
		return New(ErrCodeInvalidName, "output identifier cannot contain path separators: %q", id)
	}
	if id == "." || id == ".." || strings.HasPrefix(id, ".") {
		return New(ErrCodeInvalidName, "output identifier cannot be a hidden file: %q", id)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "output identifier contains invalid control characters")
		}
	}
	return nil
}
