package errors

import (
	"strings"
	"unicode"
)

// maxNameLength bounds sprite names stored in layouts and records.
const maxNameLength = 256

// ValidateSpriteName validates a sprite name for safety and correctness.
// Names end up as keys in JSON manifests, so the rules are conservative:
//   - No empty names
//   - No control characters or null bytes
//   - No parent directory components
//   - Maximum length of 256 characters
func ValidateSpriteName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "sprite name cannot be empty")
	}

	if len(name) > maxNameLength {
		return New(ErrCodeInvalidInput, "sprite name too long (max %d characters)", maxNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "sprite name contains invalid control characters")
		}
	}

	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return New(ErrCodeInvalidInput, "sprite name cannot contain %q components", "..")
		}
	}

	return nil
}

// ValidateOutputPath validates an output base path given on the command line
// or in a config file.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - Must not end in a path separator
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
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

	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, "\\") {
		return New(ErrCodeInvalidPath, "output path must name a file, not a directory")
	}

	return nil
}
