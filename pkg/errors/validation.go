package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateLayoutName validates a layout name for safety and correctness.
// Layout names end up in blob store keys and file names, so the rules reject
// anything that could be used for path traversal or key injection.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path traversal sequences (.., //, etc.)
//   - No key separators (:)
//   - Maximum length of 128 characters
func ValidateLayoutName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidLayout, "layout name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidLayout, "layout name too long (max 128 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidLayout, "layout name contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\\",   // Backslash (Windows path)
		":",    // Store key separator
		"\x00", // Null byte
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidLayout, "layout name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// orgUnitRegex matches organisation unit slugs such as "acme" or "dc-north_2".
var orgUnitRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]{0,63}$`)

// ValidateOrgUnit validates the organisation unit a layout belongs to.
func ValidateOrgUnit(org string) error {
	if org == "" {
		return New(ErrCodeInvalidInput, "organisation unit cannot be empty")
	}
	if !orgUnitRegex.MatchString(org) {
		return New(ErrCodeInvalidInput, "invalid organisation unit: %q", org)
	}
	return nil
}

// ValidatePath validates a relative file path for safety.
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
