package errors

import (
	"strings"
	"unicode"
)

// ValidateRouteName validates a configured route name.
//
// Route names appear in persisted state and deep links, so the rules are
// conservative:
//   - No empty names
//   - No control characters
//   - Maximum length of 128 characters
//   - No leading or trailing whitespace
func ValidateRouteName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidRouteName, "route name cannot be empty")
	}

	const maxRouteNameLength = 128
	if len(name) > maxRouteNameLength {
		return New(ErrCodeInvalidRouteName, "route name too long (max %d characters)", maxRouteNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidRouteName, "route name %q contains control characters", name)
		}
	}

	if strings.TrimSpace(name) != name {
		return New(ErrCodeInvalidRouteName, "route name %q has surrounding whitespace", name)
	}

	return nil
}

// ValidateStoreKey validates a persistence key for safety.
// Keys end up in file names, Redis keys and Mongo document IDs, so path
// traversal and separators are rejected.
//
// Validation rules:
//   - Key cannot be empty
//   - Maximum length of 256 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
//   - No slashes or backslashes
func ValidateStoreKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidKey, "store key cannot be empty")
	}

	if len(key) > 256 {
		return New(ErrCodeInvalidKey, "store key too long (max 256 characters)")
	}

	for _, r := range key {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidKey, "store key contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\\",   // Backslash (Windows path)
		"\x00", // Null byte
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(key, pattern) {
			return New(ErrCodeInvalidKey, "store key contains invalid characters: %q", pattern)
		}
	}

	return nil
}
