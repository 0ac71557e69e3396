package utils

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Size limits (in bytes)
const (
	MaxContentSize = 32 * 1024 * 1024 // single content payload
	MaxBundleSize  = 64 * 1024 * 1024 // installed applet bundle
	MaxPathLength  = 1024
	MaxPathDepth   = 32
	MaxNameLength  = 255
	MaxTitleLength = 256
)

// Regular expressions for validation
var (
	// SafeIDPattern allows alphanumeric, hyphens, underscores
	SafeIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	// ThemePattern allows lowercase theme identifiers
	ThemePattern = regexp.MustCompile(`^[a-z0-9-]+$`)
)

// ValidateString checks length bounds (counted in runes) and rejects
// embedded null bytes. Optional fields pass when empty.
func ValidateString(value, fieldName string, minLen, maxLen int, required bool) error {
	if value == "" {
		if required {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}

	switch n := utf8.RuneCountInString(value); {
	case n < minLen:
		return fmt.Errorf("%s must be at least %d characters", fieldName, minLen)
	case n > maxLen:
		return fmt.Errorf("%s must not exceed %d characters", fieldName, maxLen)
	}

	if strings.Contains(value, "\x00") {
		return fmt.Errorf("%s contains invalid characters", fieldName)
	}
	return nil
}

// ValidateName validates a file or directory leaf name
func ValidateName(name string) error {
	if err := ValidateString(name, "name", 1, MaxNameLength, true); err != nil {
		return err
	}
	if strings.Contains(name, "/") {
		return fmt.Errorf("name must not contain '/'")
	}
	if name == "." || name == ".." {
		return fmt.Errorf("name %q is reserved", name)
	}
	return nil
}

// ValidatePath validates an absolute virtual path
func ValidatePath(path string) error {
	if err := ValidateString(path, "path", 1, MaxPathLength, true); err != nil {
		return err
	}
	if !strings.HasPrefix(path, "/") {
		return fmt.Errorf("path must be absolute")
	}
	if path == "/" {
		return nil
	}
	segs := strings.Split(strings.Trim(path, "/"), "/")
	if len(segs) > MaxPathDepth {
		return fmt.Errorf("path exceeds maximum depth %d", MaxPathDepth)
	}
	for _, s := range segs {
		if err := ValidateName(s); err != nil {
			return fmt.Errorf("path segment invalid: %w", err)
		}
	}
	return nil
}

// ValidateID validates an identifier field (app ids, bucket names)
func ValidateID(id, fieldName string, required bool) error {
	if err := ValidateString(id, fieldName, 1, 128, required); err != nil {
		return err
	}
	if id != "" && !SafeIDPattern.MatchString(id) {
		return fmt.Errorf("%s contains invalid characters (only alphanumeric, hyphens, and underscores allowed)", fieldName)
	}
	return nil
}

// ValidateTheme validates a theme identifier
func ValidateTheme(theme string) error {
	if err := ValidateString(theme, "theme", 1, 64, true); err != nil {
		return err
	}
	if !ThemePattern.MatchString(theme) {
		return fmt.Errorf("theme must contain only lowercase letters, numbers, and hyphens")
	}
	return nil
}

// ValidateContentSize checks a payload against the single-file limit
func ValidateContentSize(size int) error {
	if size > MaxContentSize {
		return fmt.Errorf("content size %d bytes exceeds maximum %d bytes", size, MaxContentSize)
	}
	return nil
}
