package errors

import (
	"unicode"
	"unicode/utf8"
)

// maxNameLength bounds package and dependency names.
const maxNameLength = 256

// ValidatePackageName checks that name can be used as a package key.
//
// Ecosystems disagree on what a legal name looks like (npm scopes, Eclipse
// bundle dots, R's bare "R"), so the rules are deliberately shallow:
//   - No empty names
//   - Valid UTF-8
//   - No control characters or null bytes
//   - Maximum length of 256 bytes
//
// Format-specific rules belong to the scanner that produced the name.
func ValidatePackageName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPackage, "package name cannot be empty")
	}

	if len(name) > maxNameLength {
		return New(ErrCodeInvalidPackage, "package name too long (max %d characters)", maxNameLength)
	}

	if !utf8.ValidString(name) {
		return New(ErrCodeInvalidPackage, "package name is not valid UTF-8: %q", name)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPackage, "package name contains invalid control characters: %q", name)
		}
	}

	return nil
}

// ValidateConstraint checks a version constraint string as recorded in a
// dependency edge. The empty string is allowed: several manifest formats
// declare a dependency without any constraint.
func ValidateConstraint(constraint string) error {
	if !utf8.ValidString(constraint) {
		return New(ErrCodeInvalidInput, "constraint is not valid UTF-8: %q", constraint)
	}
	for _, r := range constraint {
		if r == '\x00' || (unicode.IsControl(r) && r != '\t') {
			return New(ErrCodeInvalidInput, "constraint contains invalid control characters: %q", constraint)
		}
	}
	return nil
}
