package errors

import (
	"strings"
	"unicode"
)

// ValidateModuleName validates a module name from an untrusted netlist file.
// Module names end up in cache keys and output file names, so the rules are
// intentionally conservative:
//   - No empty names
//   - No control characters or null bytes
//   - No path separators or traversal sequences
//   - Maximum length of 256 characters
func ValidateModuleName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidNetlist, "module name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidNetlist, "module name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidNetlist, "module name contains invalid control characters")
		}
	}

	for _, pattern := range []string{"..", "/", "\\", "\x00"} {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidNetlist, "module name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateWireName validates a wire name from an untrusted netlist file.
// Wire names become report keys ("name[offset]"), so brackets are rejected
// to keep the key form unambiguous.
func ValidateWireName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidNetlist, "wire name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidNetlist, "wire name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidNetlist, "wire name contains invalid control characters")
		}
	}

	if strings.ContainsAny(name, "[]") {
		return New(ErrCodeInvalidNetlist, "wire name cannot contain brackets: %q", name)
	}

	return nil
}
