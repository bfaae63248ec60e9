// Package permissions parses the file modes used for files the player creates
package permissions

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Default permission constants
const (
	DefaultFilePerms = 0o644 // Owner writes, everyone reads (pid and log files)
)

// ParseOctalString parses an octal permission string into a uint16
// Handles formats like "644", "0644", "0o644"
func ParseOctalString(s string) (uint16, error) {
	if s == "" {
		return DefaultFilePerms, nil
	}

	// Remove common prefixes
	trimmed := strings.TrimPrefix(s, "0o")
	trimmed = strings.TrimPrefix(trimmed, "0")
	if trimmed == "" {
		return 0, nil
	}

	val, err := strconv.ParseUint(trimmed, 8, 16)
	if err != nil || val > 0o7777 {
		return DefaultFilePerms, fmt.Errorf("invalid permission string %q", s)
	}

	return uint16(val), nil
}

// FileMode parses s and returns it as an os.FileMode, falling back to
// DefaultFilePerms on malformed input.
func FileMode(s string) os.FileMode {
	perm, err := ParseOctalString(s)
	if err != nil {
		return DefaultFilePerms
	}
	return os.FileMode(perm)
}

// FormatOctal formats a permission value as an octal string
func FormatOctal(perm uint16) string {
	return fmt.Sprintf("0%o", perm)
}
