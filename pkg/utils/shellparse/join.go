// Package shellparse renders argument vectors the way a POSIX shell would
// need them typed, so logged command lines can be pasted back verbatim.
package shellparse

import (
	"strings"
	"unicode"
)

// Join combines arguments into a shell command string, quoting as necessary.
// Arguments containing spaces, quotes, or special characters are quoted.
func Join(args []string) string {
	if len(args) == 0 {
		return ""
	}

	parts := make([]string, 0, len(args))
	for _, arg := range args {
		parts = append(parts, quote(arg))
	}

	return strings.Join(parts, " ")
}

// quote adds quotes around an argument if it contains special characters
func quote(arg string) string {
	if arg == "" {
		return "''"
	}

	needsQuote := strings.IndexFunc(arg, func(ch rune) bool {
		return unicode.IsSpace(ch) || strings.ContainsRune(`'"\$`+"`*?", ch)
	}) >= 0
	if !needsQuote {
		return arg
	}

	// Use single quotes if possible (simpler)
	if !strings.Contains(arg, "'") {
		return "'" + arg + "'"
	}

	// Use double quotes and escape special characters
	var result strings.Builder
	result.WriteRune('"')
	for _, ch := range arg {
		if ch == '"' || ch == '\\' || ch == '$' || ch == '`' {
			result.WriteRune('\\')
		}
		result.WriteRune(ch)
	}
	result.WriteRune('"')

	return result.String()
}
