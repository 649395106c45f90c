package utils

import (
	"strings"
)

// TrimmedNonEmpty returns s without surrounding whitespace and whether
// anything is left
func TrimmedNonEmpty(s string) (string, bool) {
	t := strings.TrimSpace(s)
	return t, t != ""
}

// FoldKey is the key used for case-insensitive duplicate detection
func FoldKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
