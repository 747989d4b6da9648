package utils

import "strings"

// SanitizeID strips every non-alphanumeric character from a raw identifier,
// so formatted tax IDs like "123.456.789-01" collapse to the bare digits used
// as a storage filename component.
func SanitizeID(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidCPF reports whether a sanitized tax ID is exactly 11 digits.
func ValidCPF(sanitized string) bool {
	if len(sanitized) != 11 {
		return false
	}
	for _, r := range sanitized {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
