package types

import "strings"

// IsCanonicalID reports whether value is a canonical entity identifier:
// 32 hex characters, dashes optional, case-insensitive. Names never match.
func IsCanonicalID(value string) bool {
	cleaned := strings.ReplaceAll(value, "-", "")
	if len(cleaned) != 32 {
		return false
	}
	for _, r := range cleaned {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
