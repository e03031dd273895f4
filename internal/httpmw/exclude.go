package httpmw

import "strings"

// isExcluded reports whether path starts with any of the given literal
// prefixes. First match wins; an empty prefix list never matches.
// Callers pass exact prefixes: no case folding, no trailing-slash handling.
func isExcluded(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
