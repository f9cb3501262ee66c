package nlp

import (
	"strings"
)

// WordCount returns the number of whitespace-delimited tokens in s.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// ContainsAnyFold reports whether s contains any of terms, ignoring case.
// Terms match as substrings: "databases" contains "database".
func ContainsAnyFold(s string, terms []string) bool {
	lower := strings.ToLower(s)
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}
