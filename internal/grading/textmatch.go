package grading

import "strings"

// normalize trims surrounding whitespace and lower-cases. Punctuation and
// inner spacing are left alone.
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Match reports whether a submitted answer equals the stored correct answer,
// ignoring case and surrounding whitespace.
func Match(correct, submitted string) bool {
	return normalize(correct) == normalize(submitted)
}

// WordCount counts whitespace-separated words.
func WordCount(s string) int {
	return len(strings.Fields(s))
}
