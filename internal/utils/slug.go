package utils

import (
	"regexp"
	"strings"
)

var (
	// Whitespace runs, including Unicode spaces such as NBSP, become a single hyphen
	slugWhitespace = regexp.MustCompile(`[\s\p{Z}]+`)
	// Anything outside the URL-safe slug alphabet is dropped
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9_-]`)
)

// Slugify turns free text into a URL-safe identifier: lowercase, whitespace
// runs collapsed to "-", every character outside [a-z0-9-_] removed.
// Non-ASCII letters are dropped rather than transliterated, so the result
// may be empty.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugWhitespace.ReplaceAllString(s, "-")
	return slugInvalidChars.ReplaceAllString(s, "")
}
