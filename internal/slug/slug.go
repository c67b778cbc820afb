// Package slug derives URL-safe identifiers from display names.
package slug

import (
	"regexp"
	"strings"
)

var nonAlnumRun = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases and trims name, collapses every run of characters
// outside [a-z0-9] into a single '-', then strips a leading and a trailing '-'.
//
// Collisions are not resolved here; the store rejects a duplicate slug. A name
// made only of punctuation yields "", and a second such record is rejected the
// same way.
func Slugify(name string) string {
	s := strings.TrimSpace(strings.ToLower(name))
	s = nonAlnumRun.ReplaceAllString(s, "-")
	s = strings.TrimPrefix(s, "-")
	return strings.TrimSuffix(s, "-")
}
