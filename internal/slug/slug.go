// Package slug derives stable identifiers from display text.
//
// Stage ids, sub-stage ids and "next" links are all recomputed from task text
// at different times, so [Slugify] must return the same output for the same
// input on every call. Identical text always yields identical ids; callers
// that need uniqueness must provide it themselves.
package slug

import (
	"strings"
	"unicode"
)

// MaxLength is the maximum length of a generated slug.
const MaxLength = 30

// Slugify lower-cases text, drops every character outside [a-z0-9] and
// whitespace, collapses whitespace runs into a single underscore and
// truncates the result to [MaxLength] characters.
func Slugify(text string) string {
	var b strings.Builder
	inSpace := false

	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsSpace(r):
			if !inSpace {
				b.WriteByte('_')
				inSpace = true
			}
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			inSpace = false
		}
	}

	// Only ASCII survives the filter, so byte truncation is safe.
	s := b.String()
	if len(s) > MaxLength {
		s = s[:MaxLength]
	}
	return s
}
