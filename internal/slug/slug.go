package slug

import (
	"regexp"
	"strings"
	"unicode"
)

var reSlug = regexp.MustCompile(`^[\p{L}\p{N}_]{2,40}$`)

// IsSlug returns true if s is 2..40 lowercase letters, digits or underscores.
// Letters from any script are accepted so Arabic category codes stay readable.
func IsSlug(s string) bool {
	return reSlug.MatchString(s) && s == strings.ToLower(s)
}

// Slugify lowercases s, maps every run of non letter/digit runes to a single '_',
// trims to 40 runes and strips leading/trailing '_'.
func Slugify(s string) string {
	if s == "" {
		return s
	}
	out := make([]rune, 0, len(s))
	prevUnderscore := false
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			out = append(out, r)
			prevUnderscore = false
		case unicode.Is(unicode.Mn, r):
			// drop combining marks (Arabic harakat)
			continue
		default:
			if !prevUnderscore {
				out = append(out, '_')
				prevUnderscore = true
			}
		}
		if len(out) >= 40 {
			break
		}
	}
	return strings.Trim(string(out), "_")
}
