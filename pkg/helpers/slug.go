package helpers

import "strings"

// Slugify lowercases a title and collapses every run of non-alphanumeric
// characters into a single hyphen.
func Slugify(title string) string {
	var b strings.Builder
	b.Grow(len(title))
	prevHyphen := true
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prevHyphen = false
		default:
			if !prevHyphen {
				b.WriteByte('-')
				prevHyphen = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}
