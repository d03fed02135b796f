package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// accentStripper decomposes accented characters (NFD) and drops the
// combining marks, so "é" folds to "e" before slugging.
var accentStripper = transform.Chain(norm.NFD, transform.RemoveFunc(isMn))

func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}

// Slugify converts s into an ASCII URL slug: accents are stripped, the
// result is lowercased, and every run of non-alphanumeric characters
// collapses into a single hyphen with no hyphens at either end.
func Slugify(s string) string {
	folded, _, err := transform.String(accentStripper, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	b.Grow(len(folded))

	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(folded) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
			lastHyphen = false
			continue
		}
		if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}
