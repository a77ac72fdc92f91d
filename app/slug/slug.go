package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldDiacritics decomposes characters and strips combining marks, so
// "Café Société" slugifies the same as "Cafe Societe".
var foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Make derives a URL-safe slug from a display name: diacritics folded,
// lowercased, runs of non-alphanumeric characters collapsed to single
// hyphens. Deterministic for a given input.
func Make(name string) string {
	folded, _, err := transform.String(foldDiacritics, name)
	if err != nil {
		folded = name
	}

	var b strings.Builder
	b.Grow(len(folded))

	previousHyphen := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			previousHyphen = false
		default:
			if !previousHyphen && b.Len() > 0 {
				b.WriteByte('-')
				previousHyphen = true
			}
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}
