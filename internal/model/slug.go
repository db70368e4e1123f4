package model

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldDiacritics decomposes to NFD, strips combining marks, and recomposes,
// so "Café" slugifies to "cafe".
var foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify lowercases a name and reduces it to ASCII letters, digits, and a
// separator. Used for organisation slugs ("Test Company" -> "test-company").
func Slugify(name string) string {
	return slugify(name, '-')
}

// SlugifyUnderscore is Slugify with an underscore separator, matching the
// filename convention for logo files in the import folder.
func SlugifyUnderscore(name string) string {
	return slugify(name, '_')
}

func slugify(name string, sep rune) string {
	folded, _, err := transform.String(foldDiacritics, name)
	if err != nil {
		folded = name
	}

	var b strings.Builder
	lastSep := true // suppress a leading separator
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastSep = false
		default:
			if !lastSep {
				b.WriteRune(sep)
				lastSep = true
			}
		}
	}

	return strings.TrimRight(b.String(), string(sep))
}
