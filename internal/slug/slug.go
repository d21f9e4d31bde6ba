package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// Decompose, drop combining marks, recompose. Turns "Fåtölj" into "Fatolj".
	deaccenter = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)
	hyphens  = regexp.MustCompile(`^-+|-+$`)
)

// Make normalizes free text into a URL-safe identifier: lowercase,
// diacritics stripped, every run of punctuation or whitespace collapsed to a
// single hyphen, no leading or trailing hyphen. Idempotent. Input with no
// usable characters yields an empty string; callers reject that in validation.
func Make(input string) string {
	s := strings.ToLower(strings.TrimSpace(input))
	if out, _, err := transform.String(deaccenter, s); err == nil {
		s = out
	}
	s = nonAlnum.ReplaceAllString(s, "-")
	return hyphens.ReplaceAllString(s, "")
}
