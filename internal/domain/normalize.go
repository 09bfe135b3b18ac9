package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeTitle lowercases a title, strips diacritical marks and collapses
// internal whitespace to single spaces. The result is used only for duplicate
// detection and sort ordering, never shown to callers.
func NormalizeTitle(s string) string {
	noAccents, _, err := transform.String(stripMarks, s)
	if err != nil {
		noAccents = s
	}
	return strings.Join(strings.Fields(strings.ToLower(noAccents)), " ")
}
