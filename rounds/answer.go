package rounds

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// foldAnswer normalizes a free-text answer for comparison: lowercase,
// diacritics removed, whitespace collapsed. "Hoa Đào" and "hoa dao" compare
// equal.
func foldAnswer(s string) string {
	folded, _, err := transform.String(stripMarks, s)
	if err != nil {
		folded = s
	}
	// NFD leaves đ/Đ intact; map them by hand.
	folded = strings.NewReplacer("đ", "d", "Đ", "D").Replace(folded)
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}

// answersMatch compares two free-text answers case- and
// diacritic-insensitively.
func answersMatch(a, b string) bool {
	return foldAnswer(a) == foldAnswer(b)
}
