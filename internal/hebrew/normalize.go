// Package hebrew canonicalizes Hebrew names for comparison. Bank statements
// and the tenant roster frequently disagree on final-letter forms, quote
// marks and spacing for the same person, so every name is folded through
// Normalize before any match is attempted.
package hebrew

import "strings"

// finalForms maps the five Hebrew word-final letters to their medial forms.
var finalForms = map[rune]rune{
	'ך': 'כ',
	'ם': 'מ',
	'ן': 'נ',
	'ף': 'פ',
	'ץ': 'צ',
}

// punctuation lists the marks stripped from names: period, comma, ASCII
// quotes and the Hebrew gershayim/geresh used in abbreviations.
const punctuation = ".,'\"״׳"

// Normalize canonicalizes a name for comparison: collapses whitespace,
// lowercases (a no-op for Hebrew), strips punctuation and folds final-letter
// forms. It is pure and idempotent; an empty or blank input yields "".
func Normalize(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	name = strings.ToLower(name)

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if strings.ContainsRune(punctuation, r) {
			continue
		}
		if medial, ok := finalForms[r]; ok {
			r = medial
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}
