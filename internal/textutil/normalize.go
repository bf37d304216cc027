package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var folder = cases.Fold()

// CollapseWhitespace joins all whitespace-separated fields with single spaces,
// which also removes line breaks.
func CollapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// Fold returns the NFKC-normalized, case-folded, trimmed form of text. Use it
// for case-insensitive keyword matching against model output.
func Fold(text string) string {
	return strings.TrimSpace(folder.String(norm.NFKC.String(text)))
}

// StripPunctuation removes every rune that is neither a letter, digit,
// underscore, nor whitespace.
func StripPunctuation(text string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, text)
}

// NormalizeName folds text and strips punctuation, producing the comparison
// key used for line item names.
func NormalizeName(text string) string {
	return StripPunctuation(Fold(text))
}
