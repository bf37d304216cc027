package textutil

import (
	"math"
	"regexp"
	"strings"
)

var tokenSplitPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Fingerprint is a term-frequency vector over the folded tokens of a phrase,
// used to suggest the closest section name for a misfiled category.
type Fingerprint struct {
	terms map[string]float64
	norm  float64
}

// NewFingerprint builds a fingerprint from text. Plural terms are folded to
// their singular form so "Countertops" and "Countertop" match. Text with no
// usable tokens yields nil.
func NewFingerprint(text string) *Fingerprint {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return nil
	}
	terms := make(map[string]float64, len(tokens))
	for _, token := range tokens {
		terms[singular(token)]++
	}
	var sum float64
	for _, n := range terms {
		sum += n * n
	}
	return &Fingerprint{terms: terms, norm: math.Sqrt(sum)}
}

// Tokenize lowercases text and splits it on non-alphanumerics, dropping
// tokens shorter than three characters.
func Tokenize(text string) []string {
	raw := tokenSplitPattern.Split(strings.ToLower(text), -1)
	out := make([]string, 0, len(raw))
	for _, token := range raw {
		if len(token) >= 3 {
			out = append(out, token)
		}
	}
	return out
}

func singular(token string) string {
	switch {
	case strings.HasSuffix(token, "ies") && len(token) > 4:
		return token[:len(token)-3] + "y"
	case strings.HasSuffix(token, "ss"):
		return token
	case strings.HasSuffix(token, "s") && len(token) > 3:
		return token[:len(token)-1]
	}
	return token
}
