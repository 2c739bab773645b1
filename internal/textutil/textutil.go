// Package textutil provides the fuzzy text matching used to recognise labels
// on human-authored spreadsheets: headers arrive with stray spaces, mixed
// case, punctuation and the occasional diacritic, so all comparisons run over
// an aggressively folded form.
package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// decompose splits characters into base + combining marks and drops the marks,
// so "Résumé" folds the same as "Resume".
var decompose = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

// Fold reduces a string to lower-cased ASCII letters and digits only.
// Everything else (spaces, punctuation, combining marks) is removed.
func Fold(s string) string {
	folded, _, err := transform.String(decompose, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		}
	}
	return b.String()
}

// FoldLetters is Fold restricted to letters; digits are dropped as well.
// Sheet-name detection uses this form ("CIA - 2023" -> "cia").
func FoldLetters(s string) string {
	folded := Fold(s)
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Match reports whether the folded value contains the folded form of any of
// the given patterns. An empty value never matches.
func Match(value string, patterns ...string) bool {
	fv := Fold(value)
	if fv == "" {
		return false
	}
	for _, p := range patterns {
		if fp := Fold(p); fp != "" && strings.Contains(fv, fp) {
			return true
		}
	}
	return false
}
