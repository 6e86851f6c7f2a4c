// Package hygiene implements QueryHygiene (spec §4.1): Unicode
// normalisation, lowercasing, separator collapse, and tokenisation.
package hygiene

import (
	"strings"
	"unicode"

	"github.com/anyascii/go"
	"golang.org/x/text/unicode/norm"
)

// separatorRunes are collapsed to a single space by Normalise.
const separatorRunes = " \t\r\n.,;:|+-*/_=!@#$`~^&(){}[]?'<>\"\\"

// Hint pairs a normalised token (which keeps any diacritics) with its
// ASCII transliteration, for display (spec §4.1: "a reversible hint table
// kept for display").
type Hint struct {
	Normalised string
	ASCII      string
}

// Normalise NFKC-normalises, lowercases, collapses separator runs to a
// single space, and trims the result. It is idempotent: Normalise(Normalise(x)) == Normalise(x).
func Normalise(raw string) string {
	folded := norm.NFKC.String(raw)
	folded = strings.ToLower(folded)

	var b strings.Builder
	b.Grow(len(folded))
	lastWasSep := true // trims leading separators for free
	for _, r := range folded {
		if strings.ContainsRune(separatorRunes, r) || unicode.IsSpace(r) {
			if !lastWasSep {
				b.WriteRune(' ')
			}
			lastWasSep = true
			continue
		}
		b.WriteRune(r)
		lastWasSep = false
	}
	return strings.TrimSpace(b.String())
}

// Tokenise splits a normalised string on single spaces, dropping empty
// tokens. tokenise(normalise(x)) is idempotent on the second iteration:
// re-joining its output with single spaces and tokenising again yields the
// same tokens.
func Tokenise(normalised string) []string {
	fields := strings.Split(normalised, " ")
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// Hints computes the ASCII-transliteration hint table for a set of tokens:
// each token is paired with its anyascii transliteration ("côte" gives
// "cote"). Normalise only lowercases, so the tokens keep their diacritics.
func Hints(tokens []string) []Hint {
	hints := make([]Hint, len(tokens))
	for i, tok := range tokens {
		hints[i] = Hint{Normalised: tok, ASCII: anyascii.Transliterate(tok)}
	}
	return hints
}
