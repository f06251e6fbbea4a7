// Package textnorm compara rótulos ignorando acentos, caixa e espaços nas bordas.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold remove acentos, espaços nas bordas e caixa: "  Extensão " vira "extensao".
func Fold(s string) string {
	t := transform.Chain(norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
		runes.Map(unicode.ToLower))
	out, _, err := transform.String(t, strings.TrimSpace(s))
	if err != nil {
		return strings.ToLower(strings.TrimSpace(s))
	}
	return out
}

// Equal reports whether a and b fold to the same key.
func Equal(a, b string) bool {
	return Fold(a) == Fold(b)
}
