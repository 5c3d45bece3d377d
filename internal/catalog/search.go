package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldTransformer strips diacritics so that "electronique" matches
// "Électronique". Catalog names are predominantly French.
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func fold(s string) string {
	out, _, err := transform.String(foldTransformer, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// matches reports whether the product matches the folded search term
// on name, SKU or category.
func matches(p Product, term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(fold(p.Name), term) ||
		strings.Contains(fold(p.SKU), term) ||
		strings.Contains(fold(p.Category), term)
}
