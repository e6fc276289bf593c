// Package textutil normaliza texto para SKUs y términos de búsqueda:
// catálogos en español traen tildes y eñes que no deben afectar ni la
// unicidad del SKU ni el match de búsqueda.
package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold elimina marcas diacríticas ("Código" -> "Codigo"). Si la
// transformación falla devuelve el texto original.
func Fold(s string) string {
	out, _, err := transform.String(foldTransformer, s)
	if err != nil {
		return s
	}
	return out
}

// NormalizeSKU deja el SKU en su forma canónica: sin espacios en los
// extremos, sin tildes y en mayúsculas.
func NormalizeSKU(sku string) string {
	return strings.ToUpper(Fold(strings.TrimSpace(sku)))
}

// NormalizeTerm prepara un término de búsqueda: minúsculas y sin tildes.
func NormalizeTerm(term string) string {
	return strings.ToLower(Fold(strings.TrimSpace(term)))
}
