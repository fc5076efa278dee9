package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var slugRe = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Normalize convierte un texto libre al formato slug: minúsculas, sin acentos,
// espacios y separadores como guiones. "Boutique Chez Léa" -> "boutique-chez-lea".
func Normalize(s string) string {
	// Descomponer y eliminar marcas diacríticas (é -> e)
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	out = strings.ToLower(strings.TrimSpace(out))

	var b strings.Builder
	prevDash := false
	for _, r := range out {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash && b.Len() > 0 {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

// IsValid verifica el formato slug: grupos alfanuméricos en minúscula
// separados por guiones simples.
func IsValid(s string) bool {
	return slugRe.MatchString(s)
}
