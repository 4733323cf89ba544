package field

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// SanitizeKey reduces input to a lowercase key made of ASCII letters, digits,
// underscores and hyphens. Diacritics are folded and whitespace runs become a
// single hyphen.
func SanitizeKey(input string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), input)
	if err != nil {
		folded = input
	}
	folded = strings.ToLower(strings.TrimSpace(folded))

	var builder strings.Builder
	space := false
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
			if space && builder.Len() > 0 {
				builder.WriteByte('-')
			}
			space = false
			builder.WriteRune(r)
		case unicode.IsSpace(r):
			space = true
		}
	}
	return builder.String()
}

// deriveSlug picks the explicit slug, then the label, then type_index,
// whichever sanitizes to something non-empty first.
func deriveSlug(cfg Config, index int) string {
	if slug := SanitizeKey(cfg.Slug); slug != "" {
		return slug
	}
	if slug := SanitizeKey(cfg.Label); slug != "" {
		return slug
	}
	return SanitizeKey(cfg.Type + "_" + strconv.Itoa(index))
}
