// Package slug turns product and blog names into url path segments.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Make lowercases s, strips diacritics, and joins the remaining alphanumeric
// runs with single hyphens. "Cà phê sữa đá" becomes "ca-phe-sua-da".
func Make(s string) string {
	folded := strings.NewReplacer("đ", "d", "Đ", "d").Replace(s)

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, folded)
	if err != nil {
		stripped = folded
	}

	var b strings.Builder
	b.Grow(len(stripped))
	pendingSep := false
	for _, r := range strings.ToLower(stripped) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	return b.String()
}

// OrMake returns url when it is already set, otherwise a slug of name.
func OrMake(url, name string) string {
	if trimmed := strings.TrimSpace(url); trimmed != "" {
		return Make(trimmed)
	}
	return Make(name)
}
