package device

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxNameLength is the longest waypoint name the recorder stores.
const MaxNameLength = 17

// SanitizeName folds name into the printable ASCII subset the recorder
// accepts, stripping diacritics and truncating to MaxNameLength.
func SanitizeName(name string) string {
	return asciiField(name, MaxNameLength)
}

func asciiField(value string, width int) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, value)
	if err != nil {
		folded = value
	}
	var b strings.Builder
	for _, r := range folded {
		if r < 0x20 || r > 0x7e {
			continue
		}
		if b.Len() == width {
			break
		}
		b.WriteRune(r)
	}
	return strings.TrimRight(b.String(), " ")
}
