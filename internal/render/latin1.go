package render

import "strings"

// replacement stands in for any rune the Latin-1 repertoire cannot express.
// Dropping them silently would hide content loss from the reader.
const replacement = '?'

// ToLatin1 folds the text onto the Latin-1 repertoire, substituting the
// replacement character for anything outside it.
func ToLatin1(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r <= 0xFF {
			b.WriteRune(r)
		} else {
			b.WriteRune(replacement)
		}
	}
	return b.String()
}
