package dialogtools

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// diacriticsStripper decomposes accented letters and drops the combining
// marks, turning "cà phê" into "ca phe" for use in filenames.
var diacriticsStripper = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// CleanDialogueText flattens model output onto one line: newlines become
// spaces and runs of whitespace collapse.
func CleanDialogueText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// StripVietnameseTags removes <vietnamese> markup, leaving the tagged
// words in place. Speech synthesis wants the bare text; the words still
// register as Vietnamese through the vocabulary set.
func StripVietnameseTags(s string) string {
	return vietnameseTagRe.ReplaceAllString(s, "$1")
}

// SanitizeFilename converts a topic title into a safe lowercase file stem.
// Diacritics are stripped, remaining non-ASCII runes are dropped, and
// anything outside [a-z0-9_-] becomes an underscore.
func SanitizeFilename(s string) string {
	ascii, _, err := transform.String(diacriticsStripper, s)
	if err != nil {
		ascii = s
	}

	var b strings.Builder
	for _, r := range strings.ToLower(ascii) {
		switch {
		case r > unicode.MaxASCII:
			// dropped, as with đ which has no decomposition
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	out := b.String()
	for strings.Contains(out, "__") {
		out = strings.ReplaceAll(out, "__", "_")
	}
	out = strings.Trim(out, "_")
	if out == "" {
		return "topic"
	}
	return out
}
