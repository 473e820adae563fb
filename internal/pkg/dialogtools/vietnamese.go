package dialogtools

import (
	"sort"
	"strings"
	"unicode"
)

// vietnameseLetters holds every lowercase Vietnamese letter that carries a
// diacritic, plus đ. A word containing any of these cannot be English.
const vietnameseLetters = "àáảãạăằắẳẵặâầấẩẫậèéẻẽẹêềếểễệìíỉĩịòóỏõọôồốổỗộơờớởỡợùúủũụưừứửữựỳýỷỹỵđ"

// commonVietnamesePhrases are multi-word expressions that must be kept
// together when dialogue text is split into segments. Compound nouns and
// dish names break apart into meaningless halves otherwise.
var commonVietnamesePhrases = []string{
	"bóng đá", "giấc mơ", "Sài Gòn", "trùng hợp", "cổ vũ", "đánh giá",
	"tiếng Việt", "người Việt", "Việt Nam",
	"phở bò", "bánh mì", "cà phê", "cơm tấm", "bún chả", "hủ tiếu",
	"bánh xèo", "chả giò", "gỏi cuốn",
}

// HasVietnameseDiacritics reports whether any rune in s is a Vietnamese
// letter with a diacritic mark.
func HasVietnameseDiacritics(s string) bool {
	for _, r := range s {
		if strings.ContainsRune(vietnameseLetters, unicode.ToLower(r)) {
			return true
		}
	}
	return false
}

// cleanWord lowercases a token and strips everything that is not a letter
// or digit, so punctuation-adjacent words still match the vocabulary set.
func cleanWord(word string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(word) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsVietnameseWord reports whether a single token is Vietnamese, either
// because the lesson vocabulary contains it or because it carries
// diacritics.
func IsVietnameseWord(word string, vocab map[string]bool) bool {
	clean := cleanWord(word)
	if clean == "" {
		return false
	}
	return vocab[clean] || HasVietnameseDiacritics(clean)
}

// knownPhrases merges the static phrase table with any multi-word entries
// from the lesson vocabulary, longest first so that replacement and lookup
// prefer the most specific match.
func knownPhrases(vocab map[string]bool) []string {
	seen := make(map[string]bool, len(commonVietnamesePhrases))
	phrases := make([]string, 0, len(commonVietnamesePhrases))
	for _, p := range commonVietnamesePhrases {
		key := strings.ToLower(p)
		if !seen[key] {
			seen[key] = true
			phrases = append(phrases, p)
		}
	}
	for w := range vocab {
		if strings.Contains(strings.TrimSpace(w), " ") && !seen[strings.ToLower(w)] {
			seen[strings.ToLower(w)] = true
			phrases = append(phrases, w)
		}
	}
	sort.Slice(phrases, func(i, j int) bool {
		if len(phrases[i]) != len(phrases[j]) {
			return len(phrases[i]) > len(phrases[j])
		}
		return phrases[i] < phrases[j]
	})
	return phrases
}

// phraseSpan marks one occurrence of a known phrase inside a line,
// expressed as byte offsets into the lowercased text.
type phraseSpan struct {
	start  int
	end    int
	phrase string
}

// locatePhrases finds every case-insensitive occurrence of the given
// phrases in text. Offsets stay valid against the original string because
// Vietnamese case pairs encode to the same UTF-8 length.
func locatePhrases(text string, phrases []string) []phraseSpan {
	lower := strings.ToLower(text)
	var spans []phraseSpan
	for _, p := range phrases {
		needle := strings.ToLower(p)
		from := 0
		for {
			i := strings.Index(lower[from:], needle)
			if i < 0 {
				break
			}
			start := from + i
			spans = append(spans, phraseSpan{start: start, end: start + len(needle), phrase: p})
			from = start + 1
		}
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
	return spans
}

// ExtractVietnamesePhrases returns every Vietnamese phrase and standalone
// Vietnamese word that occurs in text, phrases first. Words already covered
// by a phrase are not reported twice.
func ExtractVietnamesePhrases(text string, vocab map[string]bool) []string {
	spans := locatePhrases(text, knownPhrases(vocab))

	var found []string
	seen := make(map[string]bool)
	for _, s := range spans {
		key := strings.ToLower(s.phrase)
		if !seen[key] {
			seen[key] = true
			found = append(found, s.phrase)
		}
	}

	charIndex := 0
	for _, word := range strings.Fields(text) {
		i := strings.Index(text[charIndex:], word)
		if i < 0 {
			continue
		}
		start := charIndex + i
		charIndex = start + len(word)

		inPhrase := false
		for _, s := range spans {
			if s.start <= start && start < s.end {
				inPhrase = true
				break
			}
		}
		if inPhrase {
			continue
		}
		if IsVietnameseWord(word, vocab) {
			clean := cleanWord(word)
			if !seen[clean] {
				seen[clean] = true
				found = append(found, clean)
			}
		}
	}
	return found
}
