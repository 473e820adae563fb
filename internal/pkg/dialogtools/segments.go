package dialogtools

import "strings"

// Segment is a maximal run of words in one language. Dialogue lines mix
// English narration with Vietnamese vocabulary, and each run has to be
// synthesized with the matching voice language.
type Segment struct {
	Text       string
	Vietnamese bool
}

// SegmentExtractor splits mixed-language dialogue lines into per-language
// segments for speech synthesis.
type SegmentExtractor struct{}

func NewSegmentExtractor() *SegmentExtractor {
	return &SegmentExtractor{}
}

// Extract walks the line word by word and groups consecutive words of the
// same language into segments. A word counts as Vietnamese when it sits
// inside a known phrase occurrence, appears in the lesson vocabulary, or
// carries diacritics. Phrase occurrences are located first so that
// multi-word expressions never straddle a segment boundary.
func (se *SegmentExtractor) Extract(text string, vocab map[string]bool) []Segment {
	spans := locatePhrases(text, knownPhrases(vocab))

	var segments []Segment
	var current strings.Builder
	currentVietnamese := false

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
		vietnamese := inPhrase || IsVietnameseWord(word, vocab)

		if current.Len() > 0 && vietnamese == currentVietnamese {
			current.WriteByte(' ')
			current.WriteString(word)
			continue
		}
		if current.Len() > 0 {
			segments = append(segments, Segment{Text: current.String(), Vietnamese: currentVietnamese})
			current.Reset()
		}
		current.WriteString(word)
		currentVietnamese = vietnamese
	}
	if current.Len() > 0 {
		segments = append(segments, Segment{Text: current.String(), Vietnamese: currentVietnamese})
	}
	return segments
}
