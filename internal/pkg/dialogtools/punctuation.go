package dialogtools

import (
	"fmt"
	"regexp"
	"strings"

	"lingoreel/internal/model/lesson"
)

var (
	punctuationClass = regexp.MustCompile(`[.,!?;:"\[\]{}]`)
	markupTagRe      = regexp.MustCompile(`<[^>]+>`)
	parentheticalRe  = regexp.MustCompile(`\([^)]*\)`)
)

// PunctuationStripper removes sentence punctuation from subtitle display
// text. Rendered subtitles read cleaner without it, but the punctuation
// must survive inside <vietnamese> spans, other markup tags, and
// parentheticals, which are shown exactly as written.
type PunctuationStripper struct{}

func NewPunctuationStripper() *PunctuationStripper {
	return &PunctuationStripper{}
}

// StripText removes punctuation from text, protecting tagged and
// parenthesized spans with placeholders for the duration of the rewrite,
// and collapses the leftover whitespace.
func (ps *PunctuationStripper) StripText(text string) string {
	working := text
	var spans []string
	protect := func(re *regexp.Regexp) {
		for _, span := range re.FindAllString(working, -1) {
			working = strings.Replace(working, span, placeholderFor(len(spans)), 1)
			spans = append(spans, span)
		}
	}
	protect(vietnameseTagRe)
	protect(markupTagRe)
	protect(parentheticalRe)

	working = punctuationClass.ReplaceAllString(working, "")
	working = strings.Join(strings.Fields(working), " ")

	for i, span := range spans {
		working = strings.Replace(working, placeholderFor(i), span, 1)
	}
	return working
}

func placeholderFor(i int) string {
	return fmt.Sprintf("__TAG_%d__", i)
}

// StripPhrases returns a copy of the phrases with display text stripped,
// and reports whether anything actually changed.
func (ps *PunctuationStripper) StripPhrases(phrases []lesson.Phrase) ([]lesson.Phrase, bool) {
	out := make([]lesson.Phrase, len(phrases))
	copy(out, phrases)
	changed := false
	for i := range out {
		stripped := ps.StripText(out[i].Text)
		if stripped != out[i].Text {
			out[i].Text = stripped
			changed = true
		}
	}
	return out, changed
}
