package dialogtools

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"lingoreel/internal/model/lesson"
)

// ValidationResult reports whether a generated dialogue is usable and
// lists quality problems that are worth logging but not regenerating for.
type ValidationResult struct {
	IsValid  bool
	Message  string
	Warnings []string
}

// DialogueValidator checks generated dialogues against the lesson format
// before they are written to disk. Model output drifts, and catching a
// missing topic word here is much cheaper than after audio synthesis.
type DialogueValidator struct{}

func NewDialogueValidator() *DialogueValidator {
	return &DialogueValidator{}
}

// Validate checks the structural rules of a dialogue. A dialogue with no
// English lines or no topic word is invalid; everything else surfaces as a
// warning.
func (dv *DialogueValidator) Validate(d *lesson.Dialogue) *ValidationResult {
	result := &ValidationResult{IsValid: true, Warnings: []string{}}

	if d == nil || len(d.EnglishDialogue) == 0 {
		result.IsValid = false
		result.Message = "dialogue has no English lines"
		return result
	}
	if strings.TrimSpace(d.TopicWord) == "" {
		result.IsValid = false
		result.Message = "dialogue has no topic word"
		return result
	}

	if strings.EqualFold(d.TopicWord, "chúng ta") {
		result.Warnings = append(result.Warnings, `topic word is "chúng ta", which the prompt forbids`)
	}

	var english strings.Builder
	bySpeaker := map[string]int{}
	for _, line := range d.EnglishDialogue {
		english.WriteString(line.Text)
		english.WriteByte('\n')
		bySpeaker[line.Speaker] += countWordFold(line.Text, d.TopicWord)
	}

	if total := countWordFold(english.String(), d.TopicWord); total < 3 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("topic word %q appears %d times, want at least 3", d.TopicWord, total))
	}
	for _, speaker := range []lesson.Speaker{lesson.SpeakerMira, lesson.SpeakerMichael} {
		if bySpeaker[speaker.String()] == 0 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%s never says the topic word %q", speaker, d.TopicWord))
		}
	}

	for _, cw := range d.CommonWords {
		if n := countWordFold(english.String(), cw.Word); n < 2 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("common word %q appears %d times, want at least 2", cw.Word, n))
		}
	}
	if len(d.CommonWords) < 2 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("dialogue has %d common words, want 2", len(d.CommonWords)))
	}

	if len(d.EnglishDialogue) < 8 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("dialogue has %d English lines, want 8-10", len(d.EnglishDialogue)))
	}
	if len(d.VietnameseDialogue) != len(d.EnglishDialogue) {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("line count mismatch: %d Vietnamese vs %d English",
				len(d.VietnameseDialogue), len(d.EnglishDialogue)))
	}
	return result
}

// countWordFold counts case-insensitive, word-bounded occurrences of
// needle in s.
func countWordFold(s, needle string) int {
	lower := strings.ToLower(s)
	needleLower := strings.ToLower(needle)
	if needleLower == "" {
		return 0
	}
	count := 0
	from := 0
	for {
		i := strings.Index(lower[from:], needleLower)
		if i < 0 {
			return count
		}
		start := from + i
		if wordBounded(s, start, start+len(needleLower)) {
			count++
		}
		_, size := utf8.DecodeRuneInString(s[start:])
		from = start + size
	}
}
