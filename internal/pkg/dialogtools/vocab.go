package dialogtools

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"lingoreel/internal/model/lesson"
)

// numberingPrefixRe strips list numbering the model tends to add in spite
// of the instructions ("1. ", "2) ", "3 - ").
var numberingPrefixRe = regexp.MustCompile(`^\d+[.)\-\s]+\s*`)

// VocabGenerator produces topic vocabulary lists through an LLM.
type VocabGenerator struct {
	llmProvider    LLMProvider
	targetLanguage string
	sourceLanguage string
}

// NewVocabGenerator creates a vocabulary generator. targetLanguage is the
// language being taught, sourceLanguage the learner's own.
func NewVocabGenerator(llmProvider LLMProvider, targetLanguage, sourceLanguage string) *VocabGenerator {
	return &VocabGenerator{
		llmProvider:    llmProvider,
		targetLanguage: targetLanguage,
		sourceLanguage: sourceLanguage,
	}
}

// Generate asks the model for numWords vocabulary entries about topic at
// the given difficulty (1-10). Words in usedWords are excluded from the
// prompt and filtered from the response, so repeated runs keep yielding
// fresh vocabulary.
//
// Args:
//   - ctx: context
//   - topic: lesson topic, e.g. "ordering street food"
//   - numWords: how many entries to request
//   - difficulty: 1-10, mapped onto beginner/intermediate/advanced
//   - usedWords: words already taught in earlier lessons
//
// Returns:
//   - []lesson.VocabWord: parsed entries, possibly fewer than requested
//   - error: transport error or an unparseable response
func (vg *VocabGenerator) Generate(ctx context.Context, topic string, numWords, difficulty int, usedWords []string) ([]lesson.VocabWord, error) {
	prompt := vg.buildPrompt(topic, numWords, difficulty, usedWords)
	response, err := vg.llmProvider.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("llm generate: %w", err)
	}

	words := ParseVocabResponse(response)
	if len(words) == 0 {
		return nil, fmt.Errorf("no vocabulary entries in response")
	}

	used := make(map[string]bool, len(usedWords))
	for _, w := range usedWords {
		used[strings.ToLower(strings.TrimSpace(w))] = true
	}
	fresh := words[:0]
	for _, w := range words {
		if !used[strings.ToLower(w.Word)] {
			fresh = append(fresh, w)
		}
	}
	return fresh, nil
}

func (vg *VocabGenerator) buildPrompt(topic string, numWords, difficulty int, usedWords []string) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("You are a %s teacher creating vocabulary lists for %s-speaking learners.\n", vg.targetLanguage, vg.sourceLanguage))
	b.WriteString(fmt.Sprintf("Generate exactly %d %s vocabulary words about the topic \"%s\".\n\n", numWords, vg.targetLanguage, topic))

	b.WriteString(fmt.Sprintf("[Difficulty: %d/10 - %s]\n", difficulty, lesson.DifficultyLabel(difficulty)))
	switch lesson.DifficultyLabel(difficulty) {
	case "beginner":
		b.WriteString("Pick everyday words a complete beginner meets in the first weeks: greetings, food, family, numbers, simple verbs.\n\n")
	case "intermediate":
		b.WriteString("Pick words for conversations about daily life: feelings, plans, opinions, common idiomatic expressions.\n\n")
	default:
		b.WriteString("Pick nuanced or formal words an advanced learner needs: abstract concepts, register differences, less common compounds.\n\n")
	}

	b.WriteString("[Output format - one entry per line, no numbering, no commentary]\n")
	b.WriteString(fmt.Sprintf("word | pronunciation | %s translation | short example sentence using the word\n\n", vg.sourceLanguage))

	b.WriteString("[Rules]\n")
	b.WriteString("1. Every word must relate to the topic.\n")
	b.WriteString("2. Use the standard dictionary form with correct diacritics.\n")
	b.WriteString("3. The pronunciation column is a simple phonetic guide for English speakers.\n")
	b.WriteString(fmt.Sprintf("4. The example sentence is in %s and stays under ten words.\n", vg.targetLanguage))

	if len(usedWords) > 0 {
		b.WriteString("5. Do NOT include any of these already-taught words: ")
		b.WriteString(strings.Join(usedWords, ", "))
		b.WriteString("\n")
	}
	return b.String()
}

// ParseVocabResponse extracts vocabulary entries from model output. Lines
// without a pipe separator are ignored; entries keep their column order of
// word, pronunciation, translation, context.
func ParseVocabResponse(response string) []lesson.VocabWord {
	var words []lesson.VocabWord
	for _, line := range strings.Split(strings.TrimSpace(response), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !strings.Contains(line, "|") {
			continue
		}
		line = numberingPrefixRe.ReplaceAllString(line, "")

		parts := strings.Split(line, "|")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		switch {
		case len(parts) >= 4:
			if parts[0] == "" {
				continue
			}
			words = append(words, lesson.VocabWord{
				Word:          parts[0],
				Pronunciation: parts[1],
				Translation:   parts[2],
				Context:       parts[3],
			})
		case len(parts) == 3:
			if parts[0] == "" {
				continue
			}
			words = append(words, lesson.VocabWord{
				Word:          parts[0],
				Pronunciation: parts[1],
				Translation:   parts[2],
			})
		}
	}
	return words
}
