package lesson

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"lingoreel/internal/model/lesson"
	"lingoreel/internal/pkg/dialogtools"
)

const (
	// DefaultVocabTopic is used when the caller names no topic.
	DefaultVocabTopic = "most commonly used words"
	// DefaultVocabCount is how many words one run requests.
	DefaultVocabCount = 20
	// DefaultVocabDifficulty sits in the middle of the 1-10 scale.
	DefaultVocabDifficulty = 5
	// VocabTemperature is the sampling temperature for vocabulary lists.
	VocabTemperature = 0.7
)

// GenerateVocab asks the model for a vocabulary list, writes the full
// document and appends the new words to the ledger. It returns the saved
// list and its path.
func (s *Service) GenerateVocab(ctx context.Context, topic string, numWords, difficulty int) (*lesson.VocabList, string, error) {
	if s.llm == nil {
		return nil, "", fmt.Errorf("llm provider is not configured")
	}
	if topic == "" {
		topic = DefaultVocabTopic
	}
	if numWords <= 0 {
		numWords = DefaultVocabCount
	}
	if difficulty <= 0 {
		difficulty = DefaultVocabDifficulty
	}

	usedWords, err := s.wordBank.UsedWords()
	if err != nil {
		return nil, "", fmt.Errorf("read used words: %w", err)
	}

	generator := dialogtools.NewVocabGenerator(s.llm, s.cfg.App.TargetLanguage, s.cfg.App.SourceLanguage)
	words, err := generator.Generate(ctx, topic, numWords, difficulty, usedWords)
	if err != nil {
		return nil, "", fmt.Errorf("generate vocabulary: %w", err)
	}

	list := &lesson.VocabList{
		Topic:       topic,
		Difficulty:  difficulty,
		GeneratedAt: time.Now().Unix(),
		Words:       words,
	}

	path, err := s.vocabRepo.SaveList(list)
	if err != nil {
		return nil, "", err
	}

	newWords := make([]string, len(words))
	for i, w := range words {
		newWords[i] = w.Word
	}
	if err := s.vocabRepo.AppendWords(newWords); err != nil {
		return nil, "", err
	}

	sample := words
	if len(sample) > 3 {
		sample = sample[:3]
	}
	sampleWords := make([]string, len(sample))
	for i, w := range sample {
		sampleWords[i] = w.Word
	}
	log.Info().
		Str("topic", topic).
		Int("words", len(words)).
		Strs("sample", sampleWords).
		Str("path", path).
		Msg("vocabulary list generated")
	return list, path, nil
}
