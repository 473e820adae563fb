package lesson

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"lingoreel/internal/model/lesson"
	"lingoreel/internal/pkg/dialogtools"
	"lingoreel/internal/pkg/id"
)

// DialogueTemperature is the sampling temperature for dialogue writing;
// hotter than vocabulary so conversations stay varied.
const DialogueTemperature = 0.8

// GenerateDialogue creates one bilingual dialogue, saves it and marks its
// topic word consumed. Empty topic or topicWord let the generator choose.
func (s *Service) GenerateDialogue(ctx context.Context, topic, topicWord string) (*lesson.Dialogue, string, error) {
	if s.llm == nil {
		return nil, "", fmt.Errorf("llm provider is not configured")
	}

	generator := dialogtools.NewDialogueGenerator(s.llm)
	d, err := generator.Generate(ctx, topic, topicWord)
	if err != nil {
		return nil, "", fmt.Errorf("generate dialogue: %w", err)
	}
	d.ID = id.NewDialogueID()
	d.Timestamp = time.Now().Unix()

	result := dialogtools.NewDialogueValidator().Validate(d)
	if !result.IsValid {
		return nil, "", fmt.Errorf("generated dialogue is unusable: %s", result.Message)
	}
	for _, warning := range result.Warnings {
		log.Warn().Str("dialogue_id", d.ID).Msg(warning)
	}

	path, err := s.dialogueRepo.Save(d)
	if err != nil {
		return nil, "", err
	}

	if err := s.wordBank.AddUsedWord(d.TopicWord); err != nil {
		return nil, "", fmt.Errorf("mark topic word used: %w", err)
	}

	log.Info().
		Str("dialogue_id", d.ID).
		Str("topic_word", d.TopicWord).
		Int("lines", len(d.EnglishDialogue)).
		Str("path", path).
		Msg("dialogue generated")
	return d, path, nil
}
