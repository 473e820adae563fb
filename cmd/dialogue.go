package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	lessonsvc "lingoreel/internal/service/lesson"
)

var dialogueCmd = &cobra.Command{
	Use:   "dialogue",
	Short: "Generate a bilingual dialogue",
	Long: `Generate a two-speaker bilingual dialogue around one topic word.
When no topic word is given an unused one is drawn from the vocabulary
ledger. The dialogue is validated, saved under data/dialogues/ and the
topic word is recorded as used.`,
	RunE: runDialogue,
}

func init() {
	rootCmd.AddCommand(dialogueCmd)

	flags := dialogueCmd.Flags()
	flags.StringP("topic", "t", "", "conversation topic (default: derived from the topic word)")
	flags.StringP("topic-word", "w", "", "vocabulary word to build the dialogue around")
}

func runDialogue(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	topic, _ := cmd.Flags().GetString("topic")
	topicWord, _ := cmd.Flags().GetString("topic-word")

	svc, err := newService(ctx, serviceOptions{llmTemperature: lessonsvc.DialogueTemperature})
	if err != nil {
		return err
	}

	dialogue, path, err := svc.GenerateDialogue(ctx, topic, topicWord)
	if err != nil {
		return err
	}

	log.Info().
		Str("id", dialogue.ID).
		Str("topic_word", dialogue.TopicWord).
		Int("lines", len(dialogue.EnglishDialogue)).
		Str("file", path).
		Msg("dialogue generated")
	return nil
}
