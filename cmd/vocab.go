package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	lessonsvc "lingoreel/internal/service/lesson"
)

var vocabCmd = &cobra.Command{
	Use:   "vocab",
	Short: "Generate a vocabulary list",
	Long: `Generate a themed vocabulary list with the configured LLM. Words already
present in the vocabulary ledger are excluded from the request, the full
list document is saved under data/vocab/ and the new words are appended
to the ledger.`,
	RunE: runVocab,
}

func init() {
	rootCmd.AddCommand(vocabCmd)

	flags := vocabCmd.Flags()
	flags.StringP("topic", "t", lessonsvc.DefaultVocabTopic, "vocabulary theme")
	flags.IntP("words", "n", lessonsvc.DefaultVocabCount, "number of words to generate")
	flags.IntP("difficulty", "d", lessonsvc.DefaultVocabDifficulty, "difficulty level (1-10)")
}

func runVocab(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	topic, _ := cmd.Flags().GetString("topic")
	numWords, _ := cmd.Flags().GetInt("words")
	difficulty, _ := cmd.Flags().GetInt("difficulty")

	svc, err := newService(ctx, serviceOptions{llmTemperature: lessonsvc.VocabTemperature})
	if err != nil {
		return err
	}

	list, path, err := svc.GenerateVocab(ctx, topic, numWords, difficulty)
	if err != nil {
		return err
	}

	log.Info().
		Str("topic", topic).
		Int("words", len(list.Words)).
		Str("file", path).
		Msg("vocabulary list generated")
	return nil
}
