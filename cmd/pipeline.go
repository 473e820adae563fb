package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	lessonsvc "lingoreel/internal/service/lesson"
)

var pipelineCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Run the whole pipeline for one dialogue",
	Long: `Run every stage end to end for one new dialogue: generation, audio
synthesis, timeline building, subtitle preparation and video assembly.
The command stops at the first failing stage.`,
	RunE: runPipeline,
}

func init() {
	rootCmd.AddCommand(pipelineCmd)

	flags := pipelineCmd.Flags()
	flags.StringP("topic", "t", "", "conversation topic")
	flags.StringP("topic-word", "w", "", "vocabulary word to build the dialogue around")
	flags.Bool("test", false, "preview mode: only the first 10 seconds of video")
}

func runPipeline(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	topic, _ := cmd.Flags().GetString("topic")
	topicWord, _ := cmd.Flags().GetString("topic-word")
	test, _ := cmd.Flags().GetBool("test")

	svc, err := newService(ctx, serviceOptions{
		llmTemperature: lessonsvc.DialogueTemperature,
		speech:         true,
		transcribe:     true,
	})
	if err != nil {
		return err
	}

	videoPath, err := svc.RunPipeline(ctx, lessonsvc.PipelineOptions{
		Topic:     topic,
		TopicWord: topicWord,
		Test:      test,
	})
	if err != nil {
		return err
	}

	log.Info().Str("file", videoPath).Msg("pipeline finished")
	return nil
}
