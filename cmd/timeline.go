package cmd

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var timelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Build subtitle timelines for dialogue audio",
}

var timelineEstimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Estimate a timeline from text length",
	Long: `Estimate phrase timings for a dialogue's audio from character counts
and the measured audio duration. No speech recognition is involved; the
result is the rough timeline later stages refine.`,
	RunE: runTimelineEstimate,
}

var timelineTranscribeCmd = &cobra.Command{
	Use:   "transcribe",
	Short: "Build a timeline from speech recognition",
	Long: `Send the dialogue audio through speech recognition, save the word
timestamps, and group the recognized words back into the dialogue's
phrases to produce a recognition-based timeline.`,
	RunE: runTimelineTranscribe,
}

var timelineAdjustCmd = &cobra.Command{
	Use:   "adjust",
	Short: "Adjust a timeline against word timestamps",
	Long: `Refine a dialogue's timeline by snapping phrase boundaries to the
saved speech-recognition word timestamps. The previous timeline is kept
as a one-time backup next to the adjusted one.`,
	RunE: runTimelineAdjust,
}

var timelineBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Run the full timeline chain",
	Long: `Run estimate, transcribe and adjust in sequence for one audio file.
When a refinement step fails the chain logs the failure and keeps the
best timeline produced so far.`,
	RunE: runTimelineBuild,
}

func init() {
	rootCmd.AddCommand(timelineCmd)
	timelineCmd.AddCommand(timelineEstimateCmd)
	timelineCmd.AddCommand(timelineTranscribeCmd)
	timelineCmd.AddCommand(timelineAdjustCmd)
	timelineCmd.AddCommand(timelineBuildCmd)

	timelineEstimateCmd.Flags().String("audio", "", "audio file path")
	timelineEstimateCmd.Flags().String("id", "", "dialogue id (alternative to --audio)")

	timelineTranscribeCmd.Flags().String("audio", "", "audio file path")
	timelineTranscribeCmd.Flags().String("id", "", "dialogue id (alternative to --audio)")

	timelineAdjustCmd.Flags().String("id", "", "dialogue id")
	_ = timelineAdjustCmd.MarkFlagRequired("id")

	timelineBuildCmd.Flags().String("audio", "", "audio file path")
	timelineBuildCmd.Flags().String("id", "", "dialogue id (alternative to --audio)")
	timelineBuildCmd.Flags().Bool("skip-transcribe", false, "skip the speech recognition pass")
	timelineBuildCmd.Flags().Bool("skip-adjust", false, "skip the timestamp adjustment pass")
}

// resolveAudio turns the --audio/--id flag pair into an audio path.
func resolveAudio(cmd *cobra.Command, svc interface {
	FindAudio(string) (string, error)
}) (string, error) {
	audio, _ := cmd.Flags().GetString("audio")
	if audio != "" {
		return audio, nil
	}
	id, _ := cmd.Flags().GetString("id")
	if id == "" {
		return "", fmt.Errorf("either --audio or --id is required")
	}
	return svc.FindAudio(id)
}

func runTimelineEstimate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	svc, err := newService(ctx, serviceOptions{})
	if err != nil {
		return err
	}
	audio, err := resolveAudio(cmd, svc)
	if err != nil {
		return err
	}

	timeline, err := svc.EstimateTimeline(ctx, audio)
	if err != nil {
		return err
	}

	log.Info().
		Str("audio", audio).
		Int("phrases", len(timeline.Dialogue)).
		Msg("timeline estimated")
	return nil
}

func runTimelineTranscribe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	svc, err := newService(ctx, serviceOptions{transcribe: true})
	if err != nil {
		return err
	}
	audio, err := resolveAudio(cmd, svc)
	if err != nil {
		return err
	}

	timeline, err := svc.TranscribeTimeline(ctx, audio)
	if err != nil {
		return err
	}

	log.Info().
		Str("audio", audio).
		Int("phrases", len(timeline.Dialogue)).
		Msg("timeline transcribed")
	return nil
}

func runTimelineAdjust(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	id, _ := cmd.Flags().GetString("id")

	svc, err := newService(ctx, serviceOptions{})
	if err != nil {
		return err
	}

	timeline, err := svc.AdjustTimeline(ctx, id)
	if err != nil {
		return err
	}

	log.Info().
		Str("id", id).
		Int("phrases", len(timeline.Dialogue)).
		Msg("timeline adjusted")
	return nil
}

func runTimelineBuild(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	skipTranscribe, _ := cmd.Flags().GetBool("skip-transcribe")
	skipAdjust, _ := cmd.Flags().GetBool("skip-adjust")

	svc, err := newService(ctx, serviceOptions{transcribe: !skipTranscribe})
	if err != nil {
		return err
	}
	audio, err := resolveAudio(cmd, svc)
	if err != nil {
		return err
	}

	timeline, err := svc.BuildTimeline(ctx, audio, skipTranscribe, skipAdjust)
	if err != nil {
		return err
	}

	log.Info().
		Str("audio", audio).
		Int("phrases", len(timeline.Dialogue)).
		Msg("timeline built")
	return nil
}
