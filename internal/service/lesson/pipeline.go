package lesson

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// PipelineOptions tune one end-to-end pipeline run.
type PipelineOptions struct {
	Topic     string
	TopicWord string
	// Test caps the render at a few seconds for a quick check.
	Test bool
}

// RunPipeline runs every stage for one fresh lesson: dialogue, audio,
// timeline, subtitles, video. It stops at the first stage error; each
// stage's artifacts stay on disk, so a failed run resumes by invoking the
// remaining stages by hand.
func (s *Service) RunPipeline(ctx context.Context, opts PipelineOptions) (string, error) {
	d, _, err := s.GenerateDialogue(ctx, opts.Topic, opts.TopicWord)
	if err != nil {
		return "", fmt.Errorf("dialogue stage: %w", err)
	}
	log.Info().Str("dialogue_id", d.ID).Msg("pipeline: dialogue ready")

	audioPath, err := s.SynthesizeDialogue(ctx, d.ID)
	if err != nil {
		return "", fmt.Errorf("audio stage: %w", err)
	}
	log.Info().Str("dialogue_id", d.ID).Msg("pipeline: audio ready")

	if _, err := s.BuildTimeline(ctx, audioPath, false, false); err != nil {
		return "", fmt.Errorf("timeline stage: %w", err)
	}
	log.Info().Str("dialogue_id", d.ID).Msg("pipeline: timeline ready")

	if _, err := s.StripPunctuation(ctx, d.ID); err != nil {
		return "", fmt.Errorf("subtitle stage: %w", err)
	}

	videoPath, err := s.AssembleVideo(ctx, audioPath, VideoOptions{Test: opts.Test})
	if err != nil {
		return "", fmt.Errorf("video stage: %w", err)
	}

	log.Info().
		Str("dialogue_id", d.ID).
		Str("video", videoPath).
		Msg("pipeline complete")
	return videoPath, nil
}
