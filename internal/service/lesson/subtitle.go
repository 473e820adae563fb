package lesson

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"lingoreel/internal/model/lesson"
	"lingoreel/internal/pkg/dialogtools"
	lessonrepo "lingoreel/internal/repository/lesson"
)

// StripPunctuation produces the subtitle-ready timeline
// (dialogue_<id>_no_punctuation.json) from the working timeline and
// returns its path.
func (s *Service) StripPunctuation(ctx context.Context, dialogueID string) (string, error) {
	timeline, err := s.timelineRepo.Load(s.timelineRepo.TimelinePath(dialogueID))
	if err != nil {
		return "", fmt.Errorf("load timeline: %w", err)
	}

	stripped, changed := dialogtools.NewPunctuationStripper().StripPhrases(timeline.Dialogue)
	timeline.Dialogue = stripped

	path := s.timelineRepo.NoPunctuationPath(dialogueID)
	if err := s.timelineRepo.Save(path, timeline); err != nil {
		return "", err
	}

	log.Info().
		Str("dialogue_id", dialogueID).
		Bool("changed", changed).
		Str("path", path).
		Msg("subtitle timeline written")
	return path, nil
}

// subtitleTimeline loads the subtitle-ready timeline, building it from
// the working timeline when it does not exist yet.
func (s *Service) subtitleTimeline(ctx context.Context, dialogueID string) (*lesson.Timeline, error) {
	timeline, err := s.timelineRepo.Load(s.timelineRepo.NoPunctuationPath(dialogueID))
	if err == nil {
		return timeline, nil
	}
	if !errors.Is(err, lessonrepo.ErrNotFound) {
		return nil, err
	}

	if _, err := s.StripPunctuation(ctx, dialogueID); err != nil {
		return nil, err
	}
	return s.timelineRepo.Load(s.timelineRepo.NoPunctuationPath(dialogueID))
}

// RenderSRT renders the dialogue's subtitles as SRT text. cutoff > 0
// drops cues past it, matching test-mode video renders.
func (s *Service) RenderSRT(ctx context.Context, dialogueID string, cutoff float64) (string, error) {
	timeline, err := s.subtitleTimeline(ctx, dialogueID)
	if err != nil {
		return "", err
	}
	return dialogtools.NewSRTGenerator(0).Generate(timeline.Dialogue, cutoff), nil
}
