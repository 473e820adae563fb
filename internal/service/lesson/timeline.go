package lesson

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"lingoreel/internal/model/lesson"
	"lingoreel/internal/pkg/dialogtools"
	lessonrepo "lingoreel/internal/repository/lesson"
)

// EstimateTimeline builds the first-pass timeline for a stitched
// recording by distributing its duration over the dialogue text, and
// saves it as the working timeline.
func (s *Service) EstimateTimeline(ctx context.Context, audioPath string) (*lesson.Timeline, error) {
	if s.ff == nil {
		return nil, fmt.Errorf("ffmpeg client is not configured")
	}

	id, ok := lessonrepo.ExtractID(audioPath)
	if !ok {
		return nil, fmt.Errorf("no dialogue id in audio filename %s", audioPath)
	}
	d, err := s.dialogueRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	info, err := s.ff.GetAudioInfo(ctx, audioPath)
	if err != nil {
		return nil, fmt.Errorf("probe audio: %w", err)
	}
	if info.Duration <= 0 {
		return nil, fmt.Errorf("audio %s has no duration", audioPath)
	}

	phrases := dialogtools.NewTimelineEstimator().Estimate(info.Duration, d)
	timeline := timelineDoc(d, phrases)
	if err := s.timelineRepo.Save(s.timelineRepo.TimelinePath(id), timeline); err != nil {
		return nil, err
	}

	log.Info().
		Str("dialogue_id", id).
		Float64("duration", info.Duration).
		Int("phrases", len(phrases)).
		Msg("timeline estimated")
	return timeline, nil
}

// TranscribeTimeline runs speech recognition over the recording, saves
// the raw word timestamps (JSON and csv log) and the recognition
// timeline.
func (s *Service) TranscribeTimeline(ctx context.Context, audioPath string) (*lesson.Timeline, error) {
	if s.stt == nil {
		return nil, fmt.Errorf("transcriber is not configured")
	}

	id, ok := lessonrepo.ExtractID(audioPath)
	if !ok {
		return nil, fmt.Errorf("no dialogue id in audio filename %s", audioPath)
	}
	d, err := s.dialogueRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	words, err := s.stt.Transcribe(ctx, audioPath)
	if err != nil {
		return nil, fmt.Errorf("transcribe audio: %w", err)
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("recognition returned no words for %s", audioPath)
	}

	grouper := dialogtools.NewPhraseGrouper()
	words = grouper.AssignSpeakers(words, d)

	if err := s.timelineRepo.SaveWords(id, words); err != nil {
		return nil, err
	}
	if err := s.timelineRepo.SaveWordsCSV(id, words); err != nil {
		return nil, err
	}

	phrases := grouper.Group(words)
	phrases = dialogtools.MarkVietnameseWords(phrases, d.VietnameseVocab())

	timeline := timelineDoc(d, phrases)
	if err := s.timelineRepo.Save(s.timelineRepo.AutoPath(id), timeline); err != nil {
		return nil, err
	}

	log.Info().
		Str("dialogue_id", id).
		Int("words", len(words)).
		Int("phrases", len(phrases)).
		Msg("recognition timeline saved")
	return timeline, nil
}

// AdjustTimeline snaps the estimated timeline onto the recognized word
// timestamps. The working timeline is backed up to _original.json before
// the adjusted one replaces it.
func (s *Service) AdjustTimeline(ctx context.Context, dialogueID string) (*lesson.Timeline, error) {
	estimated, err := s.timelineRepo.Load(s.timelineRepo.TimelinePath(dialogueID))
	if err != nil {
		return nil, fmt.Errorf("load estimated timeline: %w", err)
	}
	words, err := s.timelineRepo.LoadWords(dialogueID)
	if err != nil {
		return nil, fmt.Errorf("load recognized words: %w", err)
	}

	adjusted := dialogtools.NewTimelineAdjuster().Adjust(estimated.Dialogue, words)
	adjusted = dialogtools.ValidateAndFix(adjusted)

	timeline := &lesson.Timeline{
		ID:                   estimated.ID,
		TopicWord:            estimated.TopicWord,
		TopicWordTranslation: estimated.TopicWordTranslation,
		CommonWords:          estimated.CommonWords,
		Dialogue:             adjusted,
	}
	if err := s.timelineRepo.Replace(dialogueID, timeline); err != nil {
		return nil, err
	}

	log.Info().
		Str("dialogue_id", dialogueID).
		Int("phrases", len(adjusted)).
		Msg("timeline adjusted against recognition")
	return timeline, nil
}

// BuildTimeline runs the full timing pass: estimate, then recognition and
// adjustment unless skipped. Recognition or adjustment failures downgrade
// to the last successful artifact instead of failing the stage, because a
// rough timeline still renders a usable video.
func (s *Service) BuildTimeline(ctx context.Context, audioPath string, skipTranscribe, skipAdjust bool) (*lesson.Timeline, error) {
	timeline, err := s.EstimateTimeline(ctx, audioPath)
	if err != nil {
		return nil, err
	}
	if skipTranscribe {
		return timeline, nil
	}

	if _, err := s.TranscribeTimeline(ctx, audioPath); err != nil {
		log.Warn().Err(err).Msg("recognition failed, keeping estimated timeline")
		return timeline, nil
	}
	if skipAdjust {
		return timeline, nil
	}

	adjusted, err := s.AdjustTimeline(ctx, timeline.ID)
	if err != nil {
		log.Warn().Err(err).Msg("adjustment failed, keeping estimated timeline")
		return timeline, nil
	}
	return adjusted, nil
}

func timelineDoc(d *lesson.Dialogue, phrases []lesson.Phrase) *lesson.Timeline {
	return &lesson.Timeline{
		ID:                   d.ID,
		TopicWord:            d.TopicWord,
		TopicWordTranslation: d.TopicWordTranslation,
		CommonWords:          d.CommonWords,
		Dialogue:             phrases,
	}
}
