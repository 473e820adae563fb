package lesson

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"lingoreel/internal/model/lesson"
	"lingoreel/internal/pkg/dialogtools"
	"lingoreel/internal/pkg/ffmpeg"
	lessonrepo "lingoreel/internal/repository/lesson"
)

// SynthesizeDialogue renders one dialogue's English lines (with embedded
// Vietnamese vocabulary) to a stitched mp3 and returns its path. An empty
// id picks the first dialogue that has no audio yet; a dialogue whose
// audio already exists is skipped.
func (s *Service) SynthesizeDialogue(ctx context.Context, dialogueID string) (string, error) {
	if s.synth == nil {
		return "", fmt.Errorf("speech synthesizer is not configured")
	}
	if s.ff == nil {
		return "", fmt.Errorf("ffmpeg client is not configured")
	}

	if dialogueID == "" {
		var err error
		dialogueID, err = s.nextUnsynthesizedID()
		if err != nil {
			return "", err
		}
	}

	audioPath := s.audioRepo.AudioPath(dialogueID)
	if existing, err := s.audioRepo.FindByID(dialogueID); err == nil {
		log.Info().Str("dialogue_id", dialogueID).Str("audio", existing).
			Msg("audio already exists, skipping synthesis")
		return existing, nil
	}

	d, err := s.dialogueRepo.FindByID(dialogueID)
	if err != nil {
		return "", err
	}
	vocab := d.VietnameseVocab()

	tempDir, err := os.MkdirTemp("", "lingoreel-tts-*")
	if err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	// Vietnamese vocabulary repeats across lines; synthesize each
	// (gender, word) pair once and reuse the audio.
	cache := map[lesson.Gender]map[string][]byte{
		lesson.GenderFemale: {},
		lesson.GenderMale:   {},
	}

	pause := float64(s.cfg.TTS.PauseMs) / 1000
	speakerPause := float64(s.cfg.TTS.SpeakerPauseMs) / 1000

	var stitch []ffmpeg.StitchSegment
	extractor := dialogtools.NewSegmentExtractor()
	segIndex := 0
	for lineIdx, line := range d.EnglishDialogue {
		speaker := lesson.Speaker(line.Speaker)
		text := dialogtools.StripVietnameseTags(line.Text)

		segments := extractor.Extract(text, vocab)
		for i, seg := range segments {
			audio, err := s.synthesizeSegment(ctx, seg, speaker, cache)
			if err != nil {
				return "", fmt.Errorf("synthesize line %d segment %q: %w", lineIdx+1, seg.Text, err)
			}

			segPath := filepath.Join(tempDir, fmt.Sprintf("seg_%03d.mp3", segIndex))
			if err := os.WriteFile(segPath, audio, 0o644); err != nil {
				return "", fmt.Errorf("write segment audio: %w", err)
			}
			segIndex++

			silence := pause
			if i == len(segments)-1 {
				silence = speakerPause
			}
			stitch = append(stitch, ffmpeg.StitchSegment{Path: segPath, SilenceAfter: silence})
		}
	}
	if len(stitch) == 0 {
		return "", fmt.Errorf("dialogue %s produced no audio segments", dialogueID)
	}

	if err := os.MkdirAll(filepath.Dir(audioPath), 0o755); err != nil {
		return "", fmt.Errorf("create audio dir: %w", err)
	}
	if err := s.ff.StitchSegments(ctx, stitch, s.cfg.TTS.ElevenLabs.VolumeBoostDB, audioPath); err != nil {
		return "", err
	}

	log.Info().
		Str("dialogue_id", dialogueID).
		Int("segments", len(stitch)).
		Str("audio", audioPath).
		Msg("dialogue audio synthesized")
	return audioPath, nil
}

// synthesizeSegment renders one segment, going through the per-gender
// cache for Vietnamese vocabulary.
func (s *Service) synthesizeSegment(ctx context.Context, seg dialogtools.Segment, speaker lesson.Speaker, cache map[lesson.Gender]map[string][]byte) ([]byte, error) {
	lang := "en"
	if seg.Vietnamese {
		lang = "vi"
	}

	var cacheKey string
	if seg.Vietnamese {
		cacheKey = strings.ToLower(seg.Text)
		if audio, ok := cache[speaker.Gender()][cacheKey]; ok {
			return audio, nil
		}
	}

	audio, err := s.synth.Synthesize(ctx, dialogtools.SpeechRequest{
		Text:         seg.Text,
		Speaker:      speaker,
		LanguageCode: lang,
	})
	if err != nil {
		return nil, err
	}

	if seg.Vietnamese {
		cache[speaker.Gender()][cacheKey] = audio
	}
	return audio, nil
}

// FindAudio resolves a dialogue id to its stitched-audio path.
func (s *Service) FindAudio(dialogueID string) (string, error) {
	return s.audioRepo.FindByID(dialogueID)
}

// nextUnsynthesizedID finds the first dialogue document with no audio.
func (s *Service) nextUnsynthesizedID() (string, error) {
	paths, err := s.dialogueRepo.List()
	if err != nil {
		return "", err
	}
	processed, err := s.audioRepo.ProcessedIDs()
	if err != nil {
		return "", err
	}

	for _, path := range paths {
		if id, ok := lessonrepo.ExtractDialogueID(path); ok && !processed[id] {
			return id, nil
		}
	}
	return "", fmt.Errorf("every dialogue already has audio")
}

// RenameAudio renames stitched audio files after their dialogue's topic
// word, <topic_word>_<id>.mp3, and returns how many files moved. IDs stay
// extractable from the new names, so timelines keep resolving.
func (s *Service) RenameAudio(ctx context.Context) (int, error) {
	paths, err := s.audioRepo.List()
	if err != nil {
		return 0, err
	}

	renamed := 0
	for _, path := range paths {
		base := filepath.Base(path)
		if !strings.HasPrefix(base, "dialogue_") {
			continue
		}
		id, ok := lessonrepo.ExtractID(base)
		if !ok {
			continue
		}

		d, err := s.dialogueRepo.FindByID(id)
		if err != nil || d.TopicWord == "" {
			continue
		}

		stem := dialogtools.SanitizeFilename(d.TopicWord)
		newPath, err := s.audioRepo.Rename(path, stem, id)
		if err != nil {
			return renamed, err
		}
		log.Info().Str("from", base).Str("to", filepath.Base(newPath)).Msg("renamed audio")
		renamed++
	}
	return renamed, nil
}
