package lesson

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"

	lessonrepo "lingoreel/internal/repository/lesson"
)

// settleDelay gives the writer time to finish the dialogue document
// before processing starts; Create fires on the first byte.
const settleDelay = 500 * time.Millisecond

// Watch processes new dialogue documents as they appear: each created
// *.json in the dialogues directory runs audio, timeline, subtitle and
// video in turn. Dialogues are handled one at a time, in arrival order,
// and a failed dialogue is logged and skipped so the watcher keeps
// running. Watch blocks until ctx is canceled.
func (s *Service) Watch(ctx context.Context) error {
	dir := s.cfg.App.DialoguesDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dialogues dir: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	log.Info().Str("dir", dir).Msg("watching for new dialogues")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error().Err(err).Msg("watcher error")
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) || !strings.HasSuffix(event.Name, ".json") {
				continue
			}

			id, ok := lessonrepo.ExtractDialogueID(event.Name)
			if !ok {
				log.Warn().Str("file", filepath.Base(event.Name)).
					Msg("ignoring file without a dialogue id")
				continue
			}

			time.Sleep(settleDelay)
			if err := s.processDialogue(ctx, id); err != nil {
				log.Error().Err(err).Str("dialogue_id", id).
					Msg("dialogue processing failed")
			}
		}
	}
}

// processDialogue runs the post-dialogue stages for one id.
func (s *Service) processDialogue(ctx context.Context, id string) error {
	log.Info().Str("dialogue_id", id).Msg("processing new dialogue")

	audioPath, err := s.SynthesizeDialogue(ctx, id)
	if err != nil {
		return fmt.Errorf("audio stage: %w", err)
	}
	if _, err := s.BuildTimeline(ctx, audioPath, false, false); err != nil {
		return fmt.Errorf("timeline stage: %w", err)
	}
	if _, err := s.StripPunctuation(ctx, id); err != nil {
		return fmt.Errorf("subtitle stage: %w", err)
	}
	if _, err := s.AssembleVideo(ctx, audioPath, VideoOptions{}); err != nil {
		return fmt.Errorf("video stage: %w", err)
	}
	return nil
}
