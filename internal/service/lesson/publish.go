package lesson

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// PublishVideo uploads one finished video to the configured storage
// backend and returns its access URL.
func (s *Service) PublishVideo(ctx context.Context, videoPath string) (string, error) {
	if s.store == nil {
		return "", fmt.Errorf("storage backend is not configured")
	}

	f, err := os.Open(videoPath)
	if err != nil {
		return "", fmt.Errorf("open video: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("stat video: %w", err)
	}

	key := "videos/" + filepath.Base(videoPath)
	url, err := s.store.Upload(ctx, key, f, stat.Size(), "video/mp4")
	if err != nil {
		return "", fmt.Errorf("upload video: %w", err)
	}

	log.Info().
		Str("key", key).
		Str("backend", s.store.Type()).
		Str("url", url).
		Msg("video published")
	return url, nil
}

// PublishAll uploads every finished video in the output directory and
// returns the access URLs in upload order.
func (s *Service) PublishAll(ctx context.Context) ([]string, error) {
	videos, err := filepath.Glob(filepath.Join(s.cfg.App.OutputDir, "*.mp4"))
	if err != nil {
		return nil, fmt.Errorf("glob output videos: %w", err)
	}
	if len(videos) == 0 {
		return nil, fmt.Errorf("no videos under %s", s.cfg.App.OutputDir)
	}

	urls := make([]string, 0, len(videos))
	for _, video := range videos {
		url, err := s.PublishVideo(ctx, video)
		if err != nil {
			return urls, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}
