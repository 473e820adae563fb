package lesson

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"lingoreel/internal/model/lesson"
	"lingoreel/internal/pkg/dialogtools"
	"lingoreel/internal/pkg/ffmpeg"
	lessonrepo "lingoreel/internal/repository/lesson"
)

// testPreviewSeconds caps test-mode renders so a full pipeline check
// finishes in seconds.
const testPreviewSeconds = 10.0

// VideoOptions tune one video assembly run.
type VideoOptions struct {
	// Test renders only the first few seconds.
	Test bool
	// Output overrides the default output/background_<id>.mp4 path.
	Output string
}

// AssembleVideo renders the final vertical video for a stitched
// recording: random gameplay background, burned-in subtitles and speaker
// photo overlays. An empty audioPath picks a random recording.
func (s *Service) AssembleVideo(ctx context.Context, audioPath string, opts VideoOptions) (string, error) {
	if s.ff == nil {
		return "", fmt.Errorf("ffmpeg client is not configured")
	}

	if audioPath == "" {
		var err error
		audioPath, err = s.randomAudio()
		if err != nil {
			return "", err
		}
	}
	id, ok := lessonrepo.ExtractID(audioPath)
	if !ok {
		return "", fmt.Errorf("no dialogue id in audio filename %s", audioPath)
	}

	timeline, err := s.subtitleTimeline(ctx, id)
	if err != nil {
		return "", fmt.Errorf("load subtitle timeline: %w", err)
	}

	audioInfo, err := s.ff.GetAudioInfo(ctx, audioPath)
	if err != nil {
		return "", fmt.Errorf("probe audio: %w", err)
	}
	duration := audioInfo.Duration

	cutoff := 0.0
	if opts.Test && duration > testPreviewSeconds {
		cutoff = testPreviewSeconds
		duration = testPreviewSeconds

		trimmed := filepath.Join(os.TempDir(), fmt.Sprintf("lingoreel_preview_%s.mp3", id))
		if err := s.ff.TrimAudio(ctx, audioPath, testPreviewSeconds, trimmed); err != nil {
			return "", err
		}
		defer os.Remove(trimmed)
		audioPath = trimmed
	}

	background, backgroundInfo, start, err := s.pickBackground(ctx, duration)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.cfg.App.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	srt := dialogtools.NewSRTGenerator(0).Generate(timeline.Dialogue, cutoff)
	srtPath := filepath.Join(s.cfg.App.OutputDir, "subtitles_"+id+".srt")
	if err := os.WriteFile(srtPath, []byte(srt), 0o644); err != nil {
		return "", fmt.Errorf("write subtitles: %w", err)
	}

	outputPath := opts.Output
	if outputPath == "" {
		outputPath = filepath.Join(s.cfg.App.OutputDir, "background_"+id+".mp4")
	}

	spec := ffmpeg.RenderSpec{
		BackgroundPath: background,
		BackgroundInfo: backgroundInfo,
		StartOffset:    start,
		Duration:       duration,
		AudioPath:      audioPath,
		SubtitlePath:   srtPath,
		Overlays:       s.speakerOverlays(timeline.Dialogue, cutoff),
		FontName:       s.cfg.Video.Font,
		FontSize:       s.cfg.Video.FontSize,
		MarginV:        s.cfg.Video.MarginV,
		Preset:         s.cfg.Video.Preset,
		CRF:            s.cfg.Video.CRF,
	}
	if err := s.ff.RenderShort(ctx, spec, outputPath); err != nil {
		return "", err
	}

	log.Info().
		Str("dialogue_id", id).
		Str("background", filepath.Base(background)).
		Float64("duration", duration).
		Str("output", outputPath).
		Msg("video assembled")
	return outputPath, nil
}

func (s *Service) randomAudio() (string, error) {
	paths, err := s.audioRepo.List()
	if err != nil {
		return "", err
	}
	if len(paths) == 0 {
		return "", fmt.Errorf("no stitched audio under %s", s.cfg.App.AudioDir())
	}
	return paths[rand.IntN(len(paths))], nil
}

// pickBackground chooses a random gameplay clip and a random start offset
// inside it, keeping clear of the clip's intro and its final stretch.
func (s *Service) pickBackground(ctx context.Context, audioDuration float64) (string, *ffmpeg.VideoInfo, float64, error) {
	pool, err := filepath.Glob(filepath.Join(s.cfg.App.VideosDir(), "*.mp4"))
	if err != nil {
		return "", nil, 0, fmt.Errorf("glob backgrounds: %w", err)
	}
	if len(pool) == 0 {
		return "", nil, 0, fmt.Errorf("no background footage under %s", s.cfg.App.VideosDir())
	}
	background := pool[rand.IntN(len(pool))]

	info, err := s.ff.GetVideoInfo(ctx, background)
	if err != nil {
		return "", nil, 0, fmt.Errorf("probe background: %w", err)
	}

	leadIn := s.cfg.Video.LeadInMin
	window := info.Duration - audioDuration - s.cfg.Video.TailReserve - leadIn
	if window <= 0 {
		return "", nil, 0, fmt.Errorf("background %s is too short: %.0fs footage for %.0fs audio",
			filepath.Base(background), info.Duration, audioDuration)
	}

	start := leadIn + rand.Float64()*window
	return background, info, start, nil
}

// speakerOverlays builds one overlay per character photo that exists,
// visible while that character speaks. Contiguous same-speaker phrases
// merge into one display window.
func (s *Service) speakerOverlays(phrases []lesson.Phrase, cutoff float64) []ffmpeg.Overlay {
	windows := map[string][][2]float64{}
	for _, p := range phrases {
		start, end := p.StartTime, p.EndTime
		if cutoff > 0 {
			if start >= cutoff {
				continue
			}
			if end > cutoff {
				end = cutoff
			}
		}

		spans := windows[p.Speaker]
		if n := len(spans); n > 0 && start-spans[n-1][1] < 0.25 {
			spans[n-1][1] = end
		} else {
			spans = append(spans, [2]float64{start, end})
		}
		windows[p.Speaker] = spans
	}

	var overlays []ffmpeg.Overlay
	for _, speaker := range []lesson.Speaker{lesson.SpeakerMira, lesson.SpeakerMichael} {
		photo := filepath.Join(s.cfg.App.PhotoDir(), speakerPhoto(speaker))
		if _, err := os.Stat(photo); err != nil {
			log.Debug().Str("photo", photo).Msg("speaker photo missing, overlay skipped")
			continue
		}
		spans := windows[speaker.String()]
		if len(spans) == 0 {
			continue
		}
		overlays = append(overlays, ffmpeg.Overlay{
			ImagePath: photo,
			Right:     speaker == lesson.SpeakerMichael,
			Windows:   spans,
		})
	}
	return overlays
}

func speakerPhoto(speaker lesson.Speaker) string {
	if speaker == lesson.SpeakerMira {
		return "mira.png"
	}
	return "michael.png"
}
