package ffmpeg

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// Client wraps the ffmpeg and ffprobe command-line tools. Binary paths
// come from the FFMPEG_PATH and FFPROBE_PATH environment variables and
// default to whatever is on PATH.
type Client struct {
	ffmpegPath  string
	ffprobePath string
}

// NewClient creates an ffmpeg client.
func NewClient() *Client {
	ffmpegPath := os.Getenv("FFMPEG_PATH")
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}

	ffprobePath := os.Getenv("FFPROBE_PATH")
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}

	return &Client{
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
	}
}

// VideoInfo describes a video stream.
type VideoInfo struct {
	Width    int
	Height   int
	FPS      float64
	Duration float64 // seconds
}

// AudioInfo describes an audio file.
type AudioInfo struct {
	Duration float64 // seconds
}

// probeOutput matches the ffprobe -of json layout for the fields we ask
// for.
type probeOutput struct {
	Streams []struct {
		Width      int    `json:"width"`
		Height     int    `json:"height"`
		RFrameRate string `json:"r_frame_rate"` // "30000/1001"
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// GetVideoInfo probes a video file for dimensions, frame rate and
// duration.
func (c *Client) GetVideoInfo(ctx context.Context, videoPath string) (*VideoInfo, error) {
	cmd := exec.CommandContext(ctx, c.ffprobePath,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height,r_frame_rate",
		"-show_entries", "format=duration",
		"-of", "json",
		videoPath,
	)

	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}

	var probe probeOutput
	if err := json.Unmarshal(output, &probe); err != nil {
		return nil, fmt.Errorf("parse ffprobe output: %w", err)
	}
	if len(probe.Streams) == 0 {
		return nil, fmt.Errorf("no video stream in %s", videoPath)
	}

	info := &VideoInfo{
		Width:  probe.Streams[0].Width,
		Height: probe.Streams[0].Height,
	}
	if d, err := strconv.ParseFloat(probe.Format.Duration, 64); err == nil {
		info.Duration = d
	}
	if num, den, ok := strings.Cut(probe.Streams[0].RFrameRate, "/"); ok {
		n, errN := strconv.ParseFloat(num, 64)
		d, errD := strconv.ParseFloat(den, 64)
		if errN == nil && errD == nil && d > 0 {
			info.FPS = n / d
		}
	}
	return info, nil
}

// GetAudioInfo probes an audio file for its duration.
func (c *Client) GetAudioInfo(ctx context.Context, audioPath string) (*AudioInfo, error) {
	cmd := exec.CommandContext(ctx, c.ffprobePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "json",
		audioPath,
	)

	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}

	var probe probeOutput
	if err := json.Unmarshal(output, &probe); err != nil {
		return nil, fmt.Errorf("parse ffprobe output: %w", err)
	}

	info := &AudioInfo{}
	if d, err := strconv.ParseFloat(probe.Format.Duration, 64); err == nil {
		info.Duration = d
	}
	return info, nil
}

// StitchSegment is one audio part of a stitched dialogue recording, with
// the silence to insert after it.
type StitchSegment struct {
	Path         string
	SilenceAfter float64 // seconds; 0 appends nothing
}

// StitchSegments concatenates audio segments with silence gaps into one
// mp3, applying a volume gain in a single encoding pass. Silence comes
// from lavfi anullsrc inputs so no temp files are needed for the gaps.
func (c *Client) StitchSegments(ctx context.Context, segments []StitchSegment, gainDB float64, outputPath string) error {
	if len(segments) == 0 {
		return fmt.Errorf("no segments to stitch")
	}

	var args []string
	var refs strings.Builder
	inputIdx := 0
	count := 0
	for i, seg := range segments {
		args = append(args, "-i", seg.Path)
		refs.WriteString(fmt.Sprintf("[%d:a]", inputIdx))
		inputIdx++
		count++

		if seg.SilenceAfter > 0 && i < len(segments)-1 {
			args = append(args,
				"-f", "lavfi",
				"-t", fmt.Sprintf("%.3f", seg.SilenceAfter),
				"-i", "anullsrc=r=44100:cl=mono",
			)
			refs.WriteString(fmt.Sprintf("[%d:a]", inputIdx))
			inputIdx++
			count++
		}
	}

	filter := fmt.Sprintf("%sconcat=n=%d:v=0:a=1[cat];[cat]volume=%gdB[out]",
		refs.String(), count, gainDB)

	args = append(args,
		"-filter_complex", filter,
		"-map", "[out]",
		"-c:a", "libmp3lame",
		"-q:a", "2",
		"-y", outputPath,
	)

	cmd := exec.CommandContext(ctx, c.ffmpegPath, args...)
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg stitch failed: %w", err)
	}

	log.Info().
		Int("segments", len(segments)).
		Str("output", filepath.Base(outputPath)).
		Msg("stitched audio segments")
	return nil
}

// TrimAudio writes the first `seconds` of an audio file to outputPath
// without re-encoding. Test renders use it to cap the audio at a preview
// length.
func (c *Client) TrimAudio(ctx context.Context, inputPath string, seconds float64, outputPath string) error {
	cmd := exec.CommandContext(ctx, c.ffmpegPath,
		"-i", inputPath,
		"-t", fmt.Sprintf("%.3f", seconds),
		"-c", "copy",
		"-y", outputPath,
	)
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg trim failed: %w", err)
	}

	log.Info().
		Str("output", filepath.Base(outputPath)).
		Float64("seconds", seconds).
		Msg("trimmed audio")
	return nil
}

// Overlay is one still image composited over the background while its
// speaker talks. Windows are [start, end) pairs in seconds.
type Overlay struct {
	ImagePath string
	Right     bool // anchor bottom-right instead of bottom-left
	Windows   [][2]float64
}

// RenderSpec describes one vertical-video render pass.
type RenderSpec struct {
	BackgroundPath string
	BackgroundInfo *VideoInfo
	StartOffset    float64 // seek into the background footage
	Duration       float64
	AudioPath      string
	SubtitlePath   string // optional srt to burn in
	Overlays       []Overlay

	FontName string
	FontSize int
	MarginV  int
	Preset   string
	CRF      int
}

// RenderShort composites the final vertical video in a single encoding
// pass: background footage cropped or padded to 9:16, timed speaker
// overlays, burned-in subtitles and the dialogue audio track.
func (c *Client) RenderShort(ctx context.Context, spec RenderSpec, outputPath string) error {
	if spec.BackgroundInfo == nil {
		return fmt.Errorf("background info is required")
	}

	args := renderArgs(spec, outputPath)
	cmd := exec.CommandContext(ctx, c.ffmpegPath, args...)
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg render failed: %w", err)
	}

	log.Info().
		Str("output", filepath.Base(outputPath)).
		Float64("duration", spec.Duration).
		Int("overlays", len(spec.Overlays)).
		Msg("rendered video")
	return nil
}

// verticalFilter crops wide footage to a centered 9:16 window, or pads
// narrow footage with black bars.
func verticalFilter(width, height int) string {
	targetWidth := height * 9 / 16
	if width >= targetWidth {
		return fmt.Sprintf("crop=%d:%d:(iw-%d)/2:0", targetWidth, height, targetWidth)
	}
	return fmt.Sprintf("pad=%d:%d:(%d-iw)/2:0:black", targetWidth, height, targetWidth)
}

// enableExpr renders overlay display windows as an ffmpeg enable
// expression: between(t,a,b)+between(t,c,d)+...
func enableExpr(windows [][2]float64) string {
	if len(windows) == 0 {
		return "0"
	}
	parts := make([]string, len(windows))
	for i, w := range windows {
		parts[i] = fmt.Sprintf("between(t,%.2f,%.2f)", w[0], w[1])
	}
	return strings.Join(parts, "+")
}

func subtitleStyle(spec RenderSpec) string {
	return fmt.Sprintf(
		"FontName=%s,Fontsize=%d,PrimaryColour=&HFFFFFF,OutlineColour=&H000000,BackColour=&H000000,BorderStyle=1,Outline=1,Shadow=0,MarginV=%d",
		spec.FontName, spec.FontSize, spec.MarginV)
}

// escapeFilterPath escapes the characters the subtitles filter treats
// specially inside a filtergraph.
func escapeFilterPath(path string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`,
		":", `\:`,
		"'", `\'`,
		"[", `\[`,
		"]", `\]`,
		",", `\,`,
		";", `\;`,
	)
	return replacer.Replace(path)
}

func renderArgs(spec RenderSpec, outputPath string) []string {
	args := []string{
		"-ss", fmt.Sprintf("%.3f", spec.StartOffset),
		"-t", fmt.Sprintf("%.3f", spec.Duration),
		"-i", spec.BackgroundPath,
	}
	for _, ov := range spec.Overlays {
		args = append(args, "-i", ov.ImagePath)
	}
	audioIdx := 1 + len(spec.Overlays)
	args = append(args, "-i", spec.AudioPath)

	var filter strings.Builder
	filter.WriteString("[0:v]")
	filter.WriteString(verticalFilter(spec.BackgroundInfo.Width, spec.BackgroundInfo.Height))
	filter.WriteString("[bg]")

	last := "bg"
	for i, ov := range spec.Overlays {
		scaled := fmt.Sprintf("ov%d", i)
		out := fmt.Sprintf("v%d", i)
		filter.WriteString(fmt.Sprintf(";[%d:v]scale=800:-1[%s]", i+1, scaled))

		x := "0"
		if ov.Right {
			x = "W-w"
		}
		filter.WriteString(fmt.Sprintf(";[%s][%s]overlay=x=%s:y=H-h:enable='%s'[%s]",
			last, scaled, x, enableExpr(ov.Windows), out))
		last = out
	}

	if spec.SubtitlePath != "" {
		filter.WriteString(fmt.Sprintf(";[%s]subtitles=%s:force_style='%s'[vout]",
			last, escapeFilterPath(spec.SubtitlePath), subtitleStyle(spec)))
		last = "vout"
	}

	args = append(args,
		"-filter_complex", filter.String(),
		"-map", "["+last+"]",
		"-map", fmt.Sprintf("%d:a", audioIdx),
		"-c:v", "libx264",
		"-preset", spec.Preset,
		"-crf", strconv.Itoa(spec.CRF),
		"-c:a", "aac",
		"-shortest",
		"-y", outputPath,
	)
	return args
}
