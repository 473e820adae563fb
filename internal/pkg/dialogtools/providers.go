package dialogtools

import (
	"context"
	"errors"

	"lingoreel/internal/model/lesson"
)

// ErrQuotaExceeded is returned by a SpeechSynthesizer once its hosted API
// reports an exhausted character quota. Callers switch to the fallback
// synthesizer for the remainder of the run when they see it.
var ErrQuotaExceeded = errors.New("speech synthesis quota exceeded")

// LLMProvider generates text from a prompt.
//
// Args:
//   - ctx: context
//   - prompt: the full prompt text
//
// Returns:
//   - string: the model's response text
//   - error: transport or model error
type LLMProvider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// SpeechRequest describes one segment of dialogue audio to synthesize.
type SpeechRequest struct {
	Text         string
	Speaker      lesson.Speaker
	LanguageCode string // "en" or "vi"
}

// SpeechSynthesizer converts one text segment into encoded audio (mp3).
// Implementations map the speaker onto a configured voice.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, req SpeechRequest) ([]byte, error)
}

// Transcriber runs speech recognition over a stitched dialogue recording
// and returns word-level timestamps in seconds.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) ([]lesson.WordStamp, error)
}
