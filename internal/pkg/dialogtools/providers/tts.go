package providers

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"lingoreel/internal/config"
	"lingoreel/internal/model/lesson"
	"lingoreel/internal/pkg/dialogtools"
	"lingoreel/internal/pkg/elevenlabs"
	"lingoreel/internal/pkg/volcano"
)

// ElevenLabsSynthesizer maps speech requests onto the ElevenLabs voice
// API: speaker to voice id, language to language code, the voice tuning
// from config.
type ElevenLabsSynthesizer struct {
	client *elevenlabs.Client
	cfg    *config.ElevenLabsTTSConfig
}

func NewElevenLabsSynthesizer(client *elevenlabs.Client, cfg *config.ElevenLabsTTSConfig) *ElevenLabsSynthesizer {
	return &ElevenLabsSynthesizer{client: client, cfg: cfg}
}

func (s *ElevenLabsSynthesizer) Synthesize(ctx context.Context, req dialogtools.SpeechRequest) ([]byte, error) {
	voiceID := s.cfg.VoiceMira
	if req.Speaker.Gender() == lesson.GenderMale {
		voiceID = s.cfg.VoiceMichael
	}

	audio, err := s.client.Synthesize(ctx, elevenlabs.SynthesizeRequest{
		Text:         req.Text,
		VoiceID:      voiceID,
		LanguageCode: req.LanguageCode,
		Settings: elevenlabs.VoiceSettings{
			Stability:       s.cfg.Stability,
			SimilarityBoost: s.cfg.SimilarityBoost,
			Style:           s.cfg.Style,
			UseSpeakerBoost: s.cfg.SpeakerBoost,
			SpeakingRate:    s.cfg.SpeakingRate,
		},
	})
	if errors.Is(err, elevenlabs.ErrQuotaExceeded) {
		return nil, fmt.Errorf("elevenlabs: %w", dialogtools.ErrQuotaExceeded)
	}
	return audio, err
}

// VolcanoSynthesizer is the fallback engine adapter. The volcano API has
// a single speed knob instead of per-voice settings, so the configured
// speaking rate maps onto its speed ratio.
type VolcanoSynthesizer struct {
	client       *volcano.Client
	voiceMira    string
	voiceMichael string
	speedRatio   float64
}

func NewVolcanoSynthesizer(client *volcano.Client, cfg *config.FallbackTTSConfig, speedRatio float64) *VolcanoSynthesizer {
	return &VolcanoSynthesizer{
		client:       client,
		voiceMira:    cfg.VoiceMira,
		voiceMichael: cfg.VoiceMichael,
		speedRatio:   speedRatio,
	}
}

func (s *VolcanoSynthesizer) Synthesize(ctx context.Context, req dialogtools.SpeechRequest) ([]byte, error) {
	voice := s.voiceMira
	if req.Speaker.Gender() == lesson.GenderMale {
		voice = s.voiceMichael
	}
	return s.client.Synthesize(ctx, req.Text, voice, s.speedRatio)
}

// FallbackSynthesizer tries the primary engine until it reports an
// exhausted quota, then sends every remaining request to the fallback for
// the rest of the client's lifetime. Quota does not come back mid-run, so
// there is no point probing the primary again.
type FallbackSynthesizer struct {
	primary  dialogtools.SpeechSynthesizer
	fallback dialogtools.SpeechSynthesizer

	mu       sync.Mutex
	degraded bool
}

func NewFallbackSynthesizer(primary, fallback dialogtools.SpeechSynthesizer) *FallbackSynthesizer {
	return &FallbackSynthesizer{primary: primary, fallback: fallback}
}

func (s *FallbackSynthesizer) Synthesize(ctx context.Context, req dialogtools.SpeechRequest) ([]byte, error) {
	s.mu.Lock()
	degraded := s.degraded
	s.mu.Unlock()

	if degraded {
		return s.fallback.Synthesize(ctx, req)
	}

	audio, err := s.primary.Synthesize(ctx, req)
	if err == nil || !errors.Is(err, dialogtools.ErrQuotaExceeded) {
		return audio, err
	}

	log.Warn().Msg("primary TTS quota exhausted, switching to fallback engine")
	s.mu.Lock()
	s.degraded = true
	s.mu.Unlock()
	return s.fallback.Synthesize(ctx, req)
}

// NewSpeechSynthesizer builds the synthesis chain from config: ElevenLabs
// as the primary, wrapped with the volcano fallback when enabled.
func NewSpeechSynthesizer(cfg *config.TTSConfig, sttCfg *config.STTConfig) (dialogtools.SpeechSynthesizer, error) {
	client := elevenlabs.NewClient(&cfg.ElevenLabs, sttCfg)
	primary := NewElevenLabsSynthesizer(client, &cfg.ElevenLabs)

	if !cfg.Fallback.Enabled {
		return primary, nil
	}

	volcanoClient, err := volcano.NewClient(&cfg.Fallback)
	if err != nil {
		return nil, fmt.Errorf("create fallback tts client: %w", err)
	}
	fallback := NewVolcanoSynthesizer(volcanoClient, &cfg.Fallback, cfg.ElevenLabs.SpeakingRate)
	return NewFallbackSynthesizer(primary, fallback), nil
}

// ElevenLabsTranscriber adapts the speech-to-text API to the dialogtools
// Transcriber interface, returning word tokens only.
type ElevenLabsTranscriber struct {
	client       *elevenlabs.Client
	languageCode string
}

func NewElevenLabsTranscriber(client *elevenlabs.Client, cfg *config.STTConfig) *ElevenLabsTranscriber {
	return &ElevenLabsTranscriber{client: client, languageCode: cfg.LanguageCode}
}

func (t *ElevenLabsTranscriber) Transcribe(ctx context.Context, audioPath string) ([]lesson.WordStamp, error) {
	transcript, err := t.client.Transcribe(ctx, audioPath, t.languageCode)
	if err != nil {
		return nil, err
	}

	words := transcript.WordsOnly()
	stamps := make([]lesson.WordStamp, len(words))
	for i, w := range words {
		stamps[i] = lesson.WordStamp{Word: w.Text, Start: w.Start, End: w.End}
	}
	return stamps, nil
}

// NewTranscriber builds the speech-recognition provider from config.
func NewTranscriber(ttsCfg *config.ElevenLabsTTSConfig, sttCfg *config.STTConfig) *ElevenLabsTranscriber {
	client := elevenlabs.NewClient(ttsCfg, sttCfg)
	return NewElevenLabsTranscriber(client, sttCfg)
}
