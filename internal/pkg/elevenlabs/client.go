package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"lingoreel/internal/config"
)

const (
	defaultBaseURL    = "https://api.elevenlabs.io"
	defaultTTSModel   = "eleven_flash_v2_5"
	defaultSTTModel   = "scribe_v1"
	defaultSTTTimeout = 10 * time.Minute
)

// ErrQuotaExceeded is returned when the API rejects a synthesis request
// because the account's character quota is used up. Callers switch to the
// fallback engine when they see it.
var ErrQuotaExceeded = errors.New("elevenlabs: character quota exceeded")

// Client calls the ElevenLabs speech APIs: text-to-speech for dialogue
// audio and speech-to-text for word-level timestamps. ElevenLabs ships no
// Go SDK, so both calls are plain HTTP.
type Client struct {
	apiKey     string
	sttAPIKey  string
	baseURL    string
	sttBaseURL string
	ttsModelID string
	sttModelID string
	httpClient *http.Client
	sttClient  *http.Client
}

// NewClient creates a client from the TTS and STT config groups. The STT
// key falls back to the TTS key when unset, which is the common case of a
// single ElevenLabs account used for both directions.
func NewClient(ttsCfg *config.ElevenLabsTTSConfig, sttCfg *config.STTConfig) *Client {
	baseURL := ttsCfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	sttBaseURL := sttCfg.BaseURL
	if sttBaseURL == "" {
		sttBaseURL = baseURL
	}

	sttKey := sttCfg.APIKey
	if sttKey == "" {
		sttKey = ttsCfg.APIKey
	}

	ttsModel := ttsCfg.ModelID
	if ttsModel == "" {
		ttsModel = defaultTTSModel
	}
	sttModel := sttCfg.ModelID
	if sttModel == "" {
		sttModel = defaultSTTModel
	}

	sttTimeout := sttCfg.Timeout
	if sttTimeout <= 0 {
		sttTimeout = defaultSTTTimeout
	}

	return &Client{
		apiKey:     ttsCfg.APIKey,
		sttAPIKey:  sttKey,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		sttBaseURL: strings.TrimSuffix(sttBaseURL, "/"),
		ttsModelID: ttsModel,
		sttModelID: sttModel,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		sttClient:  &http.Client{Timeout: sttTimeout},
	}
}

// VoiceSettings tunes the synthesis voice. Zero values are sent as-is; the
// caller fills them from config.
type VoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
	SpeakingRate    float64 `json:"speed,omitempty"`
}

// SynthesizeRequest is one text-to-speech call.
type SynthesizeRequest struct {
	Text         string
	VoiceID      string
	LanguageCode string // "en", "vi"; empty omits the field
	Settings     VoiceSettings
}

type synthesizeBody struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	LanguageCode  string        `json:"language_code,omitempty"`
	VoiceSettings VoiceSettings `json:"voice_settings"`
}

// Synthesize converts one text segment to mp3 audio.
func (c *Client) Synthesize(ctx context.Context, req SynthesizeRequest) ([]byte, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("elevenlabs api key is required")
	}
	if req.VoiceID == "" {
		return nil, fmt.Errorf("voice id is required")
	}

	body, err := json.Marshal(synthesizeBody{
		Text:          req.Text,
		ModelID:       c.ttsModelID,
		LanguageCode:  req.LanguageCode,
		VoiceSettings: req.Settings,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s", c.baseURL, req.VoiceID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("xi-api-key", c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "audio/mpeg")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if resp.StatusCode == http.StatusUnauthorized && strings.Contains(string(respBody), "quota_exceeded") {
			return nil, ErrQuotaExceeded
		}
		return nil, fmt.Errorf("synthesis failed: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}

	log.Debug().
		Str("voice_id", req.VoiceID).
		Str("language", req.LanguageCode).
		Int("text_len", len(req.Text)).
		Int("audio_bytes", len(audio)).
		Msg("synthesized segment")
	return audio, nil
}

// TranscriptWord is one recognized token with its time span in seconds.
// The API also emits "spacing" and "audio_event" tokens; callers usually
// want type "word" only.
type TranscriptWord struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Type  string  `json:"type"`
}

// Transcript is the speech-to-text response.
type Transcript struct {
	LanguageCode string           `json:"language_code"`
	Text         string           `json:"text"`
	Words        []TranscriptWord `json:"words"`
}

// WordsOnly returns the tokens of type "word", dropping spacing and audio
// event markers.
func (t *Transcript) WordsOnly() []TranscriptWord {
	words := make([]TranscriptWord, 0, len(t.Words))
	for _, w := range t.Words {
		if w.Type == "word" {
			words = append(words, w)
		}
	}
	return words
}

// Transcribe uploads an audio file for speech recognition and returns the
// transcript with word-level timestamps. languageCode "" or "auto" lets
// the API detect the language.
func (c *Client) Transcribe(ctx context.Context, audioPath, languageCode string) (*Transcript, error) {
	if c.sttAPIKey == "" {
		return nil, fmt.Errorf("elevenlabs api key is required")
	}

	f, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("open audio: %w", err)
	}
	defer f.Close()

	// Stream the multipart body through a pipe so large recordings never
	// sit in memory twice.
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		err := writeTranscribeForm(mw, f, audioPath, c.sttModelID, languageCode)
		mw.Close()
		pw.CloseWithError(err)
	}()

	url := c.sttBaseURL + "/v1/speech-to-text"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, pr)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("xi-api-key", c.sttAPIKey)
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.sttClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("transcription failed: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	var transcript Transcript
	if err := json.NewDecoder(resp.Body).Decode(&transcript); err != nil {
		return nil, fmt.Errorf("decode transcript: %w", err)
	}

	log.Info().
		Str("audio", filepath.Base(audioPath)).
		Str("language", transcript.LanguageCode).
		Int("words", len(transcript.WordsOnly())).
		Msg("transcription complete")
	return &transcript, nil
}

func writeTranscribeForm(mw *multipart.Writer, f *os.File, audioPath, modelID, languageCode string) error {
	if err := mw.WriteField("model_id", modelID); err != nil {
		return err
	}
	if languageCode != "" && !strings.EqualFold(languageCode, "auto") {
		if err := mw.WriteField("language_code", languageCode); err != nil {
			return err
		}
	}
	if err := mw.WriteField("timestamps_granularity", "word"); err != nil {
		return err
	}
	if err := mw.WriteField("tag_audio_events", "false"); err != nil {
		return err
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename="%s"`, filepath.Base(audioPath)))
	h.Set("Content-Type", "audio/mpeg")
	part, err := mw.CreatePart(h)
	if err != nil {
		return err
	}
	_, err = io.Copy(part, f)
	return err
}
