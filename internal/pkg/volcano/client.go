package volcano

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"lingoreel/internal/config"
	"lingoreel/internal/pkg/id"
)

const (
	defaultAPIURL     = "https://openspeech.bytedance.com/api/v1/tts"
	defaultCluster    = "volcano_tts"
	defaultSampleRate = 44100
	successCode       = 3000
)

// Client calls the volcano engine openspeech TTS API. It is the fallback
// synthesis engine: once the primary provider runs out of quota, the rest
// of the dialogue is rendered through it.
type Client struct {
	apiURL      string
	accessToken string
	appID       string
	cluster     string
	sampleRate  int
	httpClient  *http.Client
}

// NewClient creates a fallback TTS client from config.
func NewClient(cfg *config.FallbackTTSConfig) (*Client, error) {
	if cfg.AccessToken == "" {
		return nil, fmt.Errorf("volcano access token is required")
	}

	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	cluster := cfg.Cluster
	if cluster == "" {
		cluster = defaultCluster
	}
	sampleRate := cfg.SampleRate
	if sampleRate == 0 {
		sampleRate = defaultSampleRate
	}

	return &Client{
		apiURL:      apiURL,
		accessToken: cfg.AccessToken,
		appID:       cfg.AppID,
		cluster:     cluster,
		sampleRate:  sampleRate,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}, nil
}

type appPayload struct {
	Token   string `json:"token"`
	Cluster string `json:"cluster"`
	AppID   string `json:"appid,omitempty"`
}

type audioPayload struct {
	VoiceType   string  `json:"voice_type"`
	Encoding    string  `json:"encoding"`
	Rate        int     `json:"rate"`
	SpeedRatio  float64 `json:"speed_ratio"`
	VolumeRatio float64 `json:"volume_ratio"`
	PitchRatio  float64 `json:"pitch_ratio"`
}

type requestPayload struct {
	ReqID     string `json:"reqid"`
	Text      string `json:"text"`
	TextType  string `json:"text_type"`
	Operation string `json:"operation"`
}

type synthesizeBody struct {
	App     appPayload        `json:"app"`
	User    map[string]string `json:"user"`
	Audio   audioPayload      `json:"audio"`
	Request requestPayload    `json:"request"`
}

type synthesizeResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data"` // base64 mp3
}

// Synthesize converts text to mp3 audio with the given voice. speedRatio
// 1.0 is the natural pace; lessons use a slower one.
func (c *Client) Synthesize(ctx context.Context, text, voiceType string, speedRatio float64) ([]byte, error) {
	if voiceType == "" {
		return nil, fmt.Errorf("voice type is required")
	}
	if speedRatio <= 0 {
		speedRatio = 1.0
	}

	requestID := id.New()
	body, err := json.Marshal(synthesizeBody{
		App: appPayload{
			Token:   c.accessToken,
			Cluster: c.cluster,
			AppID:   c.appID,
		},
		User: map[string]string{"uid": requestID},
		Audio: audioPayload{
			VoiceType:   voiceType,
			Encoding:    "mp3",
			Rate:        c.sampleRate,
			SpeedRatio:  speedRatio,
			VolumeRatio: 1.0,
			PitchRatio:  1.0,
		},
		Request: requestPayload{
			ReqID:     requestID,
			Text:      text,
			TextType:  "plain",
			Operation: "query",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	// The openspeech API wants a semicolon between scheme and token.
	req.Header.Set("Authorization", fmt.Sprintf("Bearer; %s", c.accessToken))
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("synthesis failed: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	var apiResp synthesizeResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if apiResp.Code != successCode {
		msg := apiResp.Message
		if msg == "" {
			msg = "unknown error"
		}
		return nil, fmt.Errorf("synthesis failed: %s (code %d)", msg, apiResp.Code)
	}

	audio, err := base64.StdEncoding.DecodeString(apiResp.Data)
	if err != nil {
		return nil, fmt.Errorf("decode audio: %w", err)
	}

	log.Debug().
		Str("request_id", requestID).
		Str("voice_type", voiceType).
		Int("audio_bytes", len(audio)).
		Msg("fallback synthesis complete")
	return audio, nil
}
