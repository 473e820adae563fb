package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"
)

// Config is the application configuration root.
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	AI      AIConfig      `mapstructure:"ai"`
	TTS     TTSConfig     `mapstructure:"tts"`
	STT     STTConfig     `mapstructure:"stt"`
	Video   VideoConfig   `mapstructure:"video"`
	Log     LogConfig     `mapstructure:"log"`
	Storage StorageConfig `mapstructure:"storage"`
}

// AppConfig holds the pipeline-wide settings: languages and the
// conventional directory layout every stage reads from and writes to.
type AppConfig struct {
	DataDir        string `mapstructure:"data_dir"`
	OutputDir      string `mapstructure:"output_dir"`
	TargetLanguage string `mapstructure:"target_language"`
	SourceLanguage string `mapstructure:"source_language"`
}

// VocabDir is where full vocabulary list documents live.
func (a *AppConfig) VocabDir() string { return filepath.Join(a.DataDir, "vocab") }

// DialoguesDir is where dialogue documents live.
func (a *AppConfig) DialoguesDir() string { return filepath.Join(a.DataDir, "dialogues") }

// AudioDir is where stitched audio and timeline documents live.
func (a *AppConfig) AudioDir() string { return filepath.Join(a.DataDir, "audio") }

// VideosDir is the background gameplay footage pool.
func (a *AppConfig) VideosDir() string { return filepath.Join(a.DataDir, "videos") }

// PhotoDir holds the speaker overlay photos (mira.png, michael.png).
func (a *AppConfig) PhotoDir() string { return filepath.Join(a.DataDir, "photo") }

// VocabLedgerPath is the words-only list of everything ever generated.
func (a *AppConfig) VocabLedgerPath() string { return filepath.Join(a.DataDir, "vocab_list.txt") }

// UsedWordsPath is the append-only ledger of consumed topic words.
func (a *AppConfig) UsedWordsPath() string { return filepath.Join(a.DataDir, "used_words.txt") }

// AIConfig configures the LLM used for vocabulary and dialogue generation.
type AIConfig struct {
	Provider   string          `mapstructure:"provider"` // openai, azure, ark
	APIKey     string          `mapstructure:"api_key"`
	Model      string          `mapstructure:"model"`
	BaseURL    string          `mapstructure:"base_url"`
	APIVersion string          `mapstructure:"api_version"` // azure only
	Options    AIOptionsConfig `mapstructure:"options"`
}

// AIOptionsConfig holds model sampling parameters. Temperature here is the
// default; generation stages override it per operation.
type AIOptionsConfig struct {
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	TopP        float64 `mapstructure:"top_p"`
}

// TTSConfig configures speech synthesis: the primary hosted voice API and
// the optional fallback engine used once the primary reports an exhausted
// quota.
type TTSConfig struct {
	ElevenLabs ElevenLabsTTSConfig `mapstructure:"elevenlabs"`
	Fallback   FallbackTTSConfig   `mapstructure:"fallback"`
	// Silence inserted between language segments within one line and
	// between speakers, in milliseconds.
	PauseMs        int `mapstructure:"pause_ms"`
	SpeakerPauseMs int `mapstructure:"speaker_pause_ms"`
}

// ElevenLabsTTSConfig holds the primary voice API settings.
type ElevenLabsTTSConfig struct {
	APIKey          string  `mapstructure:"api_key"`
	BaseURL         string  `mapstructure:"base_url"`
	ModelID         string  `mapstructure:"model_id"`
	VoiceMira       string  `mapstructure:"voice_mira"`
	VoiceMichael    string  `mapstructure:"voice_michael"`
	Stability       float64 `mapstructure:"stability"`
	SimilarityBoost float64 `mapstructure:"similarity_boost"`
	Style           float64 `mapstructure:"style"`
	SpeakerBoost    bool    `mapstructure:"speaker_boost"`
	SpeakingRate    float64 `mapstructure:"speaking_rate"`
	VolumeBoostDB   float64 `mapstructure:"volume_boost_db"`
}

// FallbackTTSConfig holds the volcano openspeech fallback settings.
type FallbackTTSConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	APIURL       string `mapstructure:"api_url"`
	AccessToken  string `mapstructure:"access_token"`
	AppID        string `mapstructure:"app_id"`
	Cluster      string `mapstructure:"cluster"`
	VoiceMira    string `mapstructure:"voice_mira"`
	VoiceMichael string `mapstructure:"voice_michael"`
	SampleRate   int    `mapstructure:"sample_rate"`
}

// STTConfig configures the hosted speech-to-text pass that refines the
// estimated timeline with real word timestamps.
type STTConfig struct {
	APIKey       string        `mapstructure:"api_key"` // empty: reuse tts.elevenlabs.api_key
	BaseURL      string        `mapstructure:"base_url"`
	ModelID      string        `mapstructure:"model_id"`
	LanguageCode string        `mapstructure:"language_code"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// VideoConfig configures the final vertical-video render.
type VideoConfig struct {
	Font     string `mapstructure:"font"`
	FontSize int    `mapstructure:"font_size"`
	MarginV  int    `mapstructure:"margin_v"`
	Preset   string `mapstructure:"preset"`
	CRF      int    `mapstructure:"crf"`
	// The random background window never starts inside the footage intro
	// and never uses its last TailReserve seconds.
	LeadInMin   float64 `mapstructure:"lead_in_min"`
	TailReserve float64 `mapstructure:"tail_reserve"`
}

// LogConfig configures zerolog.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	FilePath   string `mapstructure:"file_path"`
	TimeFormat string `mapstructure:"time_format"`
}

// StorageConfig configures where finished videos are published.
type StorageConfig struct {
	Type  string       `mapstructure:"type"` // local, oss
	Local *LocalConfig `mapstructure:"local,omitempty"`
	OSS   *OSSConfig   `mapstructure:"oss,omitempty"`
}

// LocalConfig is the filesystem publish target.
type LocalConfig struct {
	BasePath      string `mapstructure:"base_path"`
	BaseURL       string `mapstructure:"base_url"`
	PresignExpiry int    `mapstructure:"presign_expiry"` // seconds
}

// OSSConfig is the Aliyun OSS publish target.
type OSSConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	Bucket          string `mapstructure:"bucket"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	AccessKeySecret string `mapstructure:"access_key_secret"`
	PresignExpiry   int    `mapstructure:"presign_expiry"` // seconds
}

// Validate checks configuration consistency.
func (c *Config) Validate() error {
	validProviders := map[string]bool{"openai": true, "azure": true, "ark": true}
	if !validProviders[c.AI.Provider] {
		return fmt.Errorf("invalid ai provider %q, must be openai/azure/ark", c.AI.Provider)
	}

	if c.App.DataDir == "" {
		return errors.New("app.data_dir is required")
	}
	if c.App.OutputDir == "" {
		return errors.New("app.output_dir is required")
	}

	if c.TTS.PauseMs < 0 || c.TTS.SpeakerPauseMs < 0 {
		return errors.New("tts pause durations must not be negative")
	}
	if c.TTS.ElevenLabs.SpeakingRate <= 0 {
		return errors.New("tts.elevenlabs.speaking_rate must be positive")
	}

	if c.Video.CRF < 0 || c.Video.CRF > 51 {
		return errors.New("video.crf must be in [0, 51]")
	}

	switch c.Storage.Type {
	case "local":
		// Defaults are enough; base path falls back to the output dir.
	case "oss":
		if c.Storage.OSS == nil || c.Storage.OSS.Endpoint == "" || c.Storage.OSS.Bucket == "" {
			return errors.New("storage.oss endpoint and bucket are required when storage.type is oss")
		}
		if c.Storage.OSS.AccessKeyID == "" || c.Storage.OSS.AccessKeySecret == "" {
			return errors.New("storage.oss credentials are required when storage.type is oss")
		}
	default:
		return fmt.Errorf("invalid storage type %q, must be local/oss", c.Storage.Type)
	}

	return nil
}
