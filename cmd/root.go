package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"lingoreel/internal/config"
	"lingoreel/internal/pkg/dialogtools/providers"
	"lingoreel/internal/pkg/ffmpeg"
	"lingoreel/internal/pkg/logger"
	"lingoreel/internal/pkg/storagefactory"
	lessonsvc "lingoreel/internal/service/lesson"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "lingoreel",
	Short: "lingoreel - short-form language lesson video pipeline",
	Long: `lingoreel turns AI-generated bilingual dialogues into short vertical
videos: vocabulary and dialogue generation, speech synthesis, timestamp
alignment against speech recognition, and subtitle-burned video assembly.
Each stage is a subcommand reading and writing conventional files under
the data directory, so stages can run separately or as one pipeline.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ./lingoreel.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "log format (console, json)")
	rootCmd.PersistentFlags().String("ai-provider", "", "LLM provider (openai, azure, ark)")
	rootCmd.PersistentFlags().String("ai-model", "", "LLM model name")

	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag("ai.provider", rootCmd.PersistentFlags().Lookup("ai-provider"))
	_ = viper.BindPFlag("ai.model", rootCmd.PersistentFlags().Lookup("ai-model"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("lingoreel")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.lingoreel")
	}

	viper.SetEnvPrefix("LINGOREEL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			fmt.Fprintln(os.Stderr, "No config file found, using defaults and environment variables")
		} else {
			fmt.Fprintf(os.Stderr, "Failed to read config: %v\n", err)
			os.Exit(1)
		}
	}

	cfg = &config.Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to unmarshal config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(&cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init logger: %v\n", err)
		os.Exit(1)
	}

	log.Debug().Str("config_file", viper.ConfigFileUsed()).Msg("configuration loaded")
}

func setDefaults() {
	// App
	viper.SetDefault("app.data_dir", "data")
	viper.SetDefault("app.output_dir", "output")
	viper.SetDefault("app.target_language", "Vietnamese")
	viper.SetDefault("app.source_language", "English")

	// AI
	viper.SetDefault("ai.provider", "openai")
	viper.SetDefault("ai.model", "gpt-4o")
	viper.SetDefault("ai.options.max_tokens", 4096)
	viper.SetDefault("ai.options.top_p", 1.0)

	// TTS
	viper.SetDefault("tts.elevenlabs.model_id", "eleven_flash_v2_5")
	viper.SetDefault("tts.elevenlabs.voice_mira", "21m00Tcm4TlvDq8ikWAM")
	viper.SetDefault("tts.elevenlabs.voice_michael", "AZnzlk1XvdvUeBnXmlld")
	viper.SetDefault("tts.elevenlabs.stability", 0.5)
	viper.SetDefault("tts.elevenlabs.similarity_boost", 0.5)
	viper.SetDefault("tts.elevenlabs.style", 0.0)
	viper.SetDefault("tts.elevenlabs.speaker_boost", true)
	viper.SetDefault("tts.elevenlabs.speaking_rate", 0.8)
	viper.SetDefault("tts.elevenlabs.volume_boost_db", 6)
	viper.SetDefault("tts.fallback.cluster", "volcano_tts")
	viper.SetDefault("tts.fallback.sample_rate", 44100)
	viper.SetDefault("tts.pause_ms", 1)
	viper.SetDefault("tts.speaker_pause_ms", 50)

	// STT
	viper.SetDefault("stt.model_id", "scribe_v1")
	viper.SetDefault("stt.language_code", "en")
	viper.SetDefault("stt.timeout", "10m")

	// Video
	viper.SetDefault("video.font", "Montserrat ExtraBold")
	viper.SetDefault("video.font_size", 24)
	viper.SetDefault("video.margin_v", 150)
	viper.SetDefault("video.preset", "medium")
	viper.SetDefault("video.crf", 23)
	viper.SetDefault("video.lead_in_min", 21)
	viper.SetDefault("video.tail_reserve", 60)

	// Log
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "console")
	viper.SetDefault("log.time_format", "RFC3339")

	// Storage
	viper.SetDefault("storage.type", "local")
}

// serviceOptions name the external clients a command needs. Everything
// else stays unwired so commands like status run with no API keys.
type serviceOptions struct {
	llmTemperature float64 // > 0 wires the LLM at this temperature
	speech         bool
	transcribe     bool
	publish        bool
}

// newService assembles the pipeline service for one command.
func newService(ctx context.Context, opts serviceOptions) (*lessonsvc.Service, error) {
	deps := lessonsvc.Deps{FFmpeg: ffmpeg.NewClient()}

	if opts.llmTemperature > 0 {
		llm, err := providers.NewLLMProvider(ctx, &cfg.AI, opts.llmTemperature)
		if err != nil {
			return nil, err
		}
		deps.LLM = llm
	}
	if opts.speech {
		synth, err := providers.NewSpeechSynthesizer(&cfg.TTS, &cfg.STT)
		if err != nil {
			return nil, err
		}
		deps.Synthesizer = synth
	}
	if opts.transcribe {
		deps.Transcriber = providers.NewTranscriber(&cfg.TTS.ElevenLabs, &cfg.STT)
	}
	if opts.publish {
		store, err := storagefactory.NewStorage(&cfg.Storage, cfg.App.OutputDir)
		if err != nil {
			return nil, err
		}
		deps.Store = store
	}
	return lessonsvc.NewService(cfg, deps), nil
}
