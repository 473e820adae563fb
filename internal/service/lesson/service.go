package lesson

import (
	"lingoreel/internal/config"
	"lingoreel/internal/pkg/dialogtools"
	"lingoreel/internal/pkg/ffmpeg"
	"lingoreel/internal/pkg/storage"
	lessonrepo "lingoreel/internal/repository/lesson"
)

// Deps are the external clients a Service talks through. Commands wire in
// only what their stage needs; methods report missing dependencies as
// errors instead of panicking.
type Deps struct {
	LLM         dialogtools.LLMProvider
	Synthesizer dialogtools.SpeechSynthesizer
	Transcriber dialogtools.Transcriber
	FFmpeg      *ffmpeg.Client
	Store       storage.Storage
}

// Service runs the lesson pipeline stages. Every stage reads and writes
// the conventional artifact files under the data directory, so stages can
// run in one process or as separate invocations days apart.
type Service struct {
	cfg   *config.Config
	llm   dialogtools.LLMProvider
	synth dialogtools.SpeechSynthesizer
	stt   dialogtools.Transcriber
	ff    *ffmpeg.Client
	store storage.Storage

	vocabRepo    *lessonrepo.VocabRepo
	wordBank     *lessonrepo.WordBankRepo
	dialogueRepo *lessonrepo.DialogueRepo
	timelineRepo *lessonrepo.TimelineRepo
	audioRepo    *lessonrepo.AudioRepo
}

// NewService creates a pipeline service over the configured data layout.
func NewService(cfg *config.Config, deps Deps) *Service {
	return &Service{
		cfg:   cfg,
		llm:   deps.LLM,
		synth: deps.Synthesizer,
		stt:   deps.Transcriber,
		ff:    deps.FFmpeg,
		store: deps.Store,

		vocabRepo:    lessonrepo.NewVocabRepo(&cfg.App),
		wordBank:     lessonrepo.NewWordBankRepo(&cfg.App),
		dialogueRepo: lessonrepo.NewDialogueRepo(&cfg.App),
		timelineRepo: lessonrepo.NewTimelineRepo(&cfg.App),
		audioRepo:    lessonrepo.NewAudioRepo(&cfg.App),
	}
}
