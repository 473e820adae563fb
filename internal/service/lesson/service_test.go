package lesson

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"lingoreel/internal/config"
	"lingoreel/internal/model/lesson"
	lessonrepo "lingoreel/internal/repository/lesson"
)

type fakeLLM struct {
	response string
	prompts  []string
}

func (f *fakeLLM) Generate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.response, nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		App: config.AppConfig{
			DataDir:        t.TempDir(),
			OutputDir:      t.TempDir(),
			TargetLanguage: "Vietnamese",
			SourceLanguage: "English",
		},
		AI: config.AIConfig{Provider: "openai"},
		TTS: config.TTSConfig{
			ElevenLabs:     config.ElevenLabsTTSConfig{SpeakingRate: 0.8},
			PauseMs:        1,
			SpeakerPauseMs: 50,
		},
		Video:   config.VideoConfig{CRF: 23},
		Storage: config.StorageConfig{Type: "local"},
	}
}

const llmDialogueResponse = `VIETNAMESE:
Mira: Bạn muốn uống cà phê không?
Michael: Dạ, tôi thích cà phê lắm.
Mira: Cảm ơn bạn đã đến.
Michael: Cà phê ở đây ngon, cảm ơn.
Mira: Hẹn gặp lại, dạ.
Michael: Dạ, hẹn gặp lại.
Mira: Tuyệt vời.
Michael: Tạm biệt.

ENGLISH:
Mira: Do you want some <vietnamese>cà phê</vietnamese>? Say <vietnamese>dạ</vietnamese> if yes.
Michael: <vietnamese>Dạ</vietnamese>, I really love <vietnamese>cà phê</vietnamese>.
Mira: <vietnamese>Cảm ơn</vietnamese> for coming today.
Michael: The <vietnamese>cà phê</vietnamese> here is great, <vietnamese>cảm ơn</vietnamese>.
Mira: See you soon, <vietnamese>dạ</vietnamese>.
Michael: <vietnamese>Dạ</vietnamese>, see you soon.
Mira: Wonderful.
Michael: Goodbye now.

TOPIC_WORD: cà phê - coffee
COMMON_WORD_1: dạ - yes (polite)
COMMON_WORD_2: cảm ơn - thank you
`

func TestService_GenerateVocab(t *testing.T) {
	Convey("Service.GenerateVocab", t, func() {
		ctx := context.Background()
		cfg := testConfig(t)

		Convey("saves the list and feeds the ledger", func() {
			llm := &fakeLLM{response: "cà phê | ka feh | coffee | Tôi thích cà phê.\nnước | nook | water | Uống nước đi."}
			svc := NewService(cfg, Deps{LLM: llm})

			list, path, err := svc.GenerateVocab(ctx, "drinks", 2, 3)
			So(err, ShouldBeNil)
			So(list.Words, ShouldHaveLength, 2)
			So(path, ShouldNotBeEmpty)
			_, statErr := os.Stat(path)
			So(statErr, ShouldBeNil)

			words, err := lessonrepo.NewVocabRepo(&cfg.App).ListWords()
			So(err, ShouldBeNil)
			So(words, ShouldResemble, []string{"cà phê", "nước"})
		})

		Convey("used words are excluded from the next request", func() {
			llm := &fakeLLM{response: "nước | nook | water | Uống nước đi."}
			svc := NewService(cfg, Deps{LLM: llm})
			So(lessonrepo.NewWordBankRepo(&cfg.App).AddUsedWord("xin chào"), ShouldBeNil)

			_, _, err := svc.GenerateVocab(ctx, "drinks", 1, 3)
			So(err, ShouldBeNil)
			So(llm.prompts[0], ShouldContainSubstring, "xin chào")
		})

		Convey("the vocabulary ledger alone does not exclude anything", func() {
			llm := &fakeLLM{response: "nước | nook | water | Uống nước đi."}
			svc := NewService(cfg, Deps{LLM: llm})
			So(lessonrepo.NewVocabRepo(&cfg.App).AppendWords([]string{"cà phê"}), ShouldBeNil)

			_, _, err := svc.GenerateVocab(ctx, "drinks", 1, 3)
			So(err, ShouldBeNil)
			So(llm.prompts[0], ShouldNotContainSubstring, "cà phê")
		})

		Convey("a missing LLM is reported, not a panic", func() {
			svc := NewService(cfg, Deps{})
			_, _, err := svc.GenerateVocab(ctx, "drinks", 1, 3)
			So(err, ShouldNotBeNil)
		})

		Convey("empty arguments fall back to the defaults", func() {
			llm := &fakeLLM{response: "nước | nook | water | Uống nước đi."}
			svc := NewService(cfg, Deps{LLM: llm})

			list, _, err := svc.GenerateVocab(ctx, "", 0, 0)
			So(err, ShouldBeNil)
			So(list.Topic, ShouldEqual, DefaultVocabTopic)
			So(list.Difficulty, ShouldEqual, DefaultVocabDifficulty)
		})
	})
}

func TestService_GenerateDialogue(t *testing.T) {
	Convey("Service.GenerateDialogue", t, func() {
		ctx := context.Background()
		cfg := testConfig(t)

		Convey("assigns an id, saves the document and consumes the topic word", func() {
			svc := NewService(cfg, Deps{LLM: &fakeLLM{response: llmDialogueResponse}})

			d, path, err := svc.GenerateDialogue(ctx, "coffee", "cà phê")
			So(err, ShouldBeNil)
			So(d.ID, ShouldNotBeEmpty)
			So(d.Timestamp, ShouldBeGreaterThan, 0)
			So(filepath.Base(path), ShouldEqual, "ca_phe_"+d.ID+".json")

			used, err := lessonrepo.NewWordBankRepo(&cfg.App).UsedWords()
			So(err, ShouldBeNil)
			So(used, ShouldResemble, []string{"cà phê"})
		})

		Convey("an unusable response is an error", func() {
			svc := NewService(cfg, Deps{LLM: &fakeLLM{response: "ENGLISH:\nnothing useful\nTOPIC_WORD: x - y"}})
			_, _, err := svc.GenerateDialogue(ctx, "coffee", "")
			So(err, ShouldNotBeNil)
		})

		Convey("a missing LLM is reported", func() {
			svc := NewService(cfg, Deps{})
			_, _, err := svc.GenerateDialogue(ctx, "coffee", "")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestService_Subtitles(t *testing.T) {
	Convey("Service subtitle stages", t, func() {
		ctx := context.Background()
		cfg := testConfig(t)
		svc := NewService(cfg, Deps{})
		repo := lessonrepo.NewTimelineRepo(&cfg.App)

		timeline := &lesson.Timeline{
			ID:        "a1b2c3d4",
			TopicWord: "cà phê",
			Dialogue: []lesson.Phrase{
				{Speaker: "Mira", Text: "I love cà phê!", VietWords: []string{"cà phê"}, StartTime: 0, EndTime: 1.4},
				{Speaker: "Michael", Text: "Me too, really.", StartTime: 1.4, EndTime: 2.6},
			},
		}
		So(repo.Save(repo.TimelinePath("a1b2c3d4"), timeline), ShouldBeNil)

		Convey("StripPunctuation writes the display timeline", func() {
			path, err := svc.StripPunctuation(ctx, "a1b2c3d4")
			So(err, ShouldBeNil)
			So(filepath.Base(path), ShouldEqual, "dialogue_a1b2c3d4_no_punctuation.json")

			stripped, err := repo.Load(path)
			So(err, ShouldBeNil)
			So(stripped.Dialogue[0].Text, ShouldEqual, "I love cà phê")
			So(stripped.Dialogue[1].Text, ShouldEqual, "Me too really")
		})

		Convey("RenderSRT builds the display timeline on demand", func() {
			srt, err := svc.RenderSRT(ctx, "a1b2c3d4", 0)
			So(err, ShouldBeNil)
			So(srt, ShouldContainSubstring, "00:00:00,000 --> 00:00:01,400")
			So(srt, ShouldContainSubstring, `<font color="#FFFF00">cà phê</font>`)
			So(srt, ShouldNotContainSubstring, "really.")
		})

		Convey("RenderSRT honors the cutoff", func() {
			srt, err := svc.RenderSRT(ctx, "a1b2c3d4", 1.0)
			So(err, ShouldBeNil)
			So(srt, ShouldNotContainSubstring, "Me too")
			So(srt, ShouldContainSubstring, "00:00:01,000")
		})

		Convey("a missing timeline is an error", func() {
			_, err := svc.StripPunctuation(ctx, "ffffffff")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestService_Statuses(t *testing.T) {
	Convey("Service.Statuses", t, func() {
		cfg := testConfig(t)
		svc := NewService(cfg, Deps{})

		dialogueRepo := lessonrepo.NewDialogueRepo(&cfg.App)
		timelineRepo := lessonrepo.NewTimelineRepo(&cfg.App)

		save := func(id, word string) {
			_, err := dialogueRepo.Save(&lesson.Dialogue{
				ID:              id,
				TopicWord:       word,
				EnglishDialogue: []lesson.Line{{Speaker: "Mira", Text: "hi"}},
			})
			So(err, ShouldBeNil)
		}

		Convey("an empty data dir has no statuses", func() {
			statuses, err := svc.Statuses()
			So(err, ShouldBeNil)
			So(statuses, ShouldBeEmpty)
		})

		Convey("artifacts light up the corresponding columns", func() {
			save("aaaa1111", "cà phê")
			save("bbbb2222", "nước")

			// aaaa1111 advanced all the way to an adjusted timeline and video.
			So(os.MkdirAll(cfg.App.AudioDir(), 0o755), ShouldBeNil)
			So(os.WriteFile(filepath.Join(cfg.App.AudioDir(), "dialogue_aaaa1111.mp3"), []byte("mp3"), 0o644), ShouldBeNil)
			tl := &lesson.Timeline{ID: "aaaa1111"}
			So(timelineRepo.Save(timelineRepo.TimelinePath("aaaa1111"), tl), ShouldBeNil)
			So(timelineRepo.Save(timelineRepo.OriginalPath("aaaa1111"), tl), ShouldBeNil)
			So(os.WriteFile(filepath.Join(cfg.App.OutputDir, "background_aaaa1111.mp4"), []byte("mp4"), 0o644), ShouldBeNil)

			statuses, err := svc.Statuses()
			So(err, ShouldBeNil)
			So(statuses, ShouldHaveLength, 2)

			byID := map[string]Status{}
			for _, st := range statuses {
				byID[st.ID] = st
			}
			So(byID["aaaa1111"].HasAudio, ShouldBeTrue)
			So(byID["aaaa1111"].Timeline, ShouldEqual, "adjusted")
			So(byID["aaaa1111"].HasVideo, ShouldBeTrue)
			So(byID["aaaa1111"].TopicWord, ShouldEqual, "cà phê")

			So(byID["bbbb2222"].HasAudio, ShouldBeFalse)
			So(byID["bbbb2222"].Timeline, ShouldEqual, "-")
			So(byID["bbbb2222"].HasVideo, ShouldBeFalse)
		})

		Convey("an estimated timeline reports as estimated", func() {
			save("cccc3333", "bánh mì")
			So(timelineRepo.Save(timelineRepo.TimelinePath("cccc3333"), &lesson.Timeline{ID: "cccc3333"}), ShouldBeNil)

			statuses, err := svc.Statuses()
			So(err, ShouldBeNil)
			So(statuses, ShouldHaveLength, 1)
			So(statuses[0].Timeline, ShouldEqual, "estimated")
		})
	})
}

func TestService_RenameAudio(t *testing.T) {
	Convey("Service.RenameAudio", t, func() {
		ctx := context.Background()
		cfg := testConfig(t)
		svc := NewService(cfg, Deps{})

		_, err := lessonrepo.NewDialogueRepo(&cfg.App).Save(&lesson.Dialogue{
			ID:              "aaaa1111",
			TopicWord:       "cà phê",
			EnglishDialogue: []lesson.Line{{Speaker: "Mira", Text: "hi"}},
		})
		So(err, ShouldBeNil)

		So(os.MkdirAll(cfg.App.AudioDir(), 0o755), ShouldBeNil)
		So(os.WriteFile(filepath.Join(cfg.App.AudioDir(), "dialogue_aaaa1111.mp3"), []byte("mp3"), 0o644), ShouldBeNil)
		// No dialogue document for this one; it must be left alone.
		So(os.WriteFile(filepath.Join(cfg.App.AudioDir(), "dialogue_ffffffff.mp3"), []byte("mp3"), 0o644), ShouldBeNil)

		renamed, err := svc.RenameAudio(ctx)
		So(err, ShouldBeNil)
		So(renamed, ShouldEqual, 1)

		_, err = os.Stat(filepath.Join(cfg.App.AudioDir(), "ca_phe_aaaa1111.mp3"))
		So(err, ShouldBeNil)
		_, err = os.Stat(filepath.Join(cfg.App.AudioDir(), "dialogue_ffffffff.mp3"))
		So(err, ShouldBeNil)

		Convey("renamed audio still resolves by id", func() {
			path, err := svc.FindAudio("aaaa1111")
			So(err, ShouldBeNil)
			So(filepath.Base(path), ShouldEqual, "ca_phe_aaaa1111.mp3")
		})
	})
}
