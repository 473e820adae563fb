package lesson

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"lingoreel/internal/config"
	"lingoreel/internal/model/lesson"
)

func testAppConfig(t *testing.T) *config.AppConfig {
	t.Helper()
	return &config.AppConfig{
		DataDir:   t.TempDir(),
		OutputDir: t.TempDir(),
	}
}

func TestExtractDialogueID(t *testing.T) {
	Convey("ExtractDialogueID", t, func() {
		Convey("recognizes topic-stem dialogue filenames", func() {
			id, ok := ExtractDialogueID("ca_phe_a1b2c3d4.json")
			So(ok, ShouldBeTrue)
			So(id, ShouldEqual, "a1b2c3d4")
		})

		Convey("works on full paths", func() {
			id, ok := ExtractDialogueID("/data/dialogues/tra_sua_deadbeef.json")
			So(ok, ShouldBeTrue)
			So(id, ShouldEqual, "deadbeef")
		})

		Convey("rejects files without an id suffix", func() {
			_, ok := ExtractDialogueID("notes.json")
			So(ok, ShouldBeFalse)
		})
	})
}

func TestDialogueRepo(t *testing.T) {
	Convey("DialogueRepo", t, func() {
		repo := NewDialogueRepo(testAppConfig(t))

		dialogue := &lesson.Dialogue{
			ID:        "a1b2c3d4",
			TopicWord: "cà phê",
			EnglishDialogue: []lesson.Line{
				{Speaker: "Mira", Text: "I  love\ncà phê"},
			},
			VietnameseDialogue: []lesson.Line{
				{Speaker: "Mira", Text: "Tôi thích cà phê"},
			},
		}

		Convey("Save writes <topic>_<id>.json with normalized lines", func() {
			path, err := repo.Save(dialogue)
			So(err, ShouldBeNil)
			So(filepath.Base(path), ShouldEqual, "ca_phe_a1b2c3d4.json")

			loaded, err := repo.Load(path)
			So(err, ShouldBeNil)
			So(loaded.EnglishDialogue[0].Text, ShouldEqual, "I love cà phê")
		})

		Convey("FindByID locates the document whatever its stem", func() {
			_, err := repo.Save(dialogue)
			So(err, ShouldBeNil)

			found, err := repo.FindByID("a1b2c3d4")
			So(err, ShouldBeNil)
			So(found.TopicWord, ShouldEqual, "cà phê")
		})

		Convey("FindByID maps a miss onto ErrNotFound", func() {
			_, err := repo.FindByID("ffffffff")
			So(errors.Is(err, ErrNotFound), ShouldBeTrue)
		})

		Convey("List returns sorted dialogue paths and tolerates a missing dir", func() {
			paths, err := repo.List()
			So(err, ShouldBeNil)
			So(paths, ShouldBeEmpty)

			_, err = repo.Save(dialogue)
			So(err, ShouldBeNil)
			paths, err = repo.List()
			So(err, ShouldBeNil)
			So(paths, ShouldHaveLength, 1)
		})
	})
}

func TestAudioRepo(t *testing.T) {
	Convey("AudioRepo", t, func() {
		cfg := testAppConfig(t)
		repo := NewAudioRepo(cfg)

		touch := func(name string) string {
			path := filepath.Join(cfg.AudioDir(), name)
			So(os.MkdirAll(cfg.AudioDir(), 0o755), ShouldBeNil)
			So(os.WriteFile(path, []byte("mp3"), 0o644), ShouldBeNil)
			return path
		}

		Convey("ExtractID honors the naming conventions in priority order", func() {
			id, ok := ExtractID("dialogue_a1b2c3d4.mp3")
			So(ok, ShouldBeTrue)
			So(id, ShouldEqual, "a1b2c3d4")

			id, ok = ExtractID("dialogue_a1b2c3d4_elevenlabs_slow.mp3")
			So(ok, ShouldBeTrue)
			So(id, ShouldEqual, "a1b2c3d4")

			id, ok = ExtractID("ca_phe_deadbeef.mp3")
			So(ok, ShouldBeTrue)
			So(id, ShouldEqual, "deadbeef")

			_, ok = ExtractID("background.mp3")
			So(ok, ShouldBeFalse)
		})

		Convey("FindByID prefers the legacy slow file over the canonical one", func() {
			slow := touch("dialogue_a1b2c3d4_elevenlabs_slow.mp3")
			touch("dialogue_a1b2c3d4.mp3")

			path, err := repo.FindByID("a1b2c3d4")
			So(err, ShouldBeNil)
			So(path, ShouldEqual, slow)
		})

		Convey("FindByID falls back to renamed files", func() {
			renamed := touch("ca_phe_a1b2c3d4.mp3")

			path, err := repo.FindByID("a1b2c3d4")
			So(err, ShouldBeNil)
			So(path, ShouldEqual, renamed)
		})

		Convey("FindByID maps a miss onto ErrNotFound", func() {
			_, err := repo.FindByID("ffffffff")
			So(errors.Is(err, ErrNotFound), ShouldBeTrue)
		})

		Convey("ProcessedIDs collects ids from every convention", func() {
			touch("dialogue_aaaa1111.mp3")
			touch("tra_sua_bbbb2222.mp3")
			touch("background.mp3")

			ids, err := repo.ProcessedIDs()
			So(err, ShouldBeNil)
			So(ids, ShouldResemble, map[string]bool{"aaaa1111": true, "bbbb2222": true})
		})

		Convey("Rename moves the file to <stem>_<id>.mp3", func() {
			old := touch("dialogue_a1b2c3d4.mp3")

			newPath, err := repo.Rename(old, "ca_phe", "a1b2c3d4")
			So(err, ShouldBeNil)
			So(filepath.Base(newPath), ShouldEqual, "ca_phe_a1b2c3d4.mp3")
			_, statErr := os.Stat(old)
			So(os.IsNotExist(statErr), ShouldBeTrue)
		})
	})
}

func TestTimelineRepo(t *testing.T) {
	Convey("TimelineRepo", t, func() {
		repo := NewTimelineRepo(testAppConfig(t))

		timeline := &lesson.Timeline{
			ID:        "a1b2c3d4",
			TopicWord: "cà phê",
			Dialogue: []lesson.Phrase{
				{Speaker: "Mira", Text: "hello there", StartTime: 0, EndTime: 1.2},
			},
		}

		Convey("Save and Load round-trip a document", func() {
			path := repo.TimelinePath("a1b2c3d4")
			So(repo.Save(path, timeline), ShouldBeNil)

			loaded, err := repo.Load(path)
			So(err, ShouldBeNil)
			So(loaded.ID, ShouldEqual, "a1b2c3d4")
			So(loaded.Dialogue, ShouldHaveLength, 1)
		})

		Convey("Load maps a missing document onto ErrNotFound", func() {
			_, err := repo.Load(repo.TimelinePath("ffffffff"))
			So(errors.Is(err, ErrNotFound), ShouldBeTrue)
		})

		Convey("Replace backs up the working document exactly once", func() {
			path := repo.TimelinePath("a1b2c3d4")
			So(repo.Save(path, timeline), ShouldBeNil)

			adjusted := *timeline
			adjusted.Dialogue = []lesson.Phrase{
				{Speaker: "Mira", Text: "hello there", StartTime: 0.3, EndTime: 1.5},
			}
			So(repo.Replace("a1b2c3d4", &adjusted), ShouldBeNil)

			backup, err := repo.Load(repo.OriginalPath("a1b2c3d4"))
			So(err, ShouldBeNil)
			So(backup.Dialogue[0].StartTime, ShouldEqual, 0.0)

			working, err := repo.Load(path)
			So(err, ShouldBeNil)
			So(working.Dialogue[0].StartTime, ShouldEqual, 0.3)

			// A second replace must not overwrite the original backup.
			again := adjusted
			again.Dialogue[0].StartTime = 0.6
			So(repo.Replace("a1b2c3d4", &again), ShouldBeNil)
			backup, err = repo.Load(repo.OriginalPath("a1b2c3d4"))
			So(err, ShouldBeNil)
			So(backup.Dialogue[0].StartTime, ShouldEqual, 0.0)
		})

		Convey("SaveWords round-trips and the CSV carries a header", func() {
			words := []lesson.WordStamp{
				{Word: "hello", Start: 0.1, End: 0.5, Speaker: "Mira"},
				{Word: "there", Start: 0.5, End: 0.9, Speaker: "Mira"},
			}
			So(repo.SaveWords("a1b2c3d4", words), ShouldBeNil)
			So(repo.SaveWordsCSV("a1b2c3d4", words), ShouldBeNil)

			loaded, err := repo.LoadWords("a1b2c3d4")
			So(err, ShouldBeNil)
			So(loaded, ShouldResemble, words)

			f, err := os.Open(filepath.Join(repo.cfg.AudioDir(), "word_timestamps_a1b2c3d4.csv"))
			So(err, ShouldBeNil)
			defer f.Close()
			records, err := csv.NewReader(f).ReadAll()
			So(err, ShouldBeNil)
			So(records, ShouldHaveLength, 3)
			So(records[0], ShouldResemble, []string{"word", "start", "end", "speaker"})
			So(records[1][0], ShouldEqual, "hello")
			So(records[1][1], ShouldEqual, "0.100")
		})
	})
}

func TestVocabRepo(t *testing.T) {
	Convey("VocabRepo", t, func() {
		repo := NewVocabRepo(testAppConfig(t))

		Convey("SaveList writes under the vocab directory", func() {
			path, err := repo.SaveList(&lesson.VocabList{
				Topic: "cà phê culture",
				Words: []lesson.VocabWord{{Word: "cà phê", Translation: "coffee"}},
			})
			So(err, ShouldBeNil)
			So(filepath.Base(path), ShouldStartWith, "vocab_ca_phe_culture_")
			So(filepath.Ext(path), ShouldEqual, ".json")
		})

		Convey("the ledger accumulates words across appends", func() {
			So(repo.AppendWords([]string{"cà phê", "nước"}), ShouldBeNil)
			So(repo.AppendWords([]string{"bánh mì"}), ShouldBeNil)

			words, err := repo.ListWords()
			So(err, ShouldBeNil)
			So(words, ShouldResemble, []string{"cà phê", "nước", "bánh mì"})
		})

		Convey("an absent ledger reads as empty", func() {
			words, err := repo.ListWords()
			So(err, ShouldBeNil)
			So(words, ShouldBeEmpty)
		})
	})
}

func TestWordBankRepo(t *testing.T) {
	Convey("WordBankRepo", t, func() {
		repo := NewWordBankRepo(testAppConfig(t))

		Convey("AddUsedWord deduplicates case-insensitively", func() {
			So(repo.AddUsedWord("cà phê"), ShouldBeNil)
			So(repo.AddUsedWord("Cà Phê"), ShouldBeNil)
			So(repo.AddUsedWord("nước"), ShouldBeNil)

			words, err := repo.UsedWords()
			So(err, ShouldBeNil)
			So(words, ShouldResemble, []string{"cà phê", "nước"})
		})

		Convey("blank words are ignored", func() {
			So(repo.AddUsedWord("   "), ShouldBeNil)
			words, err := repo.UsedWords()
			So(err, ShouldBeNil)
			So(words, ShouldBeEmpty)
		})
	})
}
