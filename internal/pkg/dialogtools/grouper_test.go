package dialogtools

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"lingoreel/internal/model/lesson"
)

func TestPhraseGrouper_AssignSpeakers(t *testing.T) {
	Convey("PhraseGrouper.AssignSpeakers", t, func() {
		pg := NewPhraseGrouper()

		Convey("words split onto speakers by their share of the text", func() {
			d := &lesson.Dialogue{
				EnglishDialogue: []lesson.Line{
					{Speaker: "Mira", Text: "Hello there my good friend"},
					{Speaker: "Michael", Text: "Hello again to you too"},
				},
			}
			words := []lesson.WordStamp{
				{Word: "Hello", Start: 0.0, End: 0.5},
				{Word: "there", Start: 0.5, End: 1.0},
				{Word: "my", Start: 1.0, End: 1.3},
				{Word: "good", Start: 1.3, End: 1.8},
				{Word: "friend", Start: 1.8, End: 2.4},
				{Word: "Hello", Start: 2.6, End: 3.1},
				{Word: "again", Start: 3.1, End: 3.6},
				{Word: "to", Start: 3.6, End: 3.8},
				{Word: "you", Start: 3.8, End: 4.1},
				{Word: "too", Start: 4.1, End: 4.5},
			}

			out := pg.AssignSpeakers(words, d)
			So(out[0].Speaker, ShouldEqual, "Mira")
			So(out[4].Speaker, ShouldEqual, "Mira")
			So(out[5].Speaker, ShouldEqual, "Michael")
			So(out[9].Speaker, ShouldEqual, "Michael")
		})

		Convey("empty input passes through unchanged", func() {
			So(pg.AssignSpeakers(nil, &lesson.Dialogue{}), ShouldBeNil)
		})
	})
}

func TestPhraseGrouper_Group(t *testing.T) {
	Convey("PhraseGrouper.Group", t, func() {
		pg := NewPhraseGrouper()

		Convey("phrases cap at three words", func() {
			words := []lesson.WordStamp{
				{Word: "one", Start: 0, End: 1, Speaker: "Mira"},
				{Word: "two", Start: 1, End: 2, Speaker: "Mira"},
				{Word: "three", Start: 2, End: 3, Speaker: "Mira"},
				{Word: "four", Start: 3, End: 4, Speaker: "Mira"},
			}
			phrases := pg.Group(words)
			So(phrases, ShouldHaveLength, 2)
			So(phrases[0].Text, ShouldEqual, "one two three")
			So(phrases[1].Text, ShouldEqual, "four")
		})

		Convey("trailing punctuation closes a phrase early", func() {
			words := []lesson.WordStamp{
				{Word: "wow!", Start: 0, End: 1, Speaker: "Mira"},
				{Word: "amazing", Start: 1, End: 2, Speaker: "Mira"},
			}
			phrases := pg.Group(words)
			So(phrases, ShouldHaveLength, 2)
			So(phrases[0].Text, ShouldEqual, "wow!")
		})

		Convey("a speaker change always starts a new phrase", func() {
			words := []lesson.WordStamp{
				{Word: "hi", Start: 0, End: 1, Speaker: "Mira"},
				{Word: "hello", Start: 1, End: 2, Speaker: "Michael"},
			}
			phrases := pg.Group(words)
			So(phrases, ShouldHaveLength, 2)
			So(phrases[0].Speaker, ShouldEqual, "Mira")
			So(phrases[1].Speaker, ShouldEqual, "Michael")
		})

		Convey("phrase bounds come from the first and last word", func() {
			words := []lesson.WordStamp{
				{Word: "one", Start: 0.51, End: 1.04, Speaker: "Mira"},
				{Word: "two", Start: 1.04, End: 2.27, Speaker: "Mira"},
			}
			phrases := pg.Group(words)
			So(phrases, ShouldHaveLength, 1)
			So(phrases[0].StartTime, ShouldEqual, 0.51)
			So(phrases[0].EndTime, ShouldEqual, 2.27)
		})
	})
}

func TestMarkVietnameseWords(t *testing.T) {
	Convey("MarkVietnameseWords fills the highlight lists", t, func() {
		phrases := []lesson.Phrase{
			{Text: "had phở today"},
			{Text: "plain english words"},
		}
		out := MarkVietnameseWords(phrases, nil)
		So(out[0].VietWords, ShouldResemble, []string{"phở"})
		So(out[1].VietWords, ShouldBeEmpty)
	})
}
