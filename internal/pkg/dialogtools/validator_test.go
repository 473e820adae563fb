package dialogtools

import (
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"lingoreel/internal/model/lesson"
)

func validDialogue() *lesson.Dialogue {
	lines := []lesson.Line{
		{Speaker: "Mira", Text: "Do you want cà phê today? Say dạ if yes."},
		{Speaker: "Michael", Text: "Dạ, I always want cà phê, cảm ơn."},
		{Speaker: "Mira", Text: "Great, cảm ơn for joining me."},
		{Speaker: "Michael", Text: "This cà phê place is my favorite."},
		{Speaker: "Mira", Text: "Mine too, honestly."},
		{Speaker: "Michael", Text: "Same time tomorrow?"},
		{Speaker: "Mira", Text: "Dạ, of course."},
		{Speaker: "Michael", Text: "See you then."},
	}
	return &lesson.Dialogue{
		EnglishDialogue:      lines,
		VietnameseDialogue:   lines,
		TopicWord:            "cà phê",
		TopicWordTranslation: "coffee",
		CommonWords: []lesson.WordGloss{
			{Word: "dạ", Translation: "yes (polite)"},
			{Word: "cảm ơn", Translation: "thank you"},
		},
	}
}

func TestDialogueValidator_Validate(t *testing.T) {
	Convey("DialogueValidator.Validate", t, func() {
		dv := NewDialogueValidator()

		Convey("a well-formed dialogue is valid with no warnings", func() {
			result := dv.Validate(validDialogue())
			So(result.IsValid, ShouldBeTrue)
			So(result.Warnings, ShouldBeEmpty)
		})

		Convey("no English lines is fatal", func() {
			d := validDialogue()
			d.EnglishDialogue = nil
			result := dv.Validate(d)
			So(result.IsValid, ShouldBeFalse)
			So(result.Message, ShouldContainSubstring, "English lines")
		})

		Convey("a missing topic word is fatal", func() {
			d := validDialogue()
			d.TopicWord = "  "
			result := dv.Validate(d)
			So(result.IsValid, ShouldBeFalse)
			So(result.Message, ShouldContainSubstring, "topic word")
		})

		Convey("a rare topic word only warns", func() {
			d := validDialogue()
			d.TopicWord = "bánh mì"
			result := dv.Validate(d)
			So(result.IsValid, ShouldBeTrue)
			So(result.Warnings, ShouldNotBeEmpty)
		})

		Convey("a topic word spoken by only one speaker warns", func() {
			d := validDialogue()
			for i := range d.EnglishDialogue {
				if d.EnglishDialogue[i].Speaker == "Michael" {
					d.EnglishDialogue[i].Text = strings.ReplaceAll(d.EnglishDialogue[i].Text, "cà phê", "coffee")
				}
			}
			result := dv.Validate(d)
			So(result.IsValid, ShouldBeTrue)

			joined := strings.Join(result.Warnings, "\n")
			So(joined, ShouldContainSubstring, "Michael")
		})

		Convey("the forbidden topic word warns", func() {
			d := validDialogue()
			d.TopicWord = "chúng ta"
			result := dv.Validate(d)
			So(result.IsValid, ShouldBeTrue)
			So(strings.Join(result.Warnings, "\n"), ShouldContainSubstring, "chúng ta")
		})

		Convey("a short dialogue warns about line count", func() {
			d := validDialogue()
			d.EnglishDialogue = d.EnglishDialogue[:4]
			d.VietnameseDialogue = d.VietnameseDialogue[:4]
			result := dv.Validate(d)
			So(result.IsValid, ShouldBeTrue)
			So(strings.Join(result.Warnings, "\n"), ShouldContainSubstring, "English lines")
		})
	})
}
