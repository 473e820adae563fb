package dialogtools

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

type stubLLM struct {
	response string
	err      error
	prompts  []string
}

func (s *stubLLM) Generate(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	return s.response, s.err
}

func TestParseVocabResponse(t *testing.T) {
	Convey("ParseVocabResponse extracts pipe-separated entries", t, func() {
		Convey("a full four-column entry keeps every column", func() {
			words := ParseVocabResponse("cà phê | ka feh | coffee | Tôi thích cà phê.")
			So(words, ShouldHaveLength, 1)
			So(words[0].Word, ShouldEqual, "cà phê")
			So(words[0].Pronunciation, ShouldEqual, "ka feh")
			So(words[0].Translation, ShouldEqual, "coffee")
			So(words[0].Context, ShouldEqual, "Tôi thích cà phê.")
		})

		Convey("three-column entries parse without a context", func() {
			words := ParseVocabResponse("xin chào | sin chow | hello")
			So(words, ShouldHaveLength, 1)
			So(words[0].Context, ShouldBeEmpty)
		})

		Convey("list numbering is stripped even though the prompt forbids it", func() {
			words := ParseVocabResponse("1. bánh mì | bun mee | bread | Ăn bánh mì.\n2) nước | nook | water | Uống nước.")
			So(words, ShouldHaveLength, 2)
			So(words[0].Word, ShouldEqual, "bánh mì")
			So(words[1].Word, ShouldEqual, "nước")
		})

		Convey("commentary lines without pipes are skipped", func() {
			response := `Here are your words:

cà phê | ka feh | coffee | Tôi thích cà phê.

Hope this helps!`
			words := ParseVocabResponse(response)
			So(words, ShouldHaveLength, 1)
		})

		Convey("entries with an empty word column are skipped", func() {
			words := ParseVocabResponse("| ka feh | coffee | Tôi thích cà phê.")
			So(words, ShouldBeEmpty)
		})

		Convey("empty input yields nothing", func() {
			So(ParseVocabResponse(""), ShouldBeEmpty)
		})
	})
}

func TestVocabGenerator_Generate(t *testing.T) {
	Convey("VocabGenerator.Generate", t, func() {
		ctx := context.Background()

		Convey("returns parsed words and excludes used ones", func() {
			llm := &stubLLM{response: "cà phê | ka feh | coffee | Tôi thích cà phê.\nnước | nook | water | Uống nước."}
			gen := NewVocabGenerator(llm, "Vietnamese", "English")

			words, err := gen.Generate(ctx, "drinks", 2, 3, []string{"Nước"})
			So(err, ShouldBeNil)
			So(words, ShouldHaveLength, 1)
			So(words[0].Word, ShouldEqual, "cà phê")
		})

		Convey("used words show up in the prompt exclusion list", func() {
			llm := &stubLLM{response: "nhà | nyah | house | Nhà tôi ở đây."}
			gen := NewVocabGenerator(llm, "Vietnamese", "English")

			_, err := gen.Generate(ctx, "home", 1, 5, []string{"cửa", "bàn"})
			So(err, ShouldBeNil)
			So(llm.prompts, ShouldHaveLength, 1)
			So(llm.prompts[0], ShouldContainSubstring, "cửa, bàn")
			So(llm.prompts[0], ShouldContainSubstring, "home")
		})

		Convey("an unparseable response is an error", func() {
			llm := &stubLLM{response: "Sorry, I cannot do that."}
			gen := NewVocabGenerator(llm, "Vietnamese", "English")

			_, err := gen.Generate(ctx, "drinks", 2, 3, nil)
			So(err, ShouldNotBeNil)
		})

		Convey("provider errors are propagated", func() {
			llm := &stubLLM{err: errors.New("boom")}
			gen := NewVocabGenerator(llm, "Vietnamese", "English")

			_, err := gen.Generate(ctx, "drinks", 2, 3, nil)
			So(err, ShouldNotBeNil)
		})
	})
}
