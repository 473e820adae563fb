package dialogtools

import (
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"lingoreel/internal/model/lesson"
)

func TestFormatSRTTime(t *testing.T) {
	Convey("formatSRTTime renders HH:MM:SS,mmm", t, func() {
		So(formatSRTTime(0), ShouldEqual, "00:00:00,000")
		So(formatSRTTime(1.5), ShouldEqual, "00:00:01,500")
		So(formatSRTTime(61.042), ShouldEqual, "00:01:01,042")
		So(formatSRTTime(3661.0), ShouldEqual, "01:01:01,000")
		So(formatSRTTime(-2), ShouldEqual, "00:00:00,000")
	})
}

func TestSRTGenerator_Generate(t *testing.T) {
	Convey("SRTGenerator.Generate", t, func() {
		g := NewSRTGenerator(0)

		phrases := []lesson.Phrase{
			{Text: "Hello there", StartTime: 0.0, EndTime: 1.2},
			{Text: "I love phở", VietWords: []string{"phở"}, StartTime: 1.2, EndTime: 2.8},
			{Text: "goodbye now", StartTime: 11.0, EndTime: 12.0},
		}

		Convey("cues are numbered sequentially with timing lines", func() {
			srt := g.Generate(phrases, 0)
			So(srt, ShouldContainSubstring, "1\n00:00:00,000 --> 00:00:01,200\nHello there")
			So(srt, ShouldContainSubstring, "2\n00:00:01,200 --> 00:00:02,800\n")
			So(srt, ShouldContainSubstring, "3\n00:00:11,000 --> 00:00:12,000\ngoodbye now")
		})

		Convey("Vietnamese words are wrapped in yellow font markup", func() {
			srt := g.Generate(phrases, 0)
			So(srt, ShouldContainSubstring, `I love <font color="#FFFF00">phở</font>`)
		})

		Convey("tagged spans convert to font markup without double wrapping", func() {
			tagged := []lesson.Phrase{{
				Text:      "say <vietnamese>xin chào</vietnamese> now",
				VietWords: []string{"xin chào"},
				StartTime: 0, EndTime: 1,
			}}
			srt := g.Generate(tagged, 0)
			So(srt, ShouldContainSubstring, `say <font color="#FFFF00">xin chào</font> now`)
			So(strings.Count(srt, highlightOpen), ShouldEqual, 1)
		})

		Convey("a cutoff drops later phrases and clamps the last cue", func() {
			srt := g.Generate(phrases, 2.0)
			So(srt, ShouldNotContainSubstring, "goodbye")
			So(srt, ShouldContainSubstring, "00:00:01,200 --> 00:00:02,000")
		})

		Convey("highlight keeps the original casing", func() {
			cues := []lesson.Phrase{{
				Text:      "Phở is great",
				VietWords: []string{"phở"},
				StartTime: 0, EndTime: 1,
			}}
			srt := g.Generate(cues, 0)
			So(srt, ShouldContainSubstring, `<font color="#FFFF00">Phở</font> is great`)
		})

		Convey("no phrases yields an empty document", func() {
			So(g.Generate(nil, 0), ShouldEqual, "")
		})
	})
}

func TestSRTGenerator_WrapLine(t *testing.T) {
	Convey("SRTGenerator.wrapLine", t, func() {
		g := NewSRTGenerator(20)

		Convey("short cues stay on one line", func() {
			So(g.wrapLine("short enough"), ShouldEqual, "short enough")
		})

		Convey("long cues break near the middle at a word boundary", func() {
			wrapped := g.wrapLine("this is a rather long subtitle cue line")
			parts := strings.Split(wrapped, "\n")
			So(parts, ShouldHaveLength, 2)
			So(strings.Join(strings.Fields(wrapped), " "),
				ShouldEqual, "this is a rather long subtitle cue line")
		})

		Convey("font markup does not count against the width", func() {
			cue := `<font color="#FFFF00">phở</font> bowl`
			So(g.wrapLine(cue), ShouldEqual, cue)
		})

		Convey("font spans never split across lines", func() {
			wrapped := g.wrapLine(`one two three four <font color="#FFFF00">xin chào</font> five`)
			So(strings.Count(wrapped, highlightOpen), ShouldEqual, strings.Count(wrapped, highlightClose))
			for _, line := range strings.Split(wrapped, "\n") {
				So(strings.Count(line, highlightOpen), ShouldEqual, strings.Count(line, highlightClose))
			}
		})

		Convey("a nil segmenter falls back to whitespace splitting", func() {
			plain := &SRTGenerator{maxLineLength: 20}
			wrapped := plain.wrapLine("this is a rather long subtitle cue line")
			So(strings.Split(wrapped, "\n"), ShouldHaveLength, 2)
		})
	})
}
