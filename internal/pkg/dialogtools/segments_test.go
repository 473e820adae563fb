package dialogtools

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestIsVietnameseWord(t *testing.T) {
	Convey("IsVietnameseWord", t, func() {
		vocab := map[string]bool{"pho": true}

		Convey("diacritics mark a word as Vietnamese", func() {
			So(IsVietnameseWord("phở", nil), ShouldBeTrue)
			So(IsVietnameseWord("đi", nil), ShouldBeTrue)
		})

		Convey("vocabulary membership marks a word as Vietnamese", func() {
			So(IsVietnameseWord("pho", vocab), ShouldBeTrue)
			So(IsVietnameseWord("Pho!", vocab), ShouldBeTrue)
		})

		Convey("plain English words are not Vietnamese", func() {
			So(IsVietnameseWord("coffee", vocab), ShouldBeFalse)
		})

		Convey("pure punctuation is not a word", func() {
			So(IsVietnameseWord("?!", vocab), ShouldBeFalse)
		})
	})
}

func TestSegmentExtractor_Extract(t *testing.T) {
	Convey("SegmentExtractor.Extract", t, func() {
		se := NewSegmentExtractor()

		Convey("an all-English line is one segment", func() {
			segs := se.Extract("I love this place", nil)
			So(segs, ShouldHaveLength, 1)
			So(segs[0].Text, ShouldEqual, "I love this place")
			So(segs[0].Vietnamese, ShouldBeFalse)
		})

		Convey("embedded Vietnamese words split the line", func() {
			segs := se.Extract("I just had phở for lunch", nil)
			So(segs, ShouldHaveLength, 3)
			So(segs[0].Text, ShouldEqual, "I just had")
			So(segs[1].Text, ShouldEqual, "phở")
			So(segs[1].Vietnamese, ShouldBeTrue)
			So(segs[2].Text, ShouldEqual, "for lunch")
		})

		Convey("known phrases never straddle a boundary", func() {
			segs := se.Extract("Let's get cà phê together", nil)
			So(segs, ShouldHaveLength, 3)
			So(segs[1].Text, ShouldEqual, "cà phê")
			So(segs[1].Vietnamese, ShouldBeTrue)
		})

		Convey("consecutive Vietnamese words merge into one segment", func() {
			segs := se.Extract("She said xin chào to me", map[string]bool{"xin": true, "chào": true})
			So(segs, ShouldHaveLength, 3)
			So(segs[1].Text, ShouldEqual, "xin chào")
			So(segs[1].Vietnamese, ShouldBeTrue)
		})

		Convey("an empty line yields no segments", func() {
			So(se.Extract("", nil), ShouldBeEmpty)
		})
	})
}

func TestExtractVietnamesePhrases(t *testing.T) {
	Convey("ExtractVietnamesePhrases", t, func() {
		Convey("phrases come first, standalone words after", func() {
			found := ExtractVietnamesePhrases("We ate bánh mì and uống nước", map[string]bool{"uống": true})
			So(found, ShouldContain, "bánh mì")
			So(found, ShouldContain, "uống")
			So(found[0], ShouldEqual, "bánh mì")
		})

		Convey("words inside a phrase are not reported twice", func() {
			found := ExtractVietnamesePhrases("I drink cà phê daily", nil)
			So(found, ShouldResemble, []string{"cà phê"})
		})

		Convey("no Vietnamese content yields nothing", func() {
			So(ExtractVietnamesePhrases("just plain English here", nil), ShouldBeEmpty)
		})
	})
}
