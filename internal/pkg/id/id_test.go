package id

import (
	"regexp"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestNewDialogueID(t *testing.T) {
	Convey("NewDialogueID", t, func() {
		Convey("is eight lowercase hex characters", func() {
			re := regexp.MustCompile(`^[a-f0-9]{8}$`)
			for i := 0; i < 50; i++ {
				So(re.MatchString(NewDialogueID()), ShouldBeTrue)
			}
		})

		Convey("does not repeat across calls", func() {
			seen := make(map[string]bool)
			for i := 0; i < 50; i++ {
				seen[NewDialogueID()] = true
			}
			So(len(seen), ShouldEqual, 50)
		})
	})
}

func TestIsValid(t *testing.T) {
	Convey("IsValid accepts UUIDs and rejects everything else", t, func() {
		So(IsValid(New()), ShouldBeTrue)
		So(IsValid("not-a-uuid"), ShouldBeFalse)
		So(IsValid(""), ShouldBeFalse)
	})
}
