package local

import (
	"context"
	"io"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLocalStorage(t *testing.T) {
	Convey("local.Storage", t, func() {
		ctx := context.Background()
		base := t.TempDir()

		s, err := NewStorage(base, "")
		So(err, ShouldBeNil)
		So(s.Type(), ShouldEqual, "local")

		Convey("Upload writes the object and Download reads it back", func() {
			url, err := s.Upload(ctx, "videos/background_a1b2.mp4", strings.NewReader("video-bytes"), 11, "video/mp4")
			So(err, ShouldBeNil)
			So(url, ShouldStartWith, "file://")
			So(url, ShouldEndWith, "videos/background_a1b2.mp4")

			rc, err := s.Download(ctx, "videos/background_a1b2.mp4")
			So(err, ShouldBeNil)
			defer rc.Close()
			data, err := io.ReadAll(rc)
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, "video-bytes")
		})

		Convey("Exists reflects uploads and deletes", func() {
			ok, err := s.Exists(ctx, "missing.mp4")
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)

			_, err = s.Upload(ctx, "a.mp4", strings.NewReader("x"), 1, "video/mp4")
			So(err, ShouldBeNil)
			ok, err = s.Exists(ctx, "a.mp4")
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)

			So(s.Delete(ctx, "a.mp4"), ShouldBeNil)
			ok, err = s.Exists(ctx, "a.mp4")
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)
		})

		Convey("deleting a missing object is not an error", func() {
			So(s.Delete(ctx, "never-there.mp4"), ShouldBeNil)
		})

		Convey("a base URL replaces the file:// scheme", func() {
			withURL, err := NewStorage(base, "https://cdn.example.com/media/")
			So(err, ShouldBeNil)

			url, err := withURL.GetURL(ctx, "videos/a.mp4")
			So(err, ShouldBeNil)
			So(url, ShouldEqual, "https://cdn.example.com/media/videos/a.mp4")
		})

		Convey("an empty base path is rejected", func() {
			_, err := NewStorage("", "")
			So(err, ShouldNotBeNil)
		})
	})
}
