package capture

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSynthetic(t *testing.T) {
	Convey("Given a synthetic source", t, func() {
		ctx := context.Background()
		s := NewSynthetic(640, 480)

		Convey("Read returns the placeholder frame", func() {
			img, err := s.Read(ctx)
			So(err, ShouldBeNil)
			So(img.Width, ShouldEqual, 640)
			So(img.Height, ShouldEqual, 480)
			So(img.JPEG, ShouldNotBeEmpty)
		})

		Convey("Read after Close is rejected", func() {
			So(s.Close(), ShouldBeNil)
			_, err := s.Read(ctx)
			So(err, ShouldEqual, ErrClosed)
		})

		Convey("A canceled context is honored", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := s.Read(cctx)
			So(err, ShouldEqual, context.Canceled)
		})
	})
}
