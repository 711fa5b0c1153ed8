package seenwindow_test

import (
	"fmt"
	"testing"

	"github.com/okian/srcwatch/internal/domain/seenwindow"
	. "github.com/smartystreets/goconvey/convey"
)

func TestWindow(t *testing.T) {
	Convey("Given an empty window", t, func() {
		w := seenwindow.New()

		Convey("When pushing a batch", func() {
			w.PushFront([]string{"c", "b", "a"})

			Convey("Then the batch order is preserved at the front", func() {
				So(w.IDs(), ShouldResemble, []string{"c", "b", "a"})
				So(w.Contains("b"), ShouldBeTrue)
				So(w.Contains("z"), ShouldBeFalse)
			})

			Convey("And a later batch lands in front of it", func() {
				w.PushFront([]string{"e", "d"})
				So(w.IDs(), ShouldResemble, []string{"e", "d", "c", "b", "a"})
			})

			Convey("And already-known ids are not duplicated", func() {
				w.PushFront([]string{"b", "x"})
				So(w.IDs(), ShouldResemble, []string{"x", "c", "b", "a"})
				So(w.Len(), ShouldEqual, 4)
			})
		})
	})

	Convey("Given a window at capacity", t, func() {
		w := seenwindow.New(seenwindow.WithSize(5))
		w.PushFront([]string{"e", "d", "c", "b", "a"})

		Convey("When more ids arrive and the window is trimmed", func() {
			w.PushFront([]string{"g", "f"})
			w.Trim()

			Convey("Then the oldest ids fall off the back", func() {
				So(w.Len(), ShouldEqual, 5)
				So(w.IDs(), ShouldResemble, []string{"g", "f", "e", "d", "c"})
			})

			Convey("And dropped ids are forgotten entirely", func() {
				So(w.Contains("a"), ShouldBeFalse)
				So(w.Contains("b"), ShouldBeFalse)

				Convey("So they count as new when they reappear", func() {
					w.PushFront([]string{"a"})
					So(w.Contains("a"), ShouldBeTrue)
				})
			})
		})
	})

	Convey("Given the default window size", t, func() {
		w := seenwindow.New()
		ids := make([]string, 40)
		for i := range ids {
			ids[i] = fmt.Sprintf("run-%02d", i)
		}
		w.PushFront(ids)
		w.Trim()

		Convey("Then at most 30 ids are retained", func() {
			So(w.Len(), ShouldEqual, 30)
			So(w.Contains("run-00"), ShouldBeTrue)
			So(w.Contains("run-29"), ShouldBeTrue)
			So(w.Contains("run-30"), ShouldBeFalse)
		})
	})

	Convey("Given previously persisted ids", t, func() {
		w := seenwindow.New(seenwindow.WithSize(3))

		Convey("When seeding more than capacity", func() {
			w.Seed([]string{"a", "b", "c", "d"})

			Convey("Then seeding trims immediately", func() {
				So(w.IDs(), ShouldResemble, []string{"a", "b", "c"})
				So(w.Contains("d"), ShouldBeFalse)
			})
		})
	})
}
