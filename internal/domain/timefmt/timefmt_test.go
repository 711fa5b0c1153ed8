package timefmt_test

import (
	"testing"

	"github.com/okian/srcwatch/internal/domain/timefmt"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSeconds(t *testing.T) {
	Convey("Given the announcement time formatter", t, func() {
		Convey("When formatting sub-minute times", func() {
			So(timefmt.Seconds(9.999), ShouldEqual, "09.999s")
			So(timefmt.Seconds(59.5), ShouldEqual, "59.500s")
			So(timefmt.Seconds(7), ShouldEqual, "07s")
		})

		Convey("When formatting zero", func() {
			So(timefmt.Seconds(0), ShouldEqual, "00s")
		})

		Convey("When formatting times with minutes", func() {
			So(timefmt.Seconds(65.5), ShouldEqual, "01m 05.500s")
			So(timefmt.Seconds(600), ShouldEqual, "10m 00s")
			So(timefmt.Seconds(3599), ShouldEqual, "59m 59s")
		})

		Convey("When formatting times with hours", func() {
			So(timefmt.Seconds(3661), ShouldEqual, "1h 01m 01s")
			So(timefmt.Seconds(7322.25), ShouldEqual, "2h 02m 02.250s")
			So(timefmt.Seconds(36000), ShouldEqual, "10h 00s")
		})

		Convey("When the minute-of-hour is zero it is omitted", func() {
			// 1h exactly plus seconds only
			So(timefmt.Seconds(3605), ShouldEqual, "1h 05s")
		})

		Convey("When the decimal part is exactly zero it is dropped", func() {
			So(timefmt.Seconds(90), ShouldEqual, "01m 30s")
			So(timefmt.Seconds(90.001), ShouldEqual, "01m 30.001s")
		})
	})
}
