// Package timefmt renders elapsed times the way record announcements show
// them: "1h 01m 01s", "01m 05.500s", "09.999s".
package timefmt

import (
	"fmt"
	"math"
	"strings"
)

const (
	secondsPerMinute = 60
	secondsPerHour   = 3600
)

// Seconds formats a non-negative elapsed time in seconds.
//
// The hour segment appears only when the hour count is positive and is not
// zero-padded. The minute segment appears only when the minute-of-hour is
// positive, zero-padded to two digits. The seconds segment is always
// present, zero-padded to two integer digits with three decimals; a decimal
// part of exactly .000 is dropped together with the dot.
func Seconds(t float64) string {
	secs := math.Mod(t, secondsPerMinute)
	secStr := fmt.Sprintf("%06.3f", secs)
	secStr = strings.TrimSuffix(secStr, ".000")

	min := int(t/secondsPerMinute) % secondsPerMinute
	minStr := ""
	if min > 0 {
		minStr = fmt.Sprintf("%02dm ", min)
	}

	hour := int(t / secondsPerHour)
	hStr := ""
	if hour > 0 {
		hStr = fmt.Sprintf("%dh ", hour)
	}

	return hStr + minStr + secStr + "s"
}
