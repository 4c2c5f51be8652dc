package tags

import (
	"fmt"
	"iter"
	"strings"
	"time"
)

// hourShift moves the hour boundary to 49 minutes past, so that 10:49 through
// 11:48 all tag as 11am.
const hourShift = 11 * time.Minute

// Datetime yields the year, month, day, weekday, and hour tags for t, or
// nothing for the zero time.
func Datetime(t time.Time) iter.Seq[string] {
	return func(yield func(string) bool) {
		if t.IsZero() {
			return
		}

		// weekdays count from monday
		wd := (int(t.Weekday()) + 6) % 7
		hour := t.Add(hourShift)

		for _, s := range []string{
			fmt.Sprintf("y:%04d", t.Year()),
			fmt.Sprintf("m:%02d:%s", int(t.Month()), strings.ToLower(t.Month().String())),
			fmt.Sprintf("d:%02d:%s", t.Day(), Ordinal(t.Day())),
			fmt.Sprintf("w:%d:%s", wd, strings.ToLower(t.Weekday().String())),
			fmt.Sprintf("h:%02d:%s", hour.Hour(), clock(hour.Hour())),
		} {
			if !yield(s) {
				return
			}
		}
	}
}

// DatetimeTags collects Datetime into a Set.
func DatetimeTags(t time.Time) Set {
	s := Set{}
	for tag := range Datetime(t) {
		s.Add(tag)
	}
	return s
}

// Ordinal renders n as "1st", "2nd", "13th", "22nd".
func Ordinal(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}

// clock renders a 24-hour value as "12am", "1pm".
func clock(h int) string {
	suffix := "am"
	if h >= 12 {
		suffix = "pm"
	}
	if h %= 12; h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d%s", h, suffix)
}
