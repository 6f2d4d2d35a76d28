package utils

import (
	"fmt"
	"time"
)

// Iso8601FromUnixSeconds converts Unix timestamp to ISO8601 format
func Iso8601FromUnixSeconds(sec int64) string {
	if sec <= 0 {
		return ""
	}
	return time.Unix(sec, 0).UTC().Format(time.RFC3339)
}

// FormatTravelTime renders a duration in minutes the way riders read it on
// timetables: "1時間5分" from an hour up, "30分" below.
func FormatTravelTime(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	hours := minutes / 60
	rest := minutes % 60
	return ternary(hours > 0, fmt.Sprintf("%d時間%d分", hours, rest), fmt.Sprintf("%d分", rest))
}

// SecondsOfDay returns the seconds elapsed since local midnight of t in loc.
// A nil loc uses t's own location.
func SecondsOfDay(t time.Time, loc *time.Location) int {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Hour()*3600 + t.Minute()*60 + t.Second()
}
