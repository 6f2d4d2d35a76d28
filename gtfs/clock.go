package gtfs

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedTime is returned for stop times that are not H:MM:SS.
var ErrMalformedTime = errors.New("malformed time")

// ParseClock converts "HH:MM:SS" to seconds after midnight of the service day.
// Hours above 23 are accepted as written in the feed.
func ParseClock(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTime, s)
	}
	var v [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || (i > 0 && (n > 59 || len(p) != 2)) {
			return 0, fmt.Errorf("%w: %q", ErrMalformedTime, s)
		}
		v[i] = n
	}
	return v[0]*3600 + v[1]*60 + v[2], nil
}

// FormatClock renders seconds after midnight as "HH:MM".
func FormatClock(sec int) string {
	if sec < 0 {
		sec = 0
	}
	return fmt.Sprintf("%02d:%02d", sec/3600, (sec%3600)/60)
}

// Departure returns the departure second of st, falling back to its arrival.
func (st StopTime) Departure() (int, error) {
	if st.DepartureTime != "" {
		return ParseClock(st.DepartureTime)
	}
	return ParseClock(st.ArrivalTime)
}

// Arrival returns the arrival second of st, falling back to its departure.
func (st StopTime) Arrival() (int, error) {
	if st.ArrivalTime != "" {
		return ParseClock(st.ArrivalTime)
	}
	return ParseClock(st.DepartureTime)
}
