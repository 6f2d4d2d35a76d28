package gtfs

import (
	"math"
	"strings"
)

// validate drops rows missing required fields, duplicating a key, naming an
// unknown parent row or carrying a malformed time, in place, and returns the
// number of rows dropped per file.
func (t *Tables) validate() map[string]int {
	dropped := map[string]int{}

	stopIDs := map[string]bool{}
	t.Stops = keep(t.Stops, func(s Stop) bool {
		ok := strings.TrimSpace(s.ID) != "" && s.Name != "" && !stopIDs[s.ID] && validCoordinate(s.Lat, s.Lon)
		if ok {
			stopIDs[s.ID] = true
		}
		return ok
	}, "stops.txt", dropped)

	routeIDs := map[string]bool{}
	t.Routes = keep(t.Routes, func(r Route) bool {
		ok := r.ID != "" && !routeIDs[r.ID]
		if ok {
			routeIDs[r.ID] = true
		}
		return ok
	}, "routes.txt", dropped)

	tripIDs := map[string]bool{}
	t.Trips = keep(t.Trips, func(tr Trip) bool {
		ok := tr.ID != "" && routeIDs[tr.RouteID] && !tripIDs[tr.ID]
		if ok {
			tripIDs[tr.ID] = true
		}
		return ok
	}, "trips.txt", dropped)

	type tripSeq struct {
		trip string
		seq  int
	}
	seqs := map[tripSeq]bool{}
	t.StopTimes = keep(t.StopTimes, func(st StopTime) bool {
		key := tripSeq{st.TripID, st.StopSequence}
		ok := tripIDs[st.TripID] && stopIDs[st.StopID] && !seqs[key] && validTimes(st)
		if ok {
			seqs[key] = true
		}
		return ok
	}, "stop_times.txt", dropped)

	fareIDs := map[string]bool{}
	t.FareAttributes = keep(t.FareAttributes, func(fa FareAttribute) bool {
		ok := fa.FareID != "" && fa.Price >= 0 && !math.IsNaN(fa.Price) && !fareIDs[fa.FareID]
		if ok {
			fareIDs[fa.FareID] = true
		}
		return ok
	}, "fare_attributes.txt", dropped)

	t.FareRules = keep(t.FareRules, func(fr FareRule) bool {
		return fr.FareID != "" && fr.RouteID != ""
	}, "fare_rules.txt", dropped)

	return dropped
}

// validTimes requires at least one time and every present time to parse.
func validTimes(st StopTime) bool {
	if st.ArrivalTime == "" && st.DepartureTime == "" {
		return false
	}
	for _, v := range []string{st.ArrivalTime, st.DepartureTime} {
		if v == "" {
			continue
		}
		if _, err := ParseClock(v); err != nil {
			return false
		}
	}
	return true
}

func keep[T any](rows []T, ok func(T) bool, file string, dropped map[string]int) []T {
	out := rows[:0]
	for _, row := range rows {
		if ok(row) {
			out = append(out, row)
			continue
		}
		dropped[file]++
	}
	return out
}

// validCoordinate rejects out of range values and the 0,0 placeholder left by
// empty columns.
func validCoordinate(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) || (lat == 0 && lon == 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
