package planner

import (
	"fmt"

	"github.com/theoremus-urban-solutions/gtfs-route-planner/gtfs"
	"golang.org/x/exp/slices"
)

// TripMatch is a trip that rides from an origin stop to a destination stop.
type TripMatch struct {
	Trip  gtfs.Trip
	Route gtfs.Route
	// StopTimes runs from the origin call to the destination call, inclusive.
	StopTimes []gtfs.StopTime
	Departure int
	Arrival   int
}

// TripMatcher finds the earliest trip between two stops.
type TripMatcher struct {
	ix *gtfs.Index
}

// NewTripMatcher creates a matcher over ix.
func NewTripMatcher(ix *gtfs.Index) *TripMatcher {
	return &TripMatcher{ix: ix}
}

// FindTrip returns the trip with the earliest departure from originStopID at
// or after notBefore (service-day seconds) that later calls at
// destinationStopID. Ties go to the earliest arrival, then the lowest trip id.
// When routeIDs is non-empty only those routes are searched. found is false
// when nothing qualifies; err is only set for malformed stop times.
func (m *TripMatcher) FindTrip(originStopID, destinationStopID string, notBefore int, routeIDs ...string) (match TripMatch, found bool, err error) {
	for _, route := range m.ix.RoutesServingBothStops(originStopID, destinationStopID) {
		if len(routeIDs) > 0 && !slices.Contains(routeIDs, route.ID) {
			continue
		}
		for _, trip := range m.ix.TripsForRoute(route.ID) {
			sts := m.ix.StopTimesForTrip(trip.ID)
			from, to := segment(sts, originStopID, destinationStopID)
			if from < 0 {
				continue
			}
			dep, err := sts[from].Departure()
			if err != nil {
				return TripMatch{}, false, fmt.Errorf("trip %s departure: %w", trip.ID, err)
			}
			if dep < notBefore {
				continue
			}
			arr, err := sts[to].Arrival()
			if err != nil {
				return TripMatch{}, false, fmt.Errorf("trip %s arrival: %w", trip.ID, err)
			}
			candidate := TripMatch{
				Trip:      trip,
				Route:     route,
				StopTimes: sts[from : to+1],
				Departure: dep,
				Arrival:   arr,
			}
			if !found || candidate.before(match) {
				match, found = candidate, true
			}
		}
	}
	return match, found, nil
}

func (a TripMatch) before(b TripMatch) bool {
	if a.Departure != b.Departure {
		return a.Departure < b.Departure
	}
	if a.Arrival != b.Arrival {
		return a.Arrival < b.Arrival
	}
	return a.Trip.ID < b.Trip.ID
}

// segment returns the positions of the origin and destination calls in sts,
// or -1, -1 when the destination is never reached after the origin. On loop
// trips the latest origin call before the destination is used.
func segment(sts []gtfs.StopTime, originStopID, destinationStopID string) (int, int) {
	from := -1
	for i, st := range sts {
		switch {
		case st.StopID == originStopID:
			from = i
		case st.StopID == destinationStopID && from >= 0:
			return from, i
		}
	}
	return -1, -1
}
