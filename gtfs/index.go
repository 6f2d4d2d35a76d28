package gtfs

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownStop is returned when a stop time references a stop that is not in stops.txt.
var ErrUnknownStop = errors.New("unknown stop")

// Index is a read-only view over Tables with lookups precomputed once per
// snapshot. It is safe for concurrent use.
type Index struct {
	tables *Tables

	stopByID        map[string]int                 // stop_id -> position in Stops
	routeByID       map[string]int                 // route_id -> position in Routes
	tripByID        map[string]int                 // trip_id -> position in Trips
	fareByID        map[string]int                 // fare_id -> position in FareAttributes
	tripsByRoute    map[string][]int               // route_id -> trip positions
	stopTimesByTrip map[string][]StopTime          // trip_id -> stop times ordered by sequence
	stopTimesByStop map[string][]StopTime          // stop_id -> stop times in table order
	routesByStop    map[string]map[string]struct{} // stop_id -> route_id set
	fares           *FareResolver
}

// NewIndex builds an Index over t. t must not be modified afterwards.
func NewIndex(t *Tables) *Index {
	if t == nil {
		t = &Tables{}
	}
	ix := &Index{
		tables:          t,
		stopByID:        make(map[string]int, len(t.Stops)),
		routeByID:       make(map[string]int, len(t.Routes)),
		tripByID:        make(map[string]int, len(t.Trips)),
		fareByID:        make(map[string]int, len(t.FareAttributes)),
		tripsByRoute:    map[string][]int{},
		stopTimesByTrip: map[string][]StopTime{},
		stopTimesByStop: map[string][]StopTime{},
		routesByStop:    map[string]map[string]struct{}{},
	}
	for i, s := range t.Stops {
		ix.stopByID[s.ID] = i
	}
	for i, r := range t.Routes {
		ix.routeByID[r.ID] = i
	}
	for i, tr := range t.Trips {
		ix.tripByID[tr.ID] = i
		ix.tripsByRoute[tr.RouteID] = append(ix.tripsByRoute[tr.RouteID], i)
	}
	for i, fa := range t.FareAttributes {
		ix.fareByID[fa.FareID] = i
	}
	for _, st := range t.StopTimes {
		ix.stopTimesByTrip[st.TripID] = append(ix.stopTimesByTrip[st.TripID], st)
		ix.stopTimesByStop[st.StopID] = append(ix.stopTimesByStop[st.StopID], st)
		pos, ok := ix.tripByID[st.TripID]
		if !ok {
			continue
		}
		routeID := t.Trips[pos].RouteID
		set, ok := ix.routesByStop[st.StopID]
		if !ok {
			set = map[string]struct{}{}
			ix.routesByStop[st.StopID] = set
		}
		set[routeID] = struct{}{}
	}
	for _, sts := range ix.stopTimesByTrip {
		sort.SliceStable(sts, func(i, j int) bool { return sts[i].StopSequence < sts[j].StopSequence })
	}
	ix.fares = NewFareResolver(t.FareRules, t.FareAttributes)
	return ix
}

// Tables returns the tables the index was built from. Callers must not modify them.
func (ix *Index) Tables() *Tables { return ix.tables }

// Empty reports whether the index lacks the stops or stop times needed to plan.
func (ix *Index) Empty() bool {
	return ix == nil || len(ix.tables.Stops) == 0 || len(ix.tables.StopTimes) == 0
}

// Stops returns every stop in table order.
func (ix *Index) Stops() []Stop { return ix.tables.Stops }

// Routes returns every route in table order.
func (ix *Index) Routes() []Route { return ix.tables.Routes }

// Stop looks up a stop by id.
func (ix *Index) Stop(id string) (Stop, bool) {
	i, ok := ix.stopByID[id]
	if !ok {
		return Stop{}, false
	}
	return ix.tables.Stops[i], true
}

// Route looks up a route by id.
func (ix *Index) Route(id string) (Route, bool) {
	i, ok := ix.routeByID[id]
	if !ok {
		return Route{}, false
	}
	return ix.tables.Routes[i], true
}

// Trip looks up a trip by id.
func (ix *Index) Trip(id string) (Trip, bool) {
	i, ok := ix.tripByID[id]
	if !ok {
		return Trip{}, false
	}
	return ix.tables.Trips[i], true
}

// FareAttribute looks up a fare attribute by fare id.
func (ix *Index) FareAttribute(id string) (FareAttribute, bool) {
	i, ok := ix.fareByID[id]
	if !ok {
		return FareAttribute{}, false
	}
	return ix.tables.FareAttributes[i], true
}

// FareRules returns fare rules in table order.
func (ix *Index) FareRules() []FareRule { return ix.tables.FareRules }

// Fares returns the resolver over this snapshot's fare tables.
func (ix *Index) Fares() *FareResolver { return ix.fares }

// StopTimesAt returns every stop time serving stopID.
func (ix *Index) StopTimesAt(stopID string) []StopTime {
	return ix.stopTimesByStop[stopID]
}

// TripsForRoute returns the trips of routeID in table order.
func (ix *Index) TripsForRoute(routeID string) []Trip {
	positions := ix.tripsByRoute[routeID]
	out := make([]Trip, 0, len(positions))
	for _, p := range positions {
		out = append(out, ix.tables.Trips[p])
	}
	return out
}

// StopTimesForTrip returns the stop times of tripID ordered by stop sequence.
func (ix *Index) StopTimesForTrip(tripID string) []StopTime {
	return ix.stopTimesByTrip[tripID]
}

// StopsForTrip returns the stops visited by tripID in sequence order.
func (ix *Index) StopsForTrip(tripID string) ([]Stop, error) {
	sts := ix.stopTimesByTrip[tripID]
	out := make([]Stop, 0, len(sts))
	for _, st := range sts {
		s, ok := ix.Stop(st.StopID)
		if !ok {
			return nil, fmt.Errorf("trip %s: %w %s", tripID, ErrUnknownStop, st.StopID)
		}
		out = append(out, s)
	}
	return out, nil
}

// StopsForRoute returns the distinct stops served by any trip of routeID, in
// first-visit order.
func (ix *Index) StopsForRoute(routeID string) []Stop {
	seen := map[string]bool{}
	var out []Stop
	for _, p := range ix.tripsByRoute[routeID] {
		for _, st := range ix.stopTimesByTrip[ix.tables.Trips[p].ID] {
			if seen[st.StopID] {
				continue
			}
			seen[st.StopID] = true
			if s, ok := ix.Stop(st.StopID); ok {
				out = append(out, s)
			}
		}
	}
	return out
}

// RouteServesStop reports whether routeID has a trip calling at stopID.
func (ix *Index) RouteServesStop(stopID, routeID string) bool {
	_, ok := ix.routesByStop[stopID][routeID]
	return ok
}

// RoutesServingBothStops returns the routes with trips calling at both a and
// b, in routes.txt order. Direction is not checked here.
func (ix *Index) RoutesServingBothStops(a, b string) []Route {
	setA, setB := ix.routesByStop[a], ix.routesByStop[b]
	if len(setA) == 0 || len(setB) == 0 {
		return nil
	}
	var out []Route
	for _, r := range ix.tables.Routes {
		_, inA := setA[r.ID]
		_, inB := setB[r.ID]
		if inA && inB {
			out = append(out, r)
		}
	}
	return out
}

// Timezone returns the agency timezone, or fallback when the feed has none.
func (ix *Index) Timezone(fallback string) string {
	for _, a := range ix.tables.Agencies {
		if a.Timezone != "" {
			return a.Timezone
		}
	}
	return fallback
}
