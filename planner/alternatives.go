package planner

import (
	"time"

	"github.com/jinzhu/copier"
	"github.com/theoremus-urban-solutions/gtfs-route-planner/gtfs"
	"github.com/theoremus-urban-solutions/gtfs-route-planner/gtfsrt"
)

// Thresholds are the highest occupancy a rider accepts before alternatives
// are suggested.
type Thresholds struct {
	// Sensitive applies to riders with luggage.
	Sensitive gtfsrt.OccupancyLevel
	// Tolerant applies to everyone else.
	Tolerant gtfsrt.OccupancyLevel
}

// DefaultThresholds: riders with a suitcase want a seat, others accept standing.
var DefaultThresholds = Thresholds{
	Sensitive: gtfsrt.ManySeatsAvailable,
	Tolerant:  gtfsrt.StandingRoomOnly,
}

// For returns the threshold for a rider.
func (t Thresholds) For(hasLuggage bool) gtfsrt.OccupancyLevel {
	if hasLuggage {
		return t.Sensitive
	}
	return t.Tolerant
}

// ShouldSuggestAlternative reports whether level is strictly worse than threshold.
func ShouldSuggestAlternative(level, threshold gtfsrt.OccupancyLevel) bool {
	return level > threshold
}

// Alternatives proposes itineraries for a main route that is more crowded than
// threshold: the next departure of the same route from the same stops, then
// one itinerary per other route serving stops near both ends. Only
// alternatives at or below threshold are returned, at most one per route and
// reason, in generation order.
func (p *Planner) Alternatives(origin, destination Endpoint, ref time.Time, main *RouteInfo, threshold gtfsrt.OccupancyLevel) ([]AlternativeRoute, error) {
	if main == nil || !ShouldSuggestAlternative(main.Occupancy, threshold) {
		return nil, nil
	}
	s, kind := p.newSearch(origin, destination, ref)
	if kind != "" {
		return nil, nil
	}

	var alternatives []AlternativeRoute
	add := func(info *RouteInfo, reason AlternativeReason) {
		if info == nil || info.Occupancy > threshold {
			return
		}
		alternatives = append(alternatives, AlternativeRoute{
			RouteInfo:   *info,
			Reason:      reason,
			Description: reason.Description(),
		})
	}

	next, err := p.nextDeparture(s, main)
	if err != nil {
		return nil, err
	}
	add(next, ReasonOccupancy)

	for _, route := range p.candidateRoutes(s) {
		if route.ID == main.RouteID {
			continue
		}
		info, err := p.planBetween(s, s.ref, route.ID)
		if err != nil {
			return nil, err
		}
		add(info, ReasonLessWalking)
	}
	return alternatives, nil
}

// nextDeparture finds the first trip of the main route that leaves the main
// route's boarding stop after the main route does. The result is a copy of
// main with the trip fields replaced; stops, fare and walking are unchanged.
func (p *Planner) nextDeparture(s *search, main *RouteInfo) (*RouteInfo, error) {
	m, found, err := p.matcher.FindTrip(main.DepartureStop.StopID, main.ArrivalStop.StopID, main.DepartureSeconds+1, main.RouteID)
	if err != nil || !found || m.Trip.ID == main.TripID {
		return nil, err
	}
	next := &RouteInfo{}
	if err := copier.CopyWithOption(next, main, copier.Option{DeepCopy: true}); err != nil {
		return nil, err
	}
	if err := p.applyTrip(s, next, m); err != nil {
		return nil, err
	}
	return next, nil
}

// candidateRoutes returns the routes, in routes.txt order, calling at some
// stop near the origin and some stop near the destination.
func (p *Planner) candidateRoutes(s *search) []gtfs.Route {
	var out []gtfs.Route
	for _, r := range p.ix.Routes() {
		if p.servesAny(s.originStops, r.ID) && p.servesAny(s.destinationStops, r.ID) {
			out = append(out, r)
		}
	}
	return out
}

func (p *Planner) servesAny(stops []gtfs.NearbyStop, routeID string) bool {
	for _, ns := range stops {
		if p.ix.RouteServesStop(ns.Stop.ID, routeID) {
			return true
		}
	}
	return false
}
