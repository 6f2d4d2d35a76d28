package planner

import (
	"fmt"
	"time"

	"github.com/theoremus-urban-solutions/gtfs-route-planner/gtfs"
	"github.com/theoremus-urban-solutions/gtfs-route-planner/gtfsrt"
	"github.com/theoremus-urban-solutions/gtfs-route-planner/utils"
)

// Options tunes a Planner.
type Options struct {
	// MaxWalkingMeters bounds the walk to and from stops. Zero uses gtfs.DefaultSearchRadius.
	MaxWalkingMeters float64
	// WalkingSpeed in meters per minute. Zero uses utils.DefaultWalkingSpeed.
	WalkingSpeed float64
	// Location converts reference instants to service time of day. Nil uses
	// the reference time's own location.
	Location *time.Location
}

// Planner answers itinerary questions against one static index and one live
// snapshot. It holds no state between calls.
type Planner struct {
	ix      *gtfs.Index
	live    *gtfsrt.Snapshot
	matcher *TripMatcher
	opts    Options
}

// New creates a planner. A nil live snapshot means live data has not loaded
// yet and every plan reports DataUnavailable.
func New(ix *gtfs.Index, live *gtfsrt.Snapshot, opts Options) *Planner {
	return &Planner{
		ix:      ix,
		live:    live,
		matcher: NewTripMatcher(ix),
		opts:    opts,
	}
}

// search is the per-request candidate set shared by the main route and its
// alternatives.
type search struct {
	originStops      []gtfs.NearbyStop
	destinationStops []gtfs.NearbyStop
	ref              int
}

func (p *Planner) newSearch(origin, destination Endpoint, ref time.Time) (*search, ErrorKind) {
	if p.ix.Empty() || p.live == nil {
		return nil, DataUnavailable
	}
	s := &search{
		originStops:      gtfs.NearbyStops(origin.Position, p.ix.Stops(), p.opts.MaxWalkingMeters),
		destinationStops: gtfs.NearbyStops(destination.Position, p.ix.Stops(), p.opts.MaxWalkingMeters),
		ref:              utils.SecondsOfDay(ref, p.opts.Location),
	}
	if len(s.originStops) == 0 || len(s.destinationStops) == 0 {
		return nil, NoNearbyStop
	}
	return s, ""
}

// Plan finds one walk, ride, walk itinerary from origin to destination leaving
// at or after ref. Expected empty outcomes are reported through ErrorKind;
// err is reserved for corrupt schedule data.
func (p *Planner) Plan(origin, destination Endpoint, ref time.Time) (*RouteInfo, ErrorKind, error) {
	s, kind := p.newSearch(origin, destination, ref)
	if kind != "" {
		return nil, kind, nil
	}
	info, err := p.planBetween(s, s.ref)
	if err != nil {
		return nil, "", err
	}
	if info == nil {
		return nil, NoTripFound, nil
	}
	return info, "", nil
}

// planBetween walks the stop pairs nearest first, origin side outermost, and
// builds the first pair that has a trip.
func (p *Planner) planBetween(s *search, notBefore int, routeIDs ...string) (*RouteInfo, error) {
	for _, o := range s.originStops {
		for _, d := range s.destinationStops {
			if o.Stop.ID == d.Stop.ID {
				continue
			}
			m, ok, err := p.matcher.FindTrip(o.Stop.ID, d.Stop.ID, notBefore, routeIDs...)
			if err != nil {
				return nil, err
			}
			if ok {
				return p.buildRouteInfo(s, o, d, m)
			}
		}
	}
	return nil, nil
}

func (p *Planner) buildRouteInfo(s *search, board, alight gtfs.NearbyStop, m TripMatch) (*RouteInfo, error) {
	fare := p.ix.Fares().ResolveFare(m.Route.ID, board.Stop.ID, alight.Stop.ID)
	walk := WalkingDistance{
		ToFirstStop:  board.Distance,
		FromLastStop: alight.Distance,
	}
	info := &RouteInfo{
		RouteID:       m.Route.ID,
		RouteName:     m.Route.DisplayName(),
		FareAmount:    fare.Amount,
		FareCurrency:  fare.Currency,
		FareAmbiguous: fare.Ambiguous,
		DepartureStop: StopRef{
			StopID:   board.Stop.ID,
			Name:     board.Stop.Name,
			Position: board.Stop.Point(),
		},
		ArrivalStop: StopRef{
			StopID:   alight.Stop.ID,
			Name:     alight.Stop.Name,
			Position: alight.Stop.Point(),
		},
		WalkingDistance: walk,
		WalkingMinutes: WalkingMinutes{
			ToFirstStop:  utils.WalkingMinutes(walk.ToFirstStop, p.opts.WalkingSpeed),
			FromLastStop: utils.WalkingMinutes(walk.FromLastStop, p.opts.WalkingSpeed),
		},
		Transfers: 0,
	}
	if err := p.applyTrip(s, info, m); err != nil {
		return nil, err
	}
	return info, nil
}

// applyTrip sets the fields of info that depend on the matched trip. Route,
// fare and walking fields are left alone.
func (p *Planner) applyTrip(s *search, info *RouteInfo, m TripMatch) error {
	occupancy, reported := p.live.OccupancyFor(m.Trip.ID)

	stops := make([]RouteStop, 0, len(m.StopTimes))
	for i, st := range m.StopTimes {
		stop, ok := p.ix.Stop(st.StopID)
		if !ok {
			return fmt.Errorf("trip %s: %w %s", m.Trip.ID, gtfs.ErrUnknownStop, st.StopID)
		}
		arr, err := st.Arrival()
		if err != nil {
			return fmt.Errorf("trip %s arrival: %w", m.Trip.ID, err)
		}
		dep, err := st.Departure()
		if err != nil {
			return fmt.Errorf("trip %s departure: %w", m.Trip.ID, err)
		}
		between := false
		if i+1 < len(m.StopTimes) && s.ref > dep {
			next, err := m.StopTimes[i+1].Arrival()
			if err != nil {
				return fmt.Errorf("trip %s arrival: %w", m.Trip.ID, err)
			}
			between = s.ref < next
		}
		stops = append(stops, RouteStop{
			Stop:            stop,
			Sequence:        st.StopSequence,
			ArrivalTime:     gtfs.FormatClock(arr),
			DepartureTime:   gtfs.FormatClock(dep),
			VehicleAtStop:   arr <= s.ref && s.ref <= dep,
			CurrentLocation: between,
			Occupancy:       occupancy,
		})
	}

	headsign := m.Trip.Headsign
	if headsign == "" {
		headsign = info.ArrivalStop.Name
	}
	minutes := (m.Arrival - m.Departure) / 60

	info.ID = fmt.Sprintf("route-%s-%s", m.Route.ID, m.Trip.ID)
	info.TripID = m.Trip.ID
	info.Headsign = headsign
	info.Stops = stops
	info.TotalMinutes = minutes
	info.TotalTime = utils.FormatTravelTime(minutes)
	info.DepartureStop.Time = gtfs.FormatClock(m.Departure)
	info.ArrivalStop.Time = gtfs.FormatClock(m.Arrival)
	info.Occupancy = occupancy
	info.OccupancyReported = reported
	info.DepartureSeconds = m.Departure
	info.ArrivalSeconds = m.Arrival
	return nil
}
