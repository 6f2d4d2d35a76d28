package api

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/theoremus-urban-solutions/gtfs-route-planner/gtfs"
	"github.com/theoremus-urban-solutions/gtfs-route-planner/gtfsrt"
	"github.com/theoremus-urban-solutions/gtfs-route-planner/utils"
	"golang.org/x/exp/slices"
)

const defaultDepartureLimit = 10

type departureResponse struct {
	TripID               string                 `json:"tripId"`
	RouteID              string                 `json:"routeId"`
	RouteName            string                 `json:"routeName"`
	Headsign             string                 `json:"headsign"`
	DepartureTime        string                 `json:"departureTime"`
	Occupancy            *gtfsrt.OccupancyLevel `json:"occupancy,omitempty"`
	OccupancyDescription string                 `json:"occupancyDescription"`
	Crowded              bool                   `json:"crowded"`
	VehicleID            string                 `json:"vehicleId,omitempty"`

	departure int
}

type departuresResponse struct {
	Stop       gtfs.Stop           `json:"stop"`
	Departures []departureResponse `json:"departures"`
}

// scheduleLoaded returns the current index. When nothing is loaded yet it
// writes a 503 and returns a nil index along with the write error.
func (s *Server) scheduleLoaded(c *fiber.Ctx) (*gtfs.Index, error) {
	ix := s.static.Index()
	if ix.Empty() {
		c.Status(fiber.StatusServiceUnavailable)
		return nil, c.JSON(fiber.Map{"error": "Schedule data not loaded"})
	}
	return ix, nil
}

func notFound(c *fiber.Ctx, msg string) error {
	c.Status(fiber.StatusNotFound)
	return c.JSON(fiber.Map{"error": msg})
}

func parseLimit(raw string) (int, error) {
	if raw == "" {
		return defaultDepartureLimit, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v <= 0 {
		return 0, &QueryError{Msg: "Parameter limit must be a positive integer."}
	}
	return v, nil
}

// handleDepartures lists the next departures from a stop at or after the
// reference time, with live occupancy when the vehicle reports it.
func (s *Server) handleDepartures(c *fiber.Ctx) error {
	loc := s.location()
	ref, err := parseReferenceTime(c.Query("time"), s.now(), loc)
	if err != nil {
		return badRequest(c, err)
	}
	limit, err := parseLimit(c.Query("limit"))
	if err != nil {
		return badRequest(c, err)
	}
	ix, err := s.scheduleLoaded(c)
	if ix == nil {
		return err
	}
	stop, ok := ix.Stop(c.Params("id"))
	if !ok {
		return notFound(c, "No such stop: "+c.Params("id"))
	}

	notBefore := utils.SecondsOfDay(ref, loc)
	snap := s.live.Current()

	out := []departureResponse{}
	for _, st := range ix.StopTimesAt(stop.ID) {
		dep, err := st.Departure()
		if err != nil {
			return internalError(c, "Malformed schedule", err)
		}
		if dep < notBefore {
			continue
		}
		trip, ok := ix.Trip(st.TripID)
		if !ok {
			continue
		}
		d := departureResponse{
			TripID:               trip.ID,
			RouteID:              trip.RouteID,
			Headsign:             trip.Headsign,
			DepartureTime:        gtfs.FormatClock(dep),
			OccupancyDescription: gtfsrt.UnknownOccupancyDescription,
			departure:            dep,
		}
		if route, ok := ix.Route(trip.RouteID); ok {
			d.RouteName = route.DisplayName()
		}
		if v, ok := snap.VehicleForTrip(trip.ID); ok {
			d.VehicleID = v.VehicleID
			if v.HasOccupancy {
				level := v.Occupancy
				d.Occupancy = &level
				d.OccupancyDescription = level.Description()
				d.Crowded = level.Crowded()
			}
		}
		out = append(out, d)
	}

	slices.SortStableFunc(out, func(a, b departureResponse) int {
		if a.departure != b.departure {
			return a.departure - b.departure
		}
		return strings.Compare(a.TripID, b.TripID)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return c.JSON(departuresResponse{Stop: stop, Departures: out})
}

type routeStopsResponse struct {
	Route gtfs.Route  `json:"route"`
	Stops []gtfs.Stop `json:"stops"`
}

func (s *Server) handleRouteStops(c *fiber.Ctx) error {
	ix, err := s.scheduleLoaded(c)
	if ix == nil {
		return err
	}
	route, ok := ix.Route(c.Params("id"))
	if !ok {
		return notFound(c, "No such route: "+c.Params("id"))
	}
	stops := ix.StopsForRoute(route.ID)
	if stops == nil {
		stops = []gtfs.Stop{}
	}
	return c.JSON(routeStopsResponse{Route: route, Stops: stops})
}

type tripStopResponse struct {
	gtfs.Stop
	ArrivalTime   string `json:"arrivalTime"`
	DepartureTime string `json:"departureTime"`
}

type tripResponse struct {
	TripID   string                  `json:"tripId"`
	Route    gtfs.Route              `json:"route"`
	Headsign string                  `json:"headsign"`
	Stops    []tripStopResponse      `json:"stops"`
	Vehicle  *gtfsrt.VehiclePosition `json:"vehicle,omitempty"`
}

// handleTrip returns a trip's calling pattern and, when reported, its vehicle.
func (s *Server) handleTrip(c *fiber.Ctx) error {
	ix, err := s.scheduleLoaded(c)
	if ix == nil {
		return err
	}
	trip, ok := ix.Trip(c.Params("id"))
	if !ok {
		return notFound(c, "No such trip: "+c.Params("id"))
	}
	stops, err := ix.StopsForTrip(trip.ID)
	if err != nil {
		return internalError(c, "Malformed schedule", err)
	}
	sts := ix.StopTimesForTrip(trip.ID)

	resp := tripResponse{TripID: trip.ID, Headsign: trip.Headsign, Stops: make([]tripStopResponse, 0, len(stops))}
	resp.Route, _ = ix.Route(trip.RouteID)
	for i, stop := range stops {
		arr, err := sts[i].Arrival()
		if err != nil {
			return internalError(c, "Malformed schedule", err)
		}
		dep, err := sts[i].Departure()
		if err != nil {
			return internalError(c, "Malformed schedule", err)
		}
		resp.Stops = append(resp.Stops, tripStopResponse{
			Stop:          stop,
			ArrivalTime:   gtfs.FormatClock(arr),
			DepartureTime: gtfs.FormatClock(dep),
		})
	}
	if v, ok := s.live.Current().VehicleForTrip(trip.ID); ok {
		resp.Vehicle = &v
	}
	return c.JSON(resp)
}

type fareResponse struct {
	RouteID       string  `json:"routeId"`
	OriginID      string  `json:"originId"`
	DestinationID string  `json:"destinationId"`
	FareID        string  `json:"fareId,omitempty"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency,omitempty"`
	Ambiguous     bool    `json:"ambiguous"`
}

// handleFare prices a ride on one route between two stops.
func (s *Server) handleFare(c *fiber.Ctx) error {
	routeID := strings.TrimSpace(c.Query("route"))
	from := strings.TrimSpace(c.Query("from"))
	to := strings.TrimSpace(c.Query("to"))
	if routeID == "" || from == "" || to == "" {
		return badRequest(c, &QueryError{Msg: "You must provide route, from and to."})
	}
	ix, err := s.scheduleLoaded(c)
	if ix == nil {
		return err
	}
	if _, ok := ix.Route(routeID); !ok {
		return notFound(c, "No such route: "+routeID)
	}
	for _, id := range []string{from, to} {
		if _, ok := ix.Stop(id); !ok {
			return notFound(c, "No such stop: "+id)
		}
	}
	fare := ix.Fares().ResolveFare(routeID, from, to)
	return c.JSON(fareResponse{
		RouteID:       routeID,
		OriginID:      from,
		DestinationID: to,
		FareID:        fare.FareID,
		Amount:        fare.Amount,
		Currency:      fare.Currency,
		Ambiguous:     fare.Ambiguous,
	})
}
