package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/theoremus-urban-solutions/gtfs-route-planner/gtfs"
	"github.com/theoremus-urban-solutions/gtfs-route-planner/gtfsrt"
	"github.com/theoremus-urban-solutions/gtfs-route-planner/utils"
)

type nearbyStopResponse struct {
	gtfs.NearbyStop
	DistanceText   string `json:"distanceText"`
	WalkingMinutes int    `json:"walkingMinutes"`
}

func (s *Server) handleNearbyStops(c *fiber.Ctx) error {
	p, err := parsePoint(c.Query("lat"), c.Query("lon"))
	if err != nil {
		return badRequest(c, err)
	}
	radius, err := parseRadius(c.Query("radius"))
	if err != nil {
		return badRequest(c, err)
	}
	if radius == 0 {
		radius = s.cfg.Planner.MaxWalkingMeters
	}

	ix := s.static.Index()
	if ix.Empty() {
		c.Status(fiber.StatusServiceUnavailable)
		return c.JSON(fiber.Map{"error": "Schedule data not loaded"})
	}

	nearby := gtfs.NearbyStops(p, ix.Stops(), radius)
	out := make([]nearbyStopResponse, 0, len(nearby))
	for _, ns := range nearby {
		out = append(out, nearbyStopResponse{
			NearbyStop:     ns,
			DistanceText:   utils.PresentableDistance(ns.Distance),
			WalkingMinutes: utils.WalkingMinutes(ns.Distance, s.cfg.Planner.WalkingSpeed),
		})
	}
	return c.JSON(out)
}

type spotResponse struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Position    utils.Point      `json:"position"`
	NearestStop *gtfs.NearbyStop `json:"nearestStop"`
}

func (s *Server) handleSpots(c *fiber.Ctx) error {
	ix := s.static.Index()
	out := make([]spotResponse, 0, len(s.cfg.Spots))
	for _, spot := range s.cfg.Spots {
		r := spotResponse{ID: spot.ID, Name: spot.Name, Position: utils.Point{Lat: spot.Lat, Lon: spot.Lon}}
		if !ix.Empty() {
			if ns, ok := gtfs.NearestStop(r.Position, ix.Stops()); ok {
				r.NearestStop = &ns
			}
		}
		out = append(out, r)
	}
	return c.JSON(out)
}

type vehicleResponse struct {
	gtfsrt.VehiclePosition
	OccupancyDescription string `json:"occupancyDescription"`
	RecordedAt           string `json:"recordedAt,omitempty"`
}

func (s *Server) handleVehicles(c *fiber.Ctx) error {
	snap := s.live.Current()
	if snap == nil {
		c.Status(fiber.StatusServiceUnavailable)
		return c.JSON(fiber.Map{"error": "Live data not loaded"})
	}
	route := strings.TrimSpace(c.Query("route"))

	out := []vehicleResponse{}
	for _, v := range snap.Vehicles() {
		if route != "" && v.RouteID != route {
			continue
		}
		desc := gtfsrt.UnknownOccupancyDescription
		if v.HasOccupancy {
			desc = v.Occupancy.Description()
		}
		out = append(out, vehicleResponse{
			VehiclePosition:      v,
			OccupancyDescription: desc,
			RecordedAt:           utils.Iso8601FromUnixSeconds(v.Timestamp),
		})
	}
	return c.JSON(out)
}
