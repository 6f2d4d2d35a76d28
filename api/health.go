package api

import "github.com/gofiber/fiber/v2"

type healthResponse struct {
	Status                  string `json:"status"`
	LatestGTFSRealtimeEpoch int64  `json:"latest_gtfsrt_epoch"`
	Vehicles                int    `json:"vehicles"`
	Stops                   int    `json:"stops"`
	Routes                  int    `json:"routes"`
	Trips                   int    `json:"trips"`
}

// handleHealth reports 503 until both the schedule and a live snapshot are loaded.
func (s *Server) handleHealth(c *fiber.Ctx) error {
	snap := s.live.Current()
	ix := s.static.Index()

	resp := healthResponse{
		Status:                  "ok",
		LatestGTFSRealtimeEpoch: snap.Timestamp(),
		Vehicles:                len(snap.Vehicles()),
	}
	if !ix.Empty() {
		t := ix.Tables()
		resp.Stops, resp.Routes, resp.Trips = len(t.Stops), len(t.Routes), len(t.Trips)
	}
	if ix.Empty() || snap == nil {
		resp.Status = "loading"
		c.Status(fiber.StatusServiceUnavailable)
	}
	return c.JSON(resp)
}
