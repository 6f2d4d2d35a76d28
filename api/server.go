package api

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/theoremus-urban-solutions/gtfs-route-planner/cache"
	"github.com/theoremus-urban-solutions/gtfs-route-planner/config"
	"github.com/theoremus-urban-solutions/gtfs-route-planner/gtfs"
	"github.com/theoremus-urban-solutions/gtfs-route-planner/gtfsrt"
	"github.com/theoremus-urban-solutions/gtfs-route-planner/planner"
)

// Deps are the collaborators a Server reads from. Cache and Now are optional.
type Deps struct {
	Config  config.AppConfig
	Static  *gtfs.Store
	Live    *gtfsrt.Store
	Planner *planner.Service
	Cache   *cache.ResponseCache
	Now     func() time.Time
}

// Server is the HTTP front end of the planner.
type Server struct {
	app     *fiber.App
	cfg     config.AppConfig
	static  *gtfs.Store
	live    *gtfsrt.Store
	planner *planner.Service
	cache   *cache.ResponseCache
	now     func() time.Time
	loc     *time.Location
}

// NewServer wires the routes. Nothing listens until Listen is called.
func NewServer(d Deps) *Server {
	s := &Server{
		app:     fiber.New(fiber.Config{DisableStartupMessage: true}),
		cfg:     d.Config,
		static:  d.Static,
		live:    d.Live,
		planner: d.Planner,
		cache:   d.Cache,
		now:     d.Now,
		loc:     time.Local,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if tz := d.Config.Planner.Timezone; tz != "" {
		if loc, err := time.LoadLocation(tz); err == nil {
			s.loc = loc
		} else {
			log.Warn().Err(err).Str("timezone", tz).Msg("Unknown timezone, using local time")
		}
	}

	s.app.Use(NewLogger())

	group := s.app.Group("/api")
	group.Get("/health", s.handleHealth)
	group.Get("/plan", s.handlePlan)
	group.Get("/stops/nearby", s.handleNearbyStops)
	group.Get("/stops/:id/departures", s.handleDepartures)
	group.Get("/routes/:id/stops", s.handleRouteStops)
	group.Get("/trips/:id", s.handleTrip)
	group.Get("/fares", s.handleFare)
	group.Get("/spots", s.handleSpots)
	group.Get("/vehicles", s.handleVehicles)

	return s
}

// location is the timezone request times are read in. It follows the
// planner so plan and departure queries agree with the schedule.
func (s *Server) location() *time.Location {
	if s.planner != nil {
		if loc := s.planner.Location(); loc != nil {
			return loc
		}
	}
	return s.loc
}

// App exposes the fiber app, mainly for tests.
func (s *Server) App() *fiber.App { return s.app }

// Listen serves on port until Shutdown.
func (s *Server) Listen(port int) error {
	addr := fmt.Sprintf(":%d", port)
	log.Info().Str("addr", addr).Msg("Server listening")
	return s.app.Listen(addr)
}

// Shutdown stops accepting requests and waits for in-flight ones until ctx ends.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func badRequest(c *fiber.Ctx, err error) error {
	c.Status(fiber.StatusBadRequest)
	return c.JSON(fiber.Map{
		"error": err.Error(),
	})
}

func internalError(c *fiber.Ctx, msg string, err error) error {
	log.Error().Err(err).Str("requestId", requestID(c)).Msg(msg)
	c.Status(fiber.StatusInternalServerError)
	return c.JSON(fiber.Map{
		"error": msg,
	})
}
