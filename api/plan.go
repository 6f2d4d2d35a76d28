package api

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"
	"github.com/theoremus-urban-solutions/gtfs-route-planner/cache"
	"github.com/theoremus-urban-solutions/gtfs-route-planner/planner"
)

func (s *Server) parsePlanRequest(c *fiber.Ctx) (planner.PlanRequest, string, error) {
	var req planner.PlanRequest
	var err error
	if req.Origin, err = s.parseEndpoint(c, "from"); err != nil {
		return req, "", err
	}
	if req.Destination, err = s.parseEndpoint(c, "to"); err != nil {
		return req, "", err
	}
	if req.ReferenceTime, err = parseReferenceTime(c.Query("time"), s.now(), s.location()); err != nil {
		return req, "", err
	}
	if req.HasLuggage, err = parseFlag(c.Query("luggage")); err != nil {
		return req, "", err
	}
	sortBy := c.Query("sort", s.cfg.Planner.DefaultSort)
	if req.SortBy, err = planner.ParseSortCriterion(sortBy); err != nil {
		return req, "", &QueryError{Msg: "Unsupported sort: " + sortBy}
	}
	detail, err := parseDetail(c.Query("detail"))
	if err != nil {
		return req, "", err
	}
	return req, detail, nil
}

func endpointKey(e planner.Endpoint) string {
	if e.ID != "" {
		return e.ID
	}
	return fmt.Sprintf("%.6f,%.6f", e.Position.Lat, e.Position.Lon)
}

func (s *Server) handlePlan(c *fiber.Ctx) error {
	req, detail, err := s.parsePlanRequest(c)
	if err != nil {
		return badRequest(c, err)
	}

	key := cache.Key(
		"plan",
		endpointKey(req.Origin),
		endpointKey(req.Destination),
		strconv.FormatInt(req.ReferenceTime.Unix(), 10),
		strconv.FormatBool(req.HasLuggage),
		string(req.SortBy),
		detail,
		strconv.FormatInt(s.live.Current().Timestamp(), 10),
	)
	if body, ok := s.cache.Get(c.UserContext(), key); ok {
		c.Set("X-Cache", "HIT")
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(body)
	}

	res, err := s.planner.PlanRoute(req)
	if err != nil {
		return internalError(c, "Could not plan route", err)
	}

	reduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: []string{detail},
	}, res)
	if err != nil {
		return internalError(c, "Sherrif could not reduce plan", err)
	}
	body, err := json.Marshal(reduced)
	if err != nil {
		return internalError(c, "Could not encode plan", err)
	}

	s.cache.Set(c.UserContext(), key, body)
	c.Set("X-Cache", "MISS")
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(body)
}
