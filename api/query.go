package api

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/theoremus-urban-solutions/gtfs-route-planner/planner"
	"github.com/theoremus-urban-solutions/gtfs-route-planner/utils"
)

// QueryError is a malformed or missing request parameter. Handlers answer it
// with 400 and Msg as the error text.
type QueryError struct{ Msg string }

func (e *QueryError) Error() string { return e.Msg }

const (
	detailBasic    = "basic"
	detailDetailed = "detailed"
)

// parseEndpoint reads either a configured spot id from prefix, or a
// coordinate from prefixLat and prefixLon.
func (s *Server) parseEndpoint(c *fiber.Ctx, prefix string) (planner.Endpoint, error) {
	if id := strings.TrimSpace(c.Query(prefix)); id != "" {
		spot, ok := s.cfg.Spot(id)
		if !ok {
			return planner.Endpoint{}, &QueryError{Msg: "No such spot: " + id}
		}
		return planner.Endpoint{ID: spot.ID, Name: spot.Name, Position: utils.Point{Lat: spot.Lat, Lon: spot.Lon}}, nil
	}
	p, err := parsePoint(c.Query(prefix+"Lat"), c.Query(prefix+"Lon"))
	if err != nil {
		return planner.Endpoint{}, &QueryError{Msg: "You must provide " + prefix + " or " + prefix + "Lat and " + prefix + "Lon."}
	}
	return planner.Endpoint{Position: p}, nil
}

func parsePoint(lat, lon string) (utils.Point, error) {
	la, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil {
		return utils.Point{}, &QueryError{Msg: "Latitude must be a number."}
	}
	lo, err := strconv.ParseFloat(strings.TrimSpace(lon), 64)
	if err != nil {
		return utils.Point{}, &QueryError{Msg: "Longitude must be a number."}
	}
	p := utils.Point{Lat: la, Lon: lo}
	if !p.Valid() {
		return utils.Point{}, &QueryError{Msg: "Coordinate out of range."}
	}
	return p, nil
}

// parseReferenceTime accepts HH:MM on today's service date in loc, or
// RFC3339. Empty means now, truncated to the minute.
func parseReferenceTime(raw string, now time.Time, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return now.In(loc).Truncate(time.Minute), nil
	}
	if clock, err := time.ParseInLocation("15:04", raw, loc); err == nil {
		y, m, d := now.In(loc).Date()
		return time.Date(y, m, d, clock.Hour(), clock.Minute(), 0, 0, loc), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, &QueryError{Msg: "Parameter time should be HH:MM or an RFC3339 datetime."}
	}
	return t, nil
}

func parseFlag(raw string) (bool, error) {
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return false, &QueryError{Msg: "Boolean parameter must be true or false."}
	}
	return v, nil
}

func parseDetail(raw string) (string, error) {
	switch s := strings.ToLower(strings.TrimSpace(raw)); s {
	case "", detailDetailed:
		return detailDetailed, nil
	case detailBasic:
		return detailBasic, nil
	default:
		return "", &QueryError{Msg: "Unsupported detail level: " + raw}
	}
}

func parseRadius(raw string) (float64, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || v < 0 {
		return 0, &QueryError{Msg: "Numeric parameter must be a non-negative number."}
	}
	return v, nil
}
