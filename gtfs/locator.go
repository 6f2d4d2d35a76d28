package gtfs

import (
	"cmp"
	"math"

	"github.com/theoremus-urban-solutions/gtfs-route-planner/utils"
	"golang.org/x/exp/slices"
)

// DefaultSearchRadius is the walking radius used when none is given, in meters.
const DefaultSearchRadius = 1000.0

// NearbyStop is a stop with its straight-line distance from a query point.
type NearbyStop struct {
	Stop     Stop    `json:"stop" groups:"basic,detailed"`
	Distance float64 `json:"distance" groups:"basic,detailed"`
}

// NearbyStops returns the stops within maxDistance meters of point, nearest
// first with ties broken by stop id. A non-positive maxDistance uses
// DefaultSearchRadius. The result is empty, never nil-with-error, when nothing
// is in range.
func NearbyStops(point utils.Point, stops []Stop, maxDistance float64) []NearbyStop {
	if maxDistance <= 0 || math.IsNaN(maxDistance) {
		maxDistance = DefaultSearchRadius
	}
	out := []NearbyStop{}
	for _, s := range stops {
		d := utils.DistanceMeters(point, s.Point())
		if d <= maxDistance {
			out = append(out, NearbyStop{Stop: s, Distance: d})
		}
	}
	slices.SortStableFunc(out, func(a, b NearbyStop) int {
		if c := cmp.Compare(a.Distance, b.Distance); c != 0 {
			return c
		}
		return cmp.Compare(a.Stop.ID, b.Stop.ID)
	})
	return out
}

// NearestStop returns the closest stop to point regardless of distance. ok is
// false when stops is empty.
func NearestStop(point utils.Point, stops []Stop) (nearest NearbyStop, ok bool) {
	for _, s := range stops {
		d := utils.DistanceMeters(point, s.Point())
		if math.IsNaN(d) {
			continue
		}
		if !ok || d < nearest.Distance || (d == nearest.Distance && s.ID < nearest.Stop.ID) {
			nearest, ok = NearbyStop{Stop: s, Distance: d}, true
		}
	}
	return nearest, ok
}
