// Package planner finds walk, ride, walk itineraries between two places using
// a static GTFS index and a live occupancy snapshot.
//
// A Planner is built per request from one gtfs.Index and one
// gtfsrt.Snapshot, so a concurrent refresh never changes the data a request
// sees. Plan returns the main itinerary: stop pairs within walking distance of
// both ends are tried nearest first and the first pair with a trip wins. When
// the main itinerary is more crowded than the rider accepts, Alternatives
// offers the next departure of the same route and itineraries on other routes.
// A Ranker orders alternatives by time, fare, transfers or a configurable
// composite score.
//
// Service ties these together behind PlanRoute. Expected empty outcomes
// (no stop nearby, no trip left today, data not loaded) are reported in
// Result.Error; a Go error means the schedule itself is corrupt.
//
// Trips running past midnight are not matched against the next service day.
package planner
