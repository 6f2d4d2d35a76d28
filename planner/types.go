package planner

import (
	"github.com/theoremus-urban-solutions/gtfs-route-planner/gtfs"
	"github.com/theoremus-urban-solutions/gtfs-route-planner/gtfsrt"
	"github.com/theoremus-urban-solutions/gtfs-route-planner/utils"
)

// Endpoint is where a rider starts or wants to go, typically a sight.
type Endpoint struct {
	ID       string      `json:"id,omitempty" groups:"basic,detailed"`
	Name     string      `json:"name" groups:"basic,detailed"`
	Position utils.Point `json:"position" groups:"basic,detailed"`
}

// StopRef names the stop where a ride starts or ends and the scheduled time there.
type StopRef struct {
	StopID   string      `json:"stopId" groups:"basic,detailed"`
	Name     string      `json:"name" groups:"basic,detailed"`
	Time     string      `json:"time" groups:"basic,detailed"`
	Position utils.Point `json:"position" groups:"detailed"`
}

// RouteStop is one call of the matched trip between boarding and alighting.
type RouteStop struct {
	Stop          gtfs.Stop `json:"stop" groups:"detailed"`
	Sequence      int       `json:"sequence" groups:"detailed"`
	ArrivalTime   string    `json:"arrivalTime" groups:"detailed"`
	DepartureTime string    `json:"departureTime" groups:"detailed"`
	// VehicleAtStop is set while the reference time lies between the scheduled
	// arrival and departure at this stop.
	VehicleAtStop bool `json:"isBusAtStop" groups:"detailed"`
	// CurrentLocation is set while the vehicle is scheduled to be between this
	// stop and the next one.
	CurrentLocation bool                  `json:"isCurrentLocation" groups:"detailed"`
	Occupancy       gtfsrt.OccupancyLevel `json:"occupancyLevel" groups:"detailed"`
}

// WalkingDistance is the straight-line walk at each end of the ride, in meters.
type WalkingDistance struct {
	ToFirstStop  float64 `json:"toFirstStop" groups:"basic,detailed"`
	FromLastStop float64 `json:"fromLastStop" groups:"basic,detailed"`
}

// Total is the combined walk in meters.
func (w WalkingDistance) Total() float64 {
	return w.ToFirstStop + w.FromLastStop
}

// WalkingMinutes is the walk at each end of the ride in whole minutes.
type WalkingMinutes struct {
	ToFirstStop  int `json:"toFirstStop" groups:"basic,detailed"`
	FromLastStop int `json:"fromLastStop" groups:"basic,detailed"`
}

// RouteInfo is a complete walk, ride, walk itinerary.
type RouteInfo struct {
	ID            string      `json:"id" groups:"basic,detailed"`
	RouteID       string      `json:"routeId" groups:"basic,detailed"`
	RouteName     string      `json:"routeName" groups:"basic,detailed"`
	TripID        string      `json:"tripId" groups:"basic,detailed"`
	Headsign      string      `json:"headsign" groups:"basic,detailed"`
	Stops         []RouteStop `json:"stops" groups:"detailed"`
	FareAmount    float64     `json:"fareAmount" groups:"basic,detailed"`
	FareCurrency  string      `json:"fareCurrency,omitempty" groups:"basic,detailed"`
	FareAmbiguous bool        `json:"fareAmbiguous,omitempty" groups:"detailed"`
	TotalMinutes  int         `json:"totalMinutes" groups:"basic,detailed"`
	// TotalTime is TotalMinutes formatted for riders, e.g. "30分" or "1時間5分".
	TotalTime       string                `json:"totalTime" groups:"basic,detailed"`
	DepartureStop   StopRef               `json:"departureStop" groups:"basic,detailed"`
	ArrivalStop     StopRef               `json:"arrivalStop" groups:"basic,detailed"`
	WalkingDistance WalkingDistance       `json:"walkingDistance" groups:"basic,detailed"`
	WalkingMinutes  WalkingMinutes        `json:"walkingMinutes" groups:"detailed"`
	Transfers       int                   `json:"transfers" groups:"basic,detailed"`
	Occupancy       gtfsrt.OccupancyLevel `json:"occupancyLevel" groups:"basic,detailed"`
	// OccupancyReported is false when the live feed had nothing for this trip
	// and Occupancy holds the Empty default.
	OccupancyReported bool `json:"occupancyReported" groups:"detailed"`
	// DepartureSeconds and ArrivalSeconds are service-day seconds at the
	// boarding and alighting stops.
	DepartureSeconds int `json:"-"`
	ArrivalSeconds   int `json:"-"`
}

// AlternativeReason says why an alternative is offered.
type AlternativeReason string

const (
	ReasonOccupancy   AlternativeReason = "OCCUPANCY"
	ReasonFaster      AlternativeReason = "FASTER"
	ReasonLessWalking AlternativeReason = "LESS_WALKING"
)

var reasonDescriptions = map[AlternativeReason]string{
	ReasonOccupancy:   "混雑を避けるため、次の便をお勧めします",
	ReasonFaster:      "より早く到着する経路があります",
	ReasonLessWalking: "少し歩きますが、混雑の少ない経路があります",
}

// Description is the rider-facing justification for the reason.
func (r AlternativeReason) Description() string {
	return reasonDescriptions[r]
}

// AlternativeRoute is an itinerary offered instead of a crowded main route.
type AlternativeRoute struct {
	RouteInfo   `groups:"basic,detailed"`
	Reason      AlternativeReason `json:"reason" groups:"basic,detailed"`
	Description string            `json:"description" groups:"basic,detailed"`
}

// ErrorKind tags an expected no-result outcome. The zero value means success.
type ErrorKind string

const (
	NoNearbyStop    ErrorKind = "NO_NEARBY_STOP"
	NoTripFound     ErrorKind = "NO_TRIP_FOUND"
	DataUnavailable ErrorKind = "DATA_UNAVAILABLE"
	// AmbiguousFare is never returned as an outcome; it names the data quality
	// condition flagged by RouteInfo.FareAmbiguous.
	AmbiguousFare ErrorKind = "AMBIGUOUS_FARE"
)

// Result is the answer to a PlanRequest.
type Result struct {
	MainRoute         *RouteInfo         `json:"mainRoute" groups:"basic,detailed"`
	AlternativeRoutes []AlternativeRoute `json:"alternativeRoutes" groups:"basic,detailed"`
	Error             ErrorKind          `json:"error,omitempty" groups:"basic,detailed"`
}
