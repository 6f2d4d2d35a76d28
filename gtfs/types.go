package gtfs

import "github.com/theoremus-urban-solutions/gtfs-route-planner/utils"

// Agency is a row of agency.txt
type Agency struct {
	ID       string `csv:"agency_id" json:"agencyId"`
	Name     string `csv:"agency_name" json:"agencyName"`
	URL      string `csv:"agency_url" json:"-"`
	Timezone string `csv:"agency_timezone" json:"agencyTimezone"`
}

// Stop is a row of stops.txt
type Stop struct {
	ID                 string  `csv:"stop_id" json:"stopId" groups:"basic,detailed"`
	Name               string  `csv:"stop_name" json:"stopName" groups:"basic,detailed"`
	Lat                float64 `csv:"stop_lat" json:"lat" groups:"basic,detailed"`
	Lon                float64 `csv:"stop_lon" json:"lon" groups:"basic,detailed"`
	ParentStation      string  `csv:"parent_station" json:"parentStation,omitempty" groups:"detailed"`
	WheelchairBoarding int     `csv:"wheelchair_boarding" json:"wheelchairBoarding,omitempty" groups:"detailed"`
}

// Point returns the stop coordinate.
func (s Stop) Point() utils.Point {
	return utils.Point{Lat: s.Lat, Lon: s.Lon}
}

// Route is a row of routes.txt
type Route struct {
	ID        string `csv:"route_id" json:"routeId" groups:"basic,detailed"`
	AgencyID  string `csv:"agency_id" json:"agencyId,omitempty" groups:"detailed"`
	ShortName string `csv:"route_short_name" json:"routeShortName" groups:"basic,detailed"`
	LongName  string `csv:"route_long_name" json:"routeLongName" groups:"basic,detailed"`
	Type      int    `csv:"route_type" json:"routeType" groups:"detailed"`
	Color     string `csv:"route_color" json:"routeColor,omitempty" groups:"detailed"`
}

// DisplayName prefers the short name, as printed on vehicles.
func (r Route) DisplayName() string {
	if r.ShortName != "" {
		return r.ShortName
	}
	return r.LongName
}

// Trip is a row of trips.txt
type Trip struct {
	ID          string `csv:"trip_id"`
	RouteID     string `csv:"route_id"`
	ServiceID   string `csv:"service_id"`
	Headsign    string `csv:"trip_headsign"`
	DirectionID int    `csv:"direction_id"`
}

// StopTime is a row of stop_times.txt. Times are HH:MM:SS and may exceed 24:00:00.
type StopTime struct {
	TripID        string `csv:"trip_id"`
	ArrivalTime   string `csv:"arrival_time"`
	DepartureTime string `csv:"departure_time"`
	StopID        string `csv:"stop_id"`
	StopSequence  int    `csv:"stop_sequence"`
}

// FareAttribute is a row of fare_attributes.txt
type FareAttribute struct {
	FareID        string  `csv:"fare_id"`
	Price         float64 `csv:"price"`
	CurrencyType  string  `csv:"currency_type"`
	PaymentMethod int     `csv:"payment_method"`
	Transfers     string  `csv:"transfers"`
}

// FareRule is a row of fare_rules.txt. OriginID and DestinationID are stop ids; empty means any.
type FareRule struct {
	FareID        string `csv:"fare_id"`
	RouteID       string `csv:"route_id"`
	OriginID      string `csv:"origin_id"`
	DestinationID string `csv:"destination_id"`
}

// Tables holds the parsed static feed. It is never mutated after validation.
type Tables struct {
	Agencies       []Agency
	Stops          []Stop
	Routes         []Route
	Trips          []Trip
	StopTimes      []StopTime
	FareAttributes []FareAttribute
	FareRules      []FareRule
}
