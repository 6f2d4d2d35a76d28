package gtfsrt

// VehiclePosition is one vehicle as last reported by the live feed.
type VehiclePosition struct {
	VehicleID string         `json:"vehicleId"`
	TripID    string         `json:"tripId"`
	RouteID   string         `json:"routeId"`
	Latitude  float64        `json:"latitude"`
	Longitude float64        `json:"longitude"`
	Bearing   float64        `json:"bearing"`
	Speed     float64        `json:"speed"`
	Occupancy OccupancyLevel `json:"occupancyStatus"`
	// HasOccupancy is false when the feed did not report a usable occupancy status.
	HasOccupancy bool  `json:"hasOccupancy"`
	Timestamp    int64 `json:"timestamp"`
}
