package gtfsrt

import (
	"fmt"
	"sync/atomic"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"
)

// Snapshot is an immutable set of vehicle positions from one refresh.
type Snapshot struct {
	timestamp int64
	vehicles  []VehiclePosition
	byTrip    map[string]int // trip_id -> latest report in vehicles
}

// NewSnapshot indexes vehicles by trip. When a trip is reported more than once
// the most recent report wins.
func NewSnapshot(vehicles []VehiclePosition, timestamp int64) *Snapshot {
	s := &Snapshot{
		timestamp: timestamp,
		vehicles:  vehicles,
		byTrip:    make(map[string]int, len(vehicles)),
	}
	for i, v := range vehicles {
		if v.TripID == "" {
			continue
		}
		if prev, ok := s.byTrip[v.TripID]; ok && vehicles[prev].Timestamp > v.Timestamp {
			continue
		}
		s.byTrip[v.TripID] = i
	}
	return s
}

// Timestamp is the feed header time in Unix seconds.
func (s *Snapshot) Timestamp() int64 {
	if s == nil {
		return 0
	}
	return s.timestamp
}

// Vehicles returns every vehicle in feed order. Callers must not modify the slice.
func (s *Snapshot) Vehicles() []VehiclePosition {
	if s == nil {
		return nil
	}
	return s.vehicles
}

// VehicleForTrip returns the latest report for tripID.
func (s *Snapshot) VehicleForTrip(tripID string) (VehiclePosition, bool) {
	if s == nil {
		return VehiclePosition{}, false
	}
	i, ok := s.byTrip[tripID]
	if !ok {
		return VehiclePosition{}, false
	}
	return s.vehicles[i], true
}

// OccupancyFor returns the live occupancy of tripID. ok is false when the trip
// is not in the feed or reported no occupancy.
func (s *Snapshot) OccupancyFor(tripID string) (OccupancyLevel, bool) {
	v, ok := s.VehicleForTrip(tripID)
	if !ok || !v.HasOccupancy {
		return Empty, false
	}
	return v.Occupancy, true
}

// ParseVehiclePositions decodes a GTFS-RT FeedMessage and returns its vehicle
// entities along with the header timestamp.
func ParseVehiclePositions(data []byte) ([]VehiclePosition, int64, error) {
	var fm gtfsrtpb.FeedMessage
	if err := proto.Unmarshal(data, &fm); err != nil {
		return nil, 0, fmt.Errorf("decode feed message: %w", err)
	}
	var headerTS int64
	if fm.Header != nil && fm.Header.Timestamp != nil {
		headerTS = int64(*fm.Header.Timestamp)
	}

	vehicles := make([]VehiclePosition, 0, len(fm.Entity))
	for _, e := range fm.Entity {
		vp := e.GetVehicle()
		if vp == nil {
			continue
		}
		v := VehiclePosition{
			VehicleID: vp.GetVehicle().GetId(),
			TripID:    vp.GetTrip().GetTripId(),
			RouteID:   vp.GetTrip().GetRouteId(),
			Timestamp: int64(vp.GetTimestamp()),
		}
		if v.VehicleID == "" {
			v.VehicleID = e.GetId()
		}
		if pos := vp.GetPosition(); pos != nil {
			v.Latitude = float64(pos.GetLatitude())
			v.Longitude = float64(pos.GetLongitude())
			v.Bearing = float64(pos.GetBearing())
			v.Speed = float64(pos.GetSpeed())
		}
		if vp.OccupancyStatus != nil {
			v.Occupancy, v.HasOccupancy = occupancyFromProto(*vp.OccupancyStatus)
		}
		if v.Timestamp == 0 {
			v.Timestamp = headerTS
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, headerTS, nil
}

// Store holds the current Snapshot behind an atomic pointer. Planning reads
// one snapshot per request; the poller swaps in a complete replacement.
type Store struct {
	current atomic.Pointer[Snapshot]
}

// Current returns the latest snapshot, or nil before the first successful refresh.
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// Swap installs snap and returns the previous snapshot.
func (s *Store) Swap(snap *Snapshot) *Snapshot {
	return s.current.Swap(snap)
}
