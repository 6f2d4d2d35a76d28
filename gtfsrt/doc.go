// Package gtfsrt fetches GTFS-Realtime vehicle positions and keeps the latest
// occupancy per trip in an immutable Snapshot.
//
// A Poller fetches one or more VehiclePositions feeds every 30 seconds,
// decodes them with the MobilityData bindings and swaps the merged result into
// a Store. Readers call Store.Current once per request and keep that snapshot
// for the whole request, so a refresh never changes data under a planner.
//
// Occupancy is exposed as OccupancyLevel, an ordered enum from Empty to
// NotAcceptingPassengers. Vehicles that report NO_DATA_AVAILABLE or no status
// at all have no occupancy; callers decide the default.
package gtfsrt
