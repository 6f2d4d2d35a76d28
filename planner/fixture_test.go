package planner

import (
	"time"

	"github.com/theoremus-urban-solutions/gtfs-route-planner/gtfs"
	"github.com/theoremus-urban-solutions/gtfs-route-planner/gtfsrt"
	"github.com/theoremus-urban-solutions/gtfs-route-planner/utils"
)

var jst = time.FixedZone("JST", 9*3600)

// Kyoto station area (origin side) and Kinkakuji area (destination side).
// Route 205 runs KS -> SJ -> KJ at 10:05 and 10:35 and back at 11:00.
// Route 101 runs KS2 -> KJ2 at 10:10 and takes 20 minutes.
var (
	origin      = Endpoint{ID: "kyotostation", Name: "京都駅", Position: utils.Point{Lat: 34.9876, Lon: 135.7588}}
	destination = Endpoint{ID: "kinkakuji", Name: "金閣寺", Position: utils.Point{Lat: 35.0368, Lon: 135.7318}}
	nowhere     = Endpoint{ID: "hiei", Name: "比叡山", Position: utils.Point{Lat: 35.10, Lon: 135.80}}
)

func kyotoTables() *gtfs.Tables {
	st := func(trip, stop string, seq int, arr, dep string) gtfs.StopTime {
		return gtfs.StopTime{TripID: trip, StopID: stop, StopSequence: seq, ArrivalTime: arr, DepartureTime: dep}
	}
	return &gtfs.Tables{
		Agencies: []gtfs.Agency{{ID: "kcb", Name: "京都市交通局", Timezone: "Asia/Tokyo"}},
		Stops: []gtfs.Stop{
			{ID: "KS", Name: "京都駅前", Lat: 34.9858, Lon: 135.7588},
			{ID: "KS2", Name: "京都駅八条口", Lat: 34.9830, Lon: 135.7588},
			{ID: "SJ", Name: "四条烏丸", Lat: 35.0037, Lon: 135.7597},
			{ID: "KJ", Name: "金閣寺道", Lat: 35.0341, Lon: 135.7318},
			{ID: "KJ2", Name: "金閣寺前", Lat: 35.0400, Lon: 135.7318},
		},
		Routes: []gtfs.Route{
			{ID: "205", ShortName: "205", LongName: "京都駅 - 金閣寺道", Type: 3},
			{ID: "101", ShortName: "101", LongName: "洛バス", Type: 3},
		},
		Trips: []gtfs.Trip{
			{ID: "T205a", RouteID: "205", Headsign: "金閣寺・立命館大学"},
			{ID: "T205b", RouteID: "205", Headsign: "金閣寺・立命館大学"},
			{ID: "T205c", RouteID: "205", Headsign: "京都駅", DirectionID: 1},
			{ID: "T101", RouteID: "101", Headsign: "金閣寺"},
		},
		StopTimes: []gtfs.StopTime{
			st("T205a", "KS", 1, "10:04:00", "10:05:00"),
			st("T205a", "SJ", 2, "10:15:00", "10:15:00"),
			st("T205a", "KJ", 3, "10:35:00", "10:35:00"),
			st("T205b", "KS", 1, "10:35:00", "10:35:00"),
			st("T205b", "SJ", 2, "10:45:00", "10:45:00"),
			st("T205b", "KJ", 3, "11:05:00", "11:05:00"),
			st("T205c", "KJ", 1, "11:00:00", "11:00:00"),
			st("T205c", "SJ", 2, "11:20:00", "11:20:00"),
			st("T205c", "KS", 3, "11:30:00", "11:30:00"),
			st("T101", "KS2", 1, "10:10:00", "10:10:00"),
			st("T101", "KJ2", 2, "10:30:00", "10:30:00"),
		},
		FareAttributes: []gtfs.FareAttribute{{FareID: "F101", Price: 230, CurrencyType: "JPY"}},
		FareRules:      []gtfs.FareRule{{FareID: "F101", RouteID: "101"}},
	}
}

func at(hour, minute int) time.Time {
	return time.Date(2025, 5, 1, hour, minute, 0, 0, jst)
}

func liveSnapshot(levels map[string]gtfsrt.OccupancyLevel) *gtfsrt.Snapshot {
	var vehicles []gtfsrt.VehiclePosition
	for trip, level := range levels {
		vehicles = append(vehicles, gtfsrt.VehiclePosition{VehicleID: "bus-" + trip, TripID: trip, Occupancy: level, HasOccupancy: true, Timestamp: 1})
	}
	return gtfsrt.NewSnapshot(vehicles, 1)
}

func newPlanner(levels map[string]gtfsrt.OccupancyLevel) *Planner {
	return New(gtfs.NewIndex(kyotoTables()), liveSnapshot(levels), Options{})
}
