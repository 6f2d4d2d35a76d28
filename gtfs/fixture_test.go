package gtfs

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

// kyotoTables is a small feed: route 205 runs S1 -> S2 -> S3 (T1) and back (T2),
// route 101 runs S1 -> S3 (T3).
func kyotoTables() *Tables {
	return &Tables{
		Agencies: []Agency{{ID: "kcb", Name: "Kyoto City Bus", Timezone: "Asia/Tokyo"}},
		Stops: []Stop{
			{ID: "S1", Name: "京都駅前", Lat: 34.9858, Lon: 135.7588},
			{ID: "S2", Name: "四条烏丸", Lat: 35.0037, Lon: 135.7597},
			{ID: "S3", Name: "金閣寺道", Lat: 35.0341, Lon: 135.7318},
		},
		Routes: []Route{
			{ID: "205", ShortName: "205", LongName: "京都駅 - 金閣寺"},
			{ID: "101", ShortName: "101", LongName: "洛バス"},
		},
		Trips: []Trip{
			{ID: "T1", RouteID: "205", Headsign: "金閣寺道"},
			{ID: "T2", RouteID: "205", Headsign: "京都駅", DirectionID: 1},
			{ID: "T3", RouteID: "101", Headsign: "金閣寺道"},
		},
		StopTimes: []StopTime{
			{TripID: "T1", StopID: "S2", StopSequence: 2, ArrivalTime: "10:10:00", DepartureTime: "10:10:00"},
			{TripID: "T1", StopID: "S1", StopSequence: 1, ArrivalTime: "10:00:00", DepartureTime: "10:00:00"},
			{TripID: "T1", StopID: "S3", StopSequence: 3, ArrivalTime: "10:30:00", DepartureTime: "10:30:00"},
			{TripID: "T2", StopID: "S3", StopSequence: 1, ArrivalTime: "11:00:00", DepartureTime: "11:00:00"},
			{TripID: "T2", StopID: "S2", StopSequence: 2, ArrivalTime: "11:20:00", DepartureTime: "11:20:00"},
			{TripID: "T2", StopID: "S1", StopSequence: 3, ArrivalTime: "11:30:00", DepartureTime: "11:30:00"},
			{TripID: "T3", StopID: "S1", StopSequence: 1, ArrivalTime: "10:05:00", DepartureTime: "10:05:00"},
			{TripID: "T3", StopID: "S3", StopSequence: 2, ArrivalTime: "10:25:00", DepartureTime: "10:25:00"},
		},
		FareAttributes: []FareAttribute{
			{FareID: "F1", Price: 230, CurrencyType: "JPY"},
			{FareID: "F2", Price: 300, CurrencyType: "JPY"},
		},
		FareRules: []FareRule{
			{FareID: "F1", RouteID: "205"},
			{FareID: "F2", RouteID: "205", OriginID: "S1", DestinationID: "S3"},
			{FareID: "F2", RouteID: "101", OriginID: "S1"},
		},
	}
}

func buildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func minimalFeed() map[string]string {
	return map[string]string{
		"agency.txt": "agency_id,agency_name,agency_url,agency_timezone\nkcb,Kyoto City Bus,https://example.com,Asia/Tokyo\n",
		"stops.txt": "stop_id,stop_name,stop_lat,stop_lon\n" +
			"S1,京都駅前,34.9858,135.7588\n" +
			"S2,四条烏丸,35.0037,135.7597\n",
		"routes.txt":     "route_id,agency_id,route_short_name,route_long_name,route_type\n205,kcb,205,京都駅 - 金閣寺,3\n",
		"trips.txt":      "route_id,service_id,trip_id,trip_headsign\n205,weekday,T1,金閣寺道\n",
		"stop_times.txt": "trip_id,arrival_time,departure_time,stop_id,stop_sequence\nT1,10:00:00,10:00:00,S1,1\nT1,10:10:00,10:10:00,S2,2\n",
		"fare_attributes.txt": "fare_id,price,currency_type,payment_method,transfers\nF1,230,JPY,0,0\n",
		"fare_rules.txt":      "fare_id,route_id,origin_id,destination_id\nF1,205,,\n",
	}
}
