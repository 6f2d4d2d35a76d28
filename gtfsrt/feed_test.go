package gtfsrt

import (
	"testing"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
)

type testVehicle struct {
	id, trip, route string
	ts              uint64
	status          *gtfsrtpb.VehiclePosition_OccupancyStatus
}

func buildFeed(t *testing.T, headerTS uint64, vehicles ...testVehicle) []byte {
	t.Helper()
	fm := &gtfsrtpb.FeedMessage{
		Header: &gtfsrtpb.FeedHeader{
			GtfsRealtimeVersion: proto.String("2.0"),
			Timestamp:           proto.Uint64(headerTS),
		},
	}
	for _, v := range vehicles {
		vp := &gtfsrtpb.VehiclePosition{
			Trip:            &gtfsrtpb.TripDescriptor{TripId: proto.String(v.trip), RouteId: proto.String(v.route)},
			Vehicle:         &gtfsrtpb.VehicleDescriptor{Id: proto.String(v.id)},
			Position:        &gtfsrtpb.Position{Latitude: proto.Float32(35.0), Longitude: proto.Float32(135.75), Bearing: proto.Float32(90)},
			OccupancyStatus: v.status,
		}
		if v.ts > 0 {
			vp.Timestamp = proto.Uint64(v.ts)
		}
		fm.Entity = append(fm.Entity, &gtfsrtpb.FeedEntity{Id: proto.String("entity-" + v.id), Vehicle: vp})
	}
	data, err := proto.Marshal(fm)
	require.NoError(t, err)
	return data
}

func status(n int32) *gtfsrtpb.VehiclePosition_OccupancyStatus {
	return gtfsrtpb.VehiclePosition_OccupancyStatus(n).Enum()
}
