package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theoremus-urban-solutions/gtfs-route-planner/gtfs"
	"github.com/theoremus-urban-solutions/gtfs-route-planner/gtfsrt"
)

func TestPlanDirectRoute(t *testing.T) {
	p := newPlanner(nil)

	info, kind, err := p.Plan(origin, destination, at(10, 0))
	require.NoError(t, err)
	require.Empty(t, kind)
	require.NotNil(t, info)

	assert.Equal(t, "route-205-T205a", info.ID)
	assert.Equal(t, "205", info.RouteID)
	assert.Equal(t, "205", info.RouteName)
	assert.Equal(t, "金閣寺・立命館大学", info.Headsign)
	assert.Equal(t, "KS", info.DepartureStop.StopID)
	assert.Equal(t, "10:05", info.DepartureStop.Time)
	assert.Equal(t, "KJ", info.ArrivalStop.StopID)
	assert.Equal(t, "10:35", info.ArrivalStop.Time)
	assert.Equal(t, 30, info.TotalMinutes)
	assert.Equal(t, "30分", info.TotalTime)
	assert.Zero(t, info.FareAmount)
	assert.Zero(t, info.Transfers)
	assert.InDelta(t, 200, info.WalkingDistance.ToFirstStop, 1)
	assert.InDelta(t, 300, info.WalkingDistance.FromLastStop, 1)
	assert.Equal(t, WalkingMinutes{ToFirstStop: 3, FromLastStop: 4}, info.WalkingMinutes)
	assert.Equal(t, gtfsrt.Empty, info.Occupancy)
	assert.False(t, info.OccupancyReported)

	require.Len(t, info.Stops, 3)
	assert.Equal(t, "四条烏丸", info.Stops[1].Stop.Name)
	for i := 1; i < len(info.Stops); i++ {
		assert.Less(t, info.Stops[i-1].Sequence, info.Stops[i].Sequence)
	}
}

func TestPlanUsesLiveOccupancy(t *testing.T) {
	p := newPlanner(map[string]gtfsrt.OccupancyLevel{"T205a": gtfsrt.FewSeatsAvailable})

	info, _, err := p.Plan(origin, destination, at(10, 0))
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, gtfsrt.FewSeatsAvailable, info.Occupancy)
	assert.True(t, info.OccupancyReported)
	for _, s := range info.Stops {
		assert.Equal(t, gtfsrt.FewSeatsAvailable, s.Occupancy)
	}
}

func TestPlanFare(t *testing.T) {
	tables := kyotoTables()
	tables.FareAttributes = append(tables.FareAttributes, gtfs.FareAttribute{FareID: "F205", Price: 230, CurrencyType: "JPY"})
	tables.FareRules = append(tables.FareRules, gtfs.FareRule{FareID: "F205", RouteID: "205"})
	p := New(gtfs.NewIndex(tables), liveSnapshot(nil), Options{})

	info, _, err := p.Plan(origin, destination, at(10, 0))
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, 230.0, info.FareAmount)
	assert.Equal(t, "JPY", info.FareCurrency)
	assert.False(t, info.FareAmbiguous)
}

func TestPlanNoRoute(t *testing.T) {
	tests := []struct {
		name     string
		planner  *Planner
		from, to Endpoint
		hour     int
		minute   int
		want     ErrorKind
	}{
		{"destination far from every stop", newPlanner(nil), origin, nowhere, 10, 0, NoNearbyStop},
		{"origin far from every stop", newPlanner(nil), nowhere, destination, 10, 0, NoNearbyStop},
		{"service ended", newPlanner(nil), origin, destination, 23, 50, NoTripFound},
		{"no live snapshot", New(gtfs.NewIndex(kyotoTables()), nil, Options{}), origin, destination, 10, 0, DataUnavailable},
		{"empty schedule", New(gtfs.NewIndex(&gtfs.Tables{}), liveSnapshot(nil), Options{}), origin, destination, 10, 0, DataUnavailable},
		{"nil schedule", New(nil, liveSnapshot(nil), Options{}), origin, destination, 10, 0, DataUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, kind, err := tt.planner.Plan(tt.from, tt.to, at(tt.hour, tt.minute))
			require.NoError(t, err)
			assert.Nil(t, info)
			assert.Equal(t, tt.want, kind)
		})
	}
}

func TestPlanNarrowWalkingRadius(t *testing.T) {
	p := New(gtfs.NewIndex(kyotoTables()), liveSnapshot(nil), Options{MaxWalkingMeters: 250})

	_, kind, err := p.Plan(origin, destination, at(10, 0))
	require.NoError(t, err)
	assert.Equal(t, NoNearbyStop, kind)
}

func TestPlanReverseDirection(t *testing.T) {
	p := newPlanner(nil)

	info, kind, err := p.Plan(destination, origin, at(10, 0))
	require.NoError(t, err)
	require.Empty(t, kind)
	require.NotNil(t, info)
	assert.Equal(t, "T205c", info.TripID)
	assert.Equal(t, "KJ", info.DepartureStop.StopID)
	assert.Equal(t, "KS", info.ArrivalStop.StopID)
	assert.Equal(t, "11:00", info.DepartureStop.Time)
}

func TestPlanReferenceTimeZone(t *testing.T) {
	p := New(gtfs.NewIndex(kyotoTables()), liveSnapshot(nil), Options{Location: jst})

	// 01:00 UTC is 10:00 in Kyoto.
	info, _, err := p.Plan(origin, destination, at(10, 0).UTC())
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, "T205a", info.TripID)
}

func TestPlanMalformedStopTime(t *testing.T) {
	tables := kyotoTables()
	tables.StopTimes[0].DepartureTime = "10:5"
	p := New(gtfs.NewIndex(tables), liveSnapshot(nil), Options{})

	_, _, err := p.Plan(origin, destination, at(10, 0))
	assert.ErrorIs(t, err, gtfs.ErrMalformedTime)
}

func TestPlanUnknownStop(t *testing.T) {
	tables := kyotoTables()
	tables.StopTimes[1].StopID = "ghost"
	p := New(gtfs.NewIndex(tables), liveSnapshot(nil), Options{})

	_, _, err := p.Plan(origin, destination, at(10, 0))
	assert.ErrorIs(t, err, gtfs.ErrUnknownStop)
}

func TestVehicleFlags(t *testing.T) {
	p := newPlanner(nil)

	info, _, err := p.Plan(origin, destination, at(10, 5))
	require.NoError(t, err)
	require.NotNil(t, info)
	require.Equal(t, "T205a", info.TripID)
	assert.True(t, info.Stops[0].VehicleAtStop)
	assert.False(t, info.Stops[1].VehicleAtStop)
	for _, s := range info.Stops {
		assert.False(t, s.CurrentLocation)
	}

	m, found, err := p.matcher.FindTrip("KS", "KJ", 0)
	require.NoError(t, err)
	require.True(t, found)
	s := &search{ref: 10*3600 + 20*60}
	board := gtfs.NearbyStop{Stop: kyotoTables().Stops[0]}
	alight := gtfs.NearbyStop{Stop: kyotoTables().Stops[3]}

	moving, err := p.buildRouteInfo(s, board, alight, m)
	require.NoError(t, err)
	assert.False(t, moving.Stops[0].CurrentLocation)
	assert.True(t, moving.Stops[1].CurrentLocation)
	assert.False(t, moving.Stops[2].CurrentLocation)
	for _, st := range moving.Stops {
		assert.False(t, st.VehicleAtStop)
	}
}

func TestHeadsignFallsBackToAlightingStop(t *testing.T) {
	tables := kyotoTables()
	tables.Trips[0].Headsign = ""
	p := New(gtfs.NewIndex(tables), liveSnapshot(nil), Options{})

	info, _, err := p.Plan(origin, destination, at(10, 0))
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, "金閣寺道", info.Headsign)
}
