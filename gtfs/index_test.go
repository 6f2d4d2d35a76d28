package gtfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexLookups(t *testing.T) {
	ix := NewIndex(kyotoTables())

	stop, ok := ix.Stop("S2")
	require.True(t, ok)
	assert.Equal(t, "四条烏丸", stop.Name)

	_, ok = ix.Stop("missing")
	assert.False(t, ok)

	route, ok := ix.Route("101")
	require.True(t, ok)
	assert.Equal(t, "101", route.DisplayName())

	trip, ok := ix.Trip("T2")
	require.True(t, ok)
	assert.Equal(t, "205", trip.RouteID)

	fa, ok := ix.FareAttribute("F2")
	require.True(t, ok)
	assert.Equal(t, 300.0, fa.Price)

	assert.Equal(t, "Asia/Tokyo", ix.Timezone("UTC"))
	assert.False(t, ix.Empty())
}

func TestStopTimesForTripOrderedBySequence(t *testing.T) {
	ix := NewIndex(kyotoTables())

	seqs := []int{}
	for _, st := range ix.StopTimesForTrip("T1") {
		seqs = append(seqs, st.StopSequence)
	}
	assert.Equal(t, []int{1, 2, 3}, seqs)

	stops, err := ix.StopsForTrip("T1")
	require.NoError(t, err)
	names := []string{}
	for _, s := range stops {
		names = append(names, s.ID)
	}
	assert.Equal(t, []string{"S1", "S2", "S3"}, names)
}

func TestNewIndexDoesNotMutateTables(t *testing.T) {
	tables := kyotoTables()
	NewIndex(tables)
	assert.Equal(t, "S2", tables.StopTimes[0].StopID)
}

func TestStopsForTripUnknownStop(t *testing.T) {
	tables := kyotoTables()
	tables.StopTimes = append(tables.StopTimes, StopTime{TripID: "T3", StopID: "ghost", StopSequence: 3, ArrivalTime: "10:40:00"})
	ix := NewIndex(tables)

	_, err := ix.StopsForTrip("T3")
	assert.ErrorIs(t, err, ErrUnknownStop)
}

func TestStopTimesAtAndTripsForRoute(t *testing.T) {
	ix := NewIndex(kyotoTables())

	assert.Len(t, ix.StopTimesAt("S1"), 3)
	assert.Empty(t, ix.StopTimesAt("missing"))

	trips := ix.TripsForRoute("205")
	require.Len(t, trips, 2)
	assert.Equal(t, "T1", trips[0].ID)
	assert.Equal(t, "T2", trips[1].ID)
	assert.Empty(t, ix.TripsForRoute("missing"))
}

func TestRoutesServingBothStops(t *testing.T) {
	ix := NewIndex(kyotoTables())

	tests := []struct {
		name string
		a, b string
		want []string
	}{
		{"both routes", "S1", "S3", []string{"205", "101"}},
		{"either order", "S3", "S1", []string{"205", "101"}},
		{"only 205", "S1", "S2", []string{"205"}},
		{"unknown stop", "S1", "missing", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, r := range ix.RoutesServingBothStops(tt.a, tt.b) {
				got = append(got, r.ID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStopsForRoute(t *testing.T) {
	ix := NewIndex(kyotoTables())

	ids := []string{}
	for _, s := range ix.StopsForRoute("205") {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"S1", "S2", "S3"}, ids)
	assert.True(t, ix.RouteServesStop("S2", "205"))
	assert.False(t, ix.RouteServesStop("S2", "101"))
}

func TestEmptyIndex(t *testing.T) {
	assert.True(t, NewIndex(nil).Empty())
	assert.True(t, NewIndex(&Tables{Stops: kyotoTables().Stops}).Empty())

	var store Store
	assert.Nil(t, store.Index())
	ix := NewIndex(kyotoTables())
	assert.Nil(t, store.Swap(ix))
	assert.Same(t, ix, store.Index())
}
