package gtfsrt

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	iso8601 "github.com/senseyeio/duration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher map[string][]byte

func (s stubFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	data, ok := s[url]
	if !ok {
		return nil, errors.New("connection refused")
	}
	return data, nil
}

func TestPollerRefreshMergesFeeds(t *testing.T) {
	fetcher := stubFetcher{
		"bus": buildFeed(t, 1000, testVehicle{id: "bus-1", trip: "T1", route: "205", ts: 990, status: status(5)}),
		"rail": buildFeed(t, 1010, testVehicle{id: "train-1", trip: "R1", route: "karasuma", ts: 1005, status: status(1)}),
	}
	var store Store
	p := NewPoller(fetcher, &store, []string{"bus", "rail"})

	require.NoError(t, p.Refresh(context.Background()))

	snap := store.Current()
	require.NotNil(t, snap)
	assert.Equal(t, int64(1010), snap.Timestamp())
	assert.Len(t, snap.Vehicles(), 2)
	level, ok := snap.OccupancyFor("T1")
	require.True(t, ok)
	assert.Equal(t, Full, level)
}

func TestPollerKeepsPreviousSnapshotOnFailure(t *testing.T) {
	var store Store
	previous := NewSnapshot([]VehiclePosition{{TripID: "T1", Occupancy: Full, HasOccupancy: true}}, 1)
	store.Swap(previous)

	p := NewPoller(stubFetcher{}, &store, []string{"down"})
	assert.Error(t, p.Refresh(context.Background()))
	assert.Same(t, previous, store.Current())
}

func TestPollerPartialFailureStillSwaps(t *testing.T) {
	fetcher := stubFetcher{"bus": buildFeed(t, 1000, testVehicle{id: "bus-1", trip: "T1", ts: 1000, status: status(0)})}
	var store Store
	p := NewPoller(fetcher, &store, []string{"bus", "down"})

	require.NoError(t, p.Refresh(context.Background()))
	assert.Len(t, store.Current().Vehicles(), 1)
}

func TestPollerWithoutFeeds(t *testing.T) {
	var store Store
	assert.ErrorIs(t, NewPoller(stubFetcher{}, &store, nil).Refresh(context.Background()), ErrNoFeeds)
}

func TestPollerDropsStaleVehicles(t *testing.T) {
	fetcher := stubFetcher{"bus": buildFeed(t, 10000,
		testVehicle{id: "fresh", trip: "T1", ts: 9990, status: status(1)},
		testVehicle{id: "stale", trip: "T2", ts: 10000 - 30*60, status: status(5)},
	)}
	staleAfter, err := iso8601.ParseISO8601("PT20M")
	require.NoError(t, err)

	var store Store
	p := NewPoller(fetcher, &store, []string{"bus"}, WithStaleAfter(staleAfter))
	require.NoError(t, p.Refresh(context.Background()))

	vehicles := store.Current().Vehicles()
	require.Len(t, vehicles, 1)
	assert.Equal(t, "fresh", vehicles[0].VehicleID)
}

func TestPollerRunStopsWithContext(t *testing.T) {
	fetcher := stubFetcher{"bus": buildFeed(t, 1000, testVehicle{id: "bus-1", trip: "T1", ts: 1000})}
	var store Store
	p := NewPoller(fetcher, &store, []string{"bus"}, WithInterval(10*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return store.Current() != nil }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop")
	}
}

func TestClientFetch(t *testing.T) {
	feed := buildFeed(t, 1000, testVehicle{id: "bus-1", trip: "T1", ts: 1000})
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/vp":
			_, _ = w.Write(feed)
		case "/flaky":
			if hits.Add(1) == 1 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = w.Write(feed)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewClient(time.Second)
	ctx := context.Background()

	t.Run("http", func(t *testing.T) {
		data, err := c.Fetch(ctx, srv.URL+"/vp")
		require.NoError(t, err)
		assert.Equal(t, feed, data)
	})

	t.Run("retries server errors", func(t *testing.T) {
		data, err := c.Fetch(ctx, srv.URL+"/flaky")
		require.NoError(t, err)
		assert.Equal(t, feed, data)
		assert.Equal(t, int32(2), hits.Load())
	})

	t.Run("client errors are permanent", func(t *testing.T) {
		_, err := c.Fetch(ctx, srv.URL+"/missing?token=secret")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "HTTP 404")
		assert.NotContains(t, err.Error(), "secret")
	})

	t.Run("local file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "vp.pb")
		require.NoError(t, os.WriteFile(path, feed, 0o644))
		data, err := c.Fetch(ctx, path)
		require.NoError(t, err)
		assert.Equal(t, feed, data)
	})

	t.Run("empty is optional", func(t *testing.T) {
		data, err := c.Fetch(ctx, "")
		assert.NoError(t, err)
		assert.Nil(t, data)
	})
}
