package main

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theoremus-urban-solutions/gtfs-route-planner/config"
	"github.com/theoremus-urban-solutions/gtfs-route-planner/gtfs"
)

type countingFetcher struct {
	data  []byte
	err   error
	calls int
}

func (f *countingFetcher) Fetch(context.Context, string) ([]byte, error) {
	f.calls++
	return f.data, f.err
}

func feedZip(t *testing.T) []byte {
	t.Helper()
	files := map[string]string{
		"stops.txt":      "stop_id,stop_name,stop_lat,stop_lon\nKS,京都駅前,34.9858,135.7588\nKJ,金閣寺道,35.0341,135.7318\n",
		"routes.txt":     "route_id,route_short_name,route_long_name,route_type\n205,205,京都駅 - 金閣寺道,3\n",
		"trips.txt":      "route_id,service_id,trip_id\n205,weekday,T1\n",
		"stop_times.txt": "trip_id,arrival_time,departure_time,stop_id,stop_sequence\nT1,10:05:00,10:05:00,KS,1\nT1,10:35:00,10:35:00,KJ,2\n",
	}
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func newTestLoader(t *testing.T, f *countingFetcher, cachePath string) *staticLoader {
	t.Helper()
	l, err := newStaticLoader(f, config.GTFSConfig{
		StaticURL:       "https://example.com/gtfs.zip",
		CachePath:       cachePath,
		RefreshInterval: "P1D",
	})
	require.NoError(t, err)
	return l
}

func TestStaticLoaderFetchesAndCaches(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gtfs.gob")
	f := &countingFetcher{data: feedZip(t)}
	l := newTestLoader(t, f, path)

	tables, err := l.load(context.Background())
	require.NoError(t, err)
	assert.Len(t, tables.Stops, 2)
	assert.Equal(t, 1, f.calls)

	cached, _, err := gtfs.DeserializeTablesFromFile(path)
	require.NoError(t, err)
	assert.Len(t, cached.StopTimes, 2)

	tables, err = l.load(context.Background())
	require.NoError(t, err)
	assert.Len(t, tables.Stops, 2)
	assert.Equal(t, 1, f.calls, "fresh cache must not refetch")
}

func TestStaticLoaderRefetchesStaleCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gtfs.gob")
	f := &countingFetcher{data: feedZip(t)}
	l := newTestLoader(t, f, path)
	_, err := l.load(context.Background())
	require.NoError(t, err)

	l.now = func() time.Time { return time.Now().Add(48 * time.Hour) }
	_, err = l.load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, f.calls)
}

func TestStaticLoaderFallsBackToStaleCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gtfs.gob")
	f := &countingFetcher{data: feedZip(t)}
	l := newTestLoader(t, f, path)
	_, err := l.load(context.Background())
	require.NoError(t, err)

	f.err = errors.New("connection refused")
	l.now = func() time.Time { return time.Now().Add(48 * time.Hour) }
	tables, err := l.load(context.Background())
	require.NoError(t, err)
	assert.Len(t, tables.Stops, 2)
}

func TestStaticLoaderErrors(t *testing.T) {
	f := &countingFetcher{err: errors.New("connection refused")}
	_, err := newTestLoader(t, f, "").load(context.Background())
	assert.Error(t, err)

	f = &countingFetcher{data: []byte("not a zip")}
	_, err = newTestLoader(t, f, "").load(context.Background())
	assert.Error(t, err)

	_, err = newStaticLoader(f, config.GTFSConfig{RefreshInterval: "daily"})
	assert.Error(t, err)
}

func TestStaticLoaderInterval(t *testing.T) {
	l := newTestLoader(t, &countingFetcher{}, "")
	l.now = func() time.Time { return time.Date(2025, 5, 1, 3, 0, 0, 0, time.UTC) }
	assert.Equal(t, 24*time.Hour, l.interval())
}

func TestPlannerConfig(t *testing.T) {
	cfg, err := plannerConfig(config.PlannerConfig{
		MaxWalkingMeters:   800,
		SensitiveThreshold: "MANY_SEATS_AVAILABLE",
		TolerantThreshold:  "FULL",
		MaxAlternatives:    2,
	})
	require.NoError(t, err)
	assert.Equal(t, 800.0, cfg.MaxWalkingMeters)
	assert.Equal(t, 2, cfg.MaxAlternatives)
	assert.Equal(t, "FULL", cfg.Thresholds.Tolerant.String())

	_, err = plannerConfig(config.PlannerConfig{SensitiveThreshold: "PACKED", TolerantThreshold: "FULL"})
	assert.Error(t, err)
}
