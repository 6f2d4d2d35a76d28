package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	iso8601 "github.com/senseyeio/duration"
	"github.com/theoremus-urban-solutions/gtfs-route-planner/config"
	"github.com/theoremus-urban-solutions/gtfs-route-planner/gtfs"
	"github.com/theoremus-urban-solutions/gtfs-route-planner/gtfsrt"
)

// staticLoader loads the GTFS schedule from the local table cache while it is
// fresh, and from the configured feed otherwise.
type staticLoader struct {
	fetcher gtfsrt.Fetcher
	cfg     config.GTFSConfig
	refresh iso8601.Duration
	now     func() time.Time
}

func newStaticLoader(fetcher gtfsrt.Fetcher, cfg config.GTFSConfig) (*staticLoader, error) {
	refresh, err := iso8601.ParseISO8601(cfg.RefreshInterval)
	if err != nil {
		return nil, fmt.Errorf("gtfs refreshInterval %q: %w", cfg.RefreshInterval, err)
	}
	return &staticLoader{fetcher: fetcher, cfg: cfg, refresh: refresh, now: time.Now}, nil
}

// interval is the time until the next refresh, measured from now. A zero
// refresh interval means daily.
func (l *staticLoader) interval() time.Duration {
	now := l.now()
	if d := l.refresh.Shift(now).Sub(now); d > 0 {
		return d
	}
	return 24 * time.Hour
}

// load returns fresh tables. A stale cache is still used when the feed cannot
// be fetched.
func (l *staticLoader) load(ctx context.Context) (*gtfs.Tables, error) {
	var cached *gtfs.Tables
	if l.cfg.CachePath != "" {
		tables, savedAt, err := gtfs.DeserializeTablesFromFile(l.cfg.CachePath)
		switch {
		case err == nil && l.refresh.Shift(savedAt).After(l.now()):
			log.Info().Str("path", l.cfg.CachePath).Time("saved", savedAt).Msg("Using cached GTFS tables")
			return tables, nil
		case err == nil:
			cached = tables
		case !config.IsNotFound(err):
			log.Warn().Err(err).Str("path", l.cfg.CachePath).Msg("Ignoring unreadable GTFS cache")
		}
	}

	tables, err := l.fetch(ctx)
	if err != nil {
		if cached != nil {
			log.Warn().Err(err).Msg("GTFS fetch failed, using stale cache")
			return cached, nil
		}
		return nil, err
	}

	if l.cfg.CachePath != "" {
		if err := gtfs.SerializeTablesToFile(tables, l.cfg.CachePath); err != nil {
			log.Warn().Err(err).Str("path", l.cfg.CachePath).Msg("Failed to write GTFS cache")
		}
	}
	return tables, nil
}

func (l *staticLoader) fetch(ctx context.Context) (*gtfs.Tables, error) {
	if l.cfg.StaticURL == "" {
		return nil, errors.New("gtfs staticURL is not configured")
	}
	data, err := l.fetcher.Fetch(ctx, l.cfg.StaticURL)
	if err != nil {
		return nil, fmt.Errorf("fetch gtfs: %w", err)
	}
	tables, err := gtfs.ParseZip(data)
	if err != nil {
		return nil, fmt.Errorf("parse gtfs: %w", err)
	}
	return tables, nil
}

// run reloads into store on every interval until ctx is done. Failed reloads
// keep the current index.
func (l *staticLoader) run(ctx context.Context, store *gtfs.Store) {
	for {
		select {
		case <-time.After(l.interval()):
			tables, err := l.load(ctx)
			if err != nil {
				log.Error().Err(err).Msg("GTFS refresh failed, keeping current schedule")
				continue
			}
			store.Swap(gtfs.NewIndex(tables))
			log.Info().Int("stops", len(tables.Stops)).Int("trips", len(tables.Trips)).Msg("Refreshed GTFS schedule")
		case <-ctx.Done():
			return
		}
	}
}
