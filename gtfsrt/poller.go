package gtfsrt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	iso8601 "github.com/senseyeio/duration"
	"github.com/sourcegraph/conc/pool"
)

// DefaultPollInterval is how often vehicle positions are refreshed.
const DefaultPollInterval = 30 * time.Second

// ErrNoFeeds is returned by Refresh when the poller has no URLs configured.
var ErrNoFeeds = errors.New("no vehicle position feeds configured")

// Fetcher returns raw feed bytes for a URL or path.
type Fetcher interface {
	Fetch(ctx context.Context, urlOrPath string) ([]byte, error)
}

// Poller periodically fetches vehicle positions and swaps a fresh Snapshot into a Store.
type Poller struct {
	fetcher    Fetcher
	store      *Store
	urls       []string
	interval   time.Duration
	staleAfter iso8601.Duration
}

// PollerOption configures a Poller.
type PollerOption func(*Poller)

// WithInterval sets the refresh period.
func WithInterval(d time.Duration) PollerOption {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithStaleAfter drops vehicles whose own report is older than d relative to
// the feed header.
func WithStaleAfter(d iso8601.Duration) PollerOption {
	return func(p *Poller) { p.staleAfter = d }
}

// NewPoller creates a poller over urls writing into store.
func NewPoller(fetcher Fetcher, store *Store, urls []string, opts ...PollerOption) *Poller {
	p := &Poller{
		fetcher:  fetcher,
		store:    store,
		urls:     urls,
		interval: DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type feedResult struct {
	vehicles []VehiclePosition
	headerTS int64
}

// Refresh fetches every feed concurrently and installs the merged snapshot.
// Feeds that fail are logged and skipped; if all fail the previous snapshot
// stays in place and the combined error is returned.
func (p *Poller) Refresh(ctx context.Context) error {
	if len(p.urls) == 0 {
		return ErrNoFeeds
	}

	fetchPool := pool.NewWithResults[feedResult]().WithContext(ctx).WithMaxGoroutines(4)
	for _, url := range p.urls {
		fetchPool.Go(func(ctx context.Context) (feedResult, error) {
			data, err := p.fetcher.Fetch(ctx, url)
			if err != nil {
				return feedResult{}, fmt.Errorf("vehicle positions: %w", err)
			}
			vehicles, ts, err := ParseVehiclePositions(data)
			if err != nil {
				return feedResult{}, fmt.Errorf("vehicle positions %s: %w", redact(url), err)
			}
			return feedResult{vehicles: vehicles, headerTS: ts}, nil
		})
	}
	results, err := fetchPool.Wait()
	if len(results) == 0 {
		if err == nil {
			err = errors.New("vehicle positions: no feed returned data")
		}
		return err
	}
	if err != nil {
		log.Warn().Err(err).Int("ok", len(results)).Int("feeds", len(p.urls)).Msg("Some vehicle position feeds failed")
	}

	var merged []VehiclePosition
	var headerTS int64
	for _, r := range results {
		if r.headerTS > headerTS {
			headerTS = r.headerTS
		}
		merged = append(merged, r.vehicles...)
	}
	if headerTS == 0 {
		headerTS = time.Now().Unix()
	}
	merged = p.dropStale(merged, headerTS)

	p.store.Swap(NewSnapshot(merged, headerTS))
	log.Debug().Int("vehicles", len(merged)).Int64("timestamp", headerTS).Msg("Refreshed vehicle positions")
	return nil
}

func (p *Poller) dropStale(vehicles []VehiclePosition, headerTS int64) []VehiclePosition {
	if p.staleAfter == (iso8601.Duration{}) {
		return vehicles
	}
	header := time.Unix(headerTS, 0)
	fresh := vehicles[:0]
	for _, v := range vehicles {
		if v.Timestamp > 0 && p.staleAfter.Shift(time.Unix(v.Timestamp, 0)).Before(header) {
			continue
		}
		fresh = append(fresh, v)
	}
	return fresh
}

// Run refreshes immediately and then on every tick until ctx is done.
func (p *Poller) Run(ctx context.Context) {
	if err := p.Refresh(ctx); err != nil {
		log.Error().Err(err).Msg("Initial vehicle position refresh failed")
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := p.Refresh(ctx); err != nil {
				log.Error().Err(err).Msg("Vehicle position refresh failed, keeping previous snapshot")
			}
		case <-ctx.Done():
			log.Info().Msg("Vehicle position polling stopped")
			return
		}
	}
}
