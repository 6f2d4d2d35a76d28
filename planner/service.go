package planner

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/theoremus-urban-solutions/gtfs-route-planner/gtfs"
	"github.com/theoremus-urban-solutions/gtfs-route-planner/gtfsrt"
)

// StaticSource provides the current static index, e.g. a *gtfs.Store.
type StaticSource interface {
	Index() *gtfs.Index
}

// LiveSource provides the current live snapshot, e.g. a *gtfsrt.Store.
type LiveSource interface {
	Current() *gtfsrt.Snapshot
}

// Config configures a Service.
type Config struct {
	Options
	Thresholds Thresholds
	// MaxAlternatives caps the alternatives returned after sorting. Zero keeps all.
	MaxAlternatives int
	// Timezone is used when the feed declares no agency timezone.
	Timezone        string
	ScoreExpression string
}

// PlanRequest is a rider's question.
type PlanRequest struct {
	Origin        Endpoint
	Destination   Endpoint
	ReferenceTime time.Time
	HasLuggage    bool
	SortBy        SortCriterion
}

// Service plans routes against whatever static and live data is current when
// a request starts.
type Service struct {
	static    StaticSource
	live      LiveSource
	cfg       Config
	ranker    *Ranker
	locations sync.Map // timezone name -> *time.Location
}

// NewService validates cfg and creates a service.
func NewService(static StaticSource, live LiveSource, cfg Config) (*Service, error) {
	ranker, err := NewRanker(cfg.ScoreExpression)
	if err != nil {
		return nil, err
	}
	if cfg.Thresholds == (Thresholds{}) {
		cfg.Thresholds = DefaultThresholds
	}
	return &Service{static: static, live: live, cfg: cfg, ranker: ranker}, nil
}

// PlanRoute answers req with a main route and, when the main route is too
// crowded for the rider, sorted alternatives. The returned error is only set
// for corrupt schedule data; no-route outcomes are in Result.Error.
func (s *Service) PlanRoute(req PlanRequest) (Result, error) {
	ix := s.static.Index()
	snap := s.live.Current()

	opts := s.cfg.Options
	opts.Location = s.locationFor(ix)
	p := New(ix, snap, opts)

	main, kind, err := p.Plan(req.Origin, req.Destination, req.ReferenceTime)
	if err != nil {
		return Result{}, err
	}
	if kind != "" {
		return Result{AlternativeRoutes: []AlternativeRoute{}, Error: kind}, nil
	}

	threshold := s.cfg.Thresholds.For(req.HasLuggage)
	alternatives, err := p.Alternatives(req.Origin, req.Destination, req.ReferenceTime, main, threshold)
	if err != nil {
		return Result{}, err
	}
	if alternatives == nil {
		alternatives = []AlternativeRoute{}
	}
	sortBy := req.SortBy
	if sortBy == "" {
		sortBy = SortByScore
	}
	if err := s.ranker.SortAlternatives(alternatives, sortBy); err != nil {
		return Result{}, err
	}
	if s.cfg.MaxAlternatives > 0 && len(alternatives) > s.cfg.MaxAlternatives {
		alternatives = alternatives[:s.cfg.MaxAlternatives]
	}

	log.Debug().
		Str("route", main.ID).
		Str("occupancy", main.Occupancy.String()).
		Int("alternatives", len(alternatives)).
		Msg("Planned route")

	return Result{MainRoute: main, AlternativeRoutes: alternatives}, nil
}

// Location is the timezone reference times are interpreted in: the agency
// timezone of the current feed, else Config.Timezone. Nil means each
// reference time keeps its own location.
func (s *Service) Location() *time.Location {
	return s.locationFor(s.static.Index())
}

func (s *Service) locationFor(ix *gtfs.Index) *time.Location {
	if s.cfg.Options.Location != nil {
		return s.cfg.Options.Location
	}
	if ix == nil {
		return s.location(s.cfg.Timezone)
	}
	return s.location(ix.Timezone(s.cfg.Timezone))
}

func (s *Service) location(name string) *time.Location {
	if name == "" {
		return nil
	}
	if loc, ok := s.locations.Load(name); ok {
		return loc.(*time.Location)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Warn().Err(err).Str("timezone", name).Msg("Unknown timezone, using request time as given")
		return nil
	}
	s.locations.Store(name, loc)
	return loc
}
