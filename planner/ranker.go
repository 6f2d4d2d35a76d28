package planner

import (
	"cmp"
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/theoremus-urban-solutions/gtfs-route-planner/gtfsrt"
	"golang.org/x/exp/slices"
)

// SortCriterion orders itineraries.
type SortCriterion string

const (
	SortByTime      SortCriterion = "time"
	SortByFare      SortCriterion = "fare"
	SortByTransfers SortCriterion = "transfers"
	SortByScore     SortCriterion = "score"
)

// ParseSortCriterion accepts time, fare, transfers or score. Empty means score.
func ParseSortCriterion(s string) (SortCriterion, error) {
	switch c := SortCriterion(s); c {
	case SortByTime, SortByFare, SortByTransfers, SortByScore:
		return c, nil
	case "":
		return SortByScore, nil
	default:
		return "", fmt.Errorf("unknown sort criterion %q", s)
	}
}

// DefaultScoreExpression rewards short walks, no transfers and empty vehicles.
const DefaultScoreExpression = "100 - walkingMeters / 100 - transfers * 10 + crowdingBonus"

var crowdingPenalty = map[gtfsrt.OccupancyLevel]float64{
	gtfsrt.Empty:                   0,
	gtfsrt.ManySeatsAvailable:      0,
	gtfsrt.FewSeatsAvailable:       2,
	gtfsrt.StandingRoomOnly:        5,
	gtfsrt.CrushedStandingRoomOnly: 10,
	gtfsrt.Full:                    15,
	gtfsrt.NotAcceptingPassengers:  20,
}

// CrowdingBonus is 20 for an empty vehicle down to 0 for one not accepting passengers.
func CrowdingBonus(level gtfsrt.OccupancyLevel) float64 {
	penalty, ok := crowdingPenalty[level]
	if !ok {
		penalty = crowdingPenalty[gtfsrt.NotAcceptingPassengers]
	}
	return crowdingPenalty[gtfsrt.NotAcceptingPassengers] - penalty
}

func scoreEnv(r *RouteInfo) map[string]interface{} {
	return map[string]interface{}{
		"walkingMeters": r.WalkingDistance.Total(),
		"transfers":     r.Transfers,
		"crowdingBonus": CrowdingBonus(r.Occupancy),
		"totalMinutes":  r.TotalMinutes,
		"fare":          r.FareAmount,
	}
}

// Ranker sorts itineraries. The composite score is an expression over
// walkingMeters, transfers, crowdingBonus, totalMinutes and fare; higher is better.
type Ranker struct {
	program *vm.Program
}

// NewRanker compiles expression, or DefaultScoreExpression when empty.
func NewRanker(expression string) (*Ranker, error) {
	if expression == "" {
		expression = DefaultScoreExpression
	}
	program, err := expr.Compile(expression, expr.Env(scoreEnv(&RouteInfo{})), expr.AsFloat64())
	if err != nil {
		return nil, fmt.Errorf("compile score expression: %w", err)
	}
	return &Ranker{program: program}, nil
}

// Score evaluates the composite score of r.
func (rk *Ranker) Score(r *RouteInfo) (float64, error) {
	out, err := expr.Run(rk.program, scoreEnv(r))
	if err != nil {
		return 0, fmt.Errorf("score %s: %w", r.ID, err)
	}
	score, ok := out.(float64)
	if !ok {
		return 0, fmt.Errorf("score %s: got %T", r.ID, out)
	}
	return score, nil
}

// SortRoutes orders routes in place by criterion.
func (rk *Ranker) SortRoutes(routes []RouteInfo, by SortCriterion) error {
	return sortRanked(routes, func(r *RouteInfo) *RouteInfo { return r }, rk.key(by))
}

// SortAlternatives orders alternatives in place by criterion.
func (rk *Ranker) SortAlternatives(alternatives []AlternativeRoute, by SortCriterion) error {
	return sortRanked(alternatives, func(a *AlternativeRoute) *RouteInfo { return &a.RouteInfo }, rk.key(by))
}

// key returns an ascending sort key for the criterion.
func (rk *Ranker) key(by SortCriterion) func(*RouteInfo) (float64, error) {
	switch by {
	case SortByTime:
		return func(r *RouteInfo) (float64, error) { return float64(r.TotalMinutes), nil }
	case SortByFare:
		return func(r *RouteInfo) (float64, error) { return r.FareAmount, nil }
	case SortByTransfers:
		return func(r *RouteInfo) (float64, error) { return float64(r.Transfers), nil }
	default:
		return func(r *RouteInfo) (float64, error) {
			score, err := rk.Score(r)
			return -score, err
		}
	}
}

type ranked[T any] struct {
	item      T
	key       float64
	departure int
	id        string
}

// sortRanked sorts stably by key, then departure time, then id, so sorting
// an already sorted slice leaves it unchanged.
func sortRanked[T any](items []T, info func(*T) *RouteInfo, key func(*RouteInfo) (float64, error)) error {
	rs := make([]ranked[T], len(items))
	for i := range items {
		ri := info(&items[i])
		k, err := key(ri)
		if err != nil {
			return err
		}
		rs[i] = ranked[T]{item: items[i], key: k, departure: ri.DepartureSeconds, id: ri.ID}
	}
	slices.SortStableFunc(rs, func(a, b ranked[T]) int {
		if c := cmp.Compare(a.key, b.key); c != 0 {
			return c
		}
		if c := cmp.Compare(a.departure, b.departure); c != 0 {
			return c
		}
		return cmp.Compare(a.id, b.id)
	})
	for i := range rs {
		items[i] = rs[i].item
	}
	return nil
}
