package gtfs

import (
	"github.com/rs/zerolog/log"
)

// Fare is the resolved price of a ride.
type Fare struct {
	FareID   string
	Amount   float64
	Currency string
	// Ambiguous is set when more than one rule matched; the first one in
	// fare_rules.txt order was used.
	Ambiguous bool
}

// FareResolver prices a ride on a route between two stops.
type FareResolver struct {
	rules []FareRule
	attrs map[string]FareAttribute
}

// NewFareResolver builds a resolver; rules keep their table order.
func NewFareResolver(rules []FareRule, attrs []FareAttribute) *FareResolver {
	m := make(map[string]FareAttribute, len(attrs))
	for _, a := range attrs {
		if _, dup := m[a.FareID]; !dup {
			m[a.FareID] = a
		}
	}
	return &FareResolver{rules: rules, attrs: m}
}

func (r FareRule) matches(routeID, originStopID, destinationStopID string) bool {
	if r.RouteID != routeID {
		return false
	}
	if r.OriginID != "" && r.OriginID != originStopID {
		return false
	}
	return r.DestinationID == "" || r.DestinationID == destinationStopID
}

// ResolveFare returns the fare of the first matching rule. No matching rule,
// or a rule whose fare attribute is missing, prices the ride at zero.
func (fr *FareResolver) ResolveFare(routeID, originStopID, destinationStopID string) Fare {
	if fr == nil {
		return Fare{}
	}
	var chosen *FareRule
	matches := 0
	for i := range fr.rules {
		if !fr.rules[i].matches(routeID, originStopID, destinationStopID) {
			continue
		}
		matches++
		if chosen == nil {
			chosen = &fr.rules[i]
		}
	}
	if chosen == nil {
		return Fare{}
	}
	if matches > 1 {
		log.Warn().
			Str("kind", "AMBIGUOUS_FARE").
			Str("route", routeID).
			Str("origin", originStopID).
			Str("destination", destinationStopID).
			Int("matches", matches).
			Str("fare", chosen.FareID).
			Msg("Multiple fare rules match, using the first")
	}
	attr, ok := fr.attrs[chosen.FareID]
	if !ok {
		return Fare{FareID: chosen.FareID, Ambiguous: matches > 1}
	}
	amount := attr.Price
	if amount < 0 {
		amount = 0
	}
	return Fare{
		FareID:    chosen.FareID,
		Amount:    amount,
		Currency:  attr.CurrencyType,
		Ambiguous: matches > 1,
	}
}
