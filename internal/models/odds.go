package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// QueryOdds is the home/draw/away price triple of the match being evaluated
type QueryOdds struct {
	Home decimal.Decimal `json:"home"`
	Draw decimal.Decimal `json:"draw"`
	Away decimal.Decimal `json:"away"`
}

// NewQueryOdds builds a query from decimal prices, rejecting non-positive values
func NewQueryOdds(home, draw, away decimal.Decimal) (QueryOdds, error) {
	fields := []struct {
		name  string
		value decimal.Decimal
	}{
		{"home", home},
		{"draw", draw},
		{"away", away},
	}
	for _, f := range fields {
		if !f.value.IsPositive() {
			return QueryOdds{}, fmt.Errorf("%w: %s odds must be positive, got %s", ErrInvalidInput, f.name, f.value)
		}
	}
	return QueryOdds{Home: home, Draw: draw, Away: away}, nil
}

// ParseQueryOdds parses three decimal strings into a query
func ParseQueryOdds(home, draw, away string) (QueryOdds, error) {
	values := make([]decimal.Decimal, 3)
	for i, raw := range []string{home, draw, away} {
		d, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			return QueryOdds{}, fmt.Errorf("%w: odds %q are not numeric", ErrInvalidInput, raw)
		}
		values[i] = d
	}
	return NewQueryOdds(values[0], values[1], values[2])
}

// String returns the odds as "home/draw/away"
func (q QueryOdds) String() string {
	return q.Home.String() + "/" + q.Draw.String() + "/" + q.Away.String()
}
