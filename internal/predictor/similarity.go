// Package predictor selects similar historical matches and turns them into a
// market decision, either by asking an external advisor or by a deterministic
// fallback over the match statistics.
package predictor

import "github.com/yourusername/odds-oracle/internal/models"

// DefaultK is the neighbor cap used when the caller passes zero
const DefaultK = 50

// minOddsMatches is how many of the three prices must match for a row to qualify
const minOddsMatches = 2

// NeighborSet is the ordered subset of historical rows similar to a query
type NeighborSet []models.HistoricalMatch

// FindSimilar returns the first k rows, in table order, whose odds equal the
// query on at least two of home/draw/away. Equality is exact decimal equality.
// A non-positive k falls back to DefaultK.
func FindSimilar(table []models.HistoricalMatch, query models.QueryOdds, k int) NeighborSet {
	if k <= 0 {
		k = DefaultK
	}

	neighbors := make(NeighborSet, 0, min(k, len(table)))
	for _, row := range table {
		if len(neighbors) == k {
			break
		}
		if row.OddsMatches(query) >= minOddsMatches {
			neighbors = append(neighbors, row)
		}
	}
	return neighbors
}
