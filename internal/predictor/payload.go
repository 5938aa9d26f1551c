package predictor

import "github.com/yourusername/odds-oracle/internal/models"

// BuildPayload shapes the neighbor set and query into the advisor request
func BuildPayload(neighbors NeighborSet, query models.QueryOdds) *models.PredictionPayload {
	rows := make([]models.PayloadMatch, len(neighbors))
	for i, m := range neighbors {
		rows[i] = models.PayloadMatch{
			HomeOdds:  m.HomeOdds.InexactFloat64(),
			DrawOdds:  m.DrawOdds.InexactFloat64(),
			AwayOdds:  m.AwayOdds.InexactFloat64(),
			HomeGoals: m.HomeGoals,
			AwayGoals: m.AwayGoals,
			HomeScore: m.HomeScore,
			AwayScore: m.AwayScore,
		}
	}

	return &models.PredictionPayload{
		CurrentMatchOdds: models.OddsTriple{
			Home: query.Home.InexactFloat64(),
			Draw: query.Draw.InexactFloat64(),
			Away: query.Away.InexactFloat64(),
		},
		SampleSize:               len(neighbors),
		SimilarHistoricalMatches: rows,
	}
}
