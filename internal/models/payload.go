package models

// OddsTriple is the query odds as sent to the advisor
type OddsTriple struct {
	Home float64 `json:"home"`
	Draw float64 `json:"draw"`
	Away float64 `json:"away"`
}

// PayloadMatch is one neighbor row as sent to the advisor
type PayloadMatch struct {
	HomeOdds  float64 `json:"home_odds"`
	DrawOdds  float64 `json:"draw_odds"`
	AwayOdds  float64 `json:"away_odds"`
	HomeGoals float64 `json:"home_goals"`
	AwayGoals float64 `json:"away_goals"`
	HomeScore int     `json:"home_score"`
	AwayScore int     `json:"away_score"`
}

// PredictionPayload is the request body handed to the external advisor.
// Its content is opaque to everything except the advisor.
type PredictionPayload struct {
	CurrentMatchOdds         OddsTriple     `json:"current_match_odds"`
	SampleSize               int            `json:"sample_size"`
	SimilarHistoricalMatches []PayloadMatch `json:"similar_historical_matches"`
}
