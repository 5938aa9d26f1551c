package models

import "github.com/shopspring/decimal"

// Column names every historical dataset must provide
const (
	ColumnHomeOdds  = "home_odds"
	ColumnDrawOdds  = "draw_odds"
	ColumnAwayOdds  = "away_odds"
	ColumnHomeGoals = "home_goals"
	ColumnAwayGoals = "away_goals"
	ColumnHomeScore = "home_score"
	ColumnAwayScore = "away_score"
)

// RequiredColumns lists the dataset columns in their canonical order
var RequiredColumns = []string{
	ColumnHomeOdds,
	ColumnDrawOdds,
	ColumnAwayOdds,
	ColumnHomeGoals,
	ColumnAwayGoals,
	ColumnHomeScore,
	ColumnAwayScore,
}

// HistoricalMatch is one row of the historical dataset.
// HomeGoals and AwayGoals are model-predicted goal counts; HomeScore and
// AwayScore are the final result.
type HistoricalMatch struct {
	HomeOdds  decimal.Decimal `db:"home_odds" json:"home_odds"`
	DrawOdds  decimal.Decimal `db:"draw_odds" json:"draw_odds"`
	AwayOdds  decimal.Decimal `db:"away_odds" json:"away_odds"`
	HomeGoals float64         `db:"home_goals" json:"home_goals"`
	AwayGoals float64         `db:"away_goals" json:"away_goals"`
	HomeScore int             `db:"home_score" json:"home_score"`
	AwayScore int             `db:"away_score" json:"away_score"`
}

// TotalScore returns the combined final goals
func (m HistoricalMatch) TotalScore() int {
	return m.HomeScore + m.AwayScore
}

// BothTeamsScored reports whether both sides scored at least once
func (m HistoricalMatch) BothTeamsScored() bool {
	return m.HomeScore > 0 && m.AwayScore > 0
}

// OddsMatches counts how many of the three prices equal the query exactly
func (m HistoricalMatch) OddsMatches(q QueryOdds) int {
	count := 0
	if m.HomeOdds.Equal(q.Home) {
		count++
	}
	if m.DrawOdds.Equal(q.Draw) {
		count++
	}
	if m.AwayOdds.Equal(q.Away) {
		count++
	}
	return count
}
