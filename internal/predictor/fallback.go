package predictor

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/yourusername/odds-oracle/internal/models"
)

const (
	baseConfidence        = 0.5
	confidenceSampleSize  = 50.0
	maxFallbackConfidence = 0.8
	bttsThreshold         = 0.7
	noNeighborsReasoning  = "No historical matches available for fallback."
)

// Stats holds the averages the fallback heuristic decides on
type Stats struct {
	Count         int
	AvgHomeGoals  float64
	AvgAwayGoals  float64
	AvgTotalGoals float64
	BTTSFrequency float64
}

// Summarize computes the fallback statistics over a neighbor set.
// Goal averages use the predicted goals; totals and BTTS use final scores.
func Summarize(neighbors NeighborSet) Stats {
	stats := Stats{Count: len(neighbors)}
	if stats.Count == 0 {
		return stats
	}

	var homeGoals, awayGoals float64
	var totalScore, btts int
	for _, m := range neighbors {
		homeGoals += m.HomeGoals
		awayGoals += m.AwayGoals
		totalScore += m.TotalScore()
		if m.BothTeamsScored() {
			btts++
		}
	}

	n := float64(stats.Count)
	stats.AvgHomeGoals = homeGoals / n
	stats.AvgAwayGoals = awayGoals / n
	stats.AvgTotalGoals = float64(totalScore) / n
	stats.BTTSFrequency = float64(btts) / n
	return stats
}

// Fallback derives a decision from the neighbor statistics alone.
// Branches are evaluated in a fixed order and the first true one wins; the
// home-goals and total-goals conditions can hold together.
func Fallback(neighbors NeighborSet) models.DecisionRecord {
	if len(neighbors) == 0 {
		return models.DecisionRecord{
			BestMarket:         models.MarketFallback,
			BestOutcome:        nil,
			ExpectedTotalGoals: models.GoalsLow,
			Confidence:         0,
			ReasoningSummary:   noNeighborsReasoning,
		}
	}

	stats := Summarize(neighbors)
	market, outcome := pickMarket(stats)

	return models.DecisionRecord{
		BestMarket:         market,
		BestOutcome:        &outcome,
		ExpectedTotalGoals: expectedTotalGoals(stats.AvgTotalGoals),
		Confidence:         fallbackConfidence(stats.Count),
		ReasoningSummary: fmt.Sprintf(
			"Fallback based on %d historical matches. Avg home goals: %.2f, avg away goals: %.2f, avg total goals: %.2f, BTTS frequency: %.2f.",
			stats.Count, stats.AvgHomeGoals, stats.AvgAwayGoals, stats.AvgTotalGoals, stats.BTTSFrequency,
		),
	}
}

func pickMarket(s Stats) (market, outcome string) {
	switch {
	case s.AvgHomeGoals > s.AvgAwayGoals:
		return models.MarketHomeTeamGoals, "Home Over 0.5 Goals"
	case s.AvgAwayGoals > 2:
		return models.MarketAwayTeamGoals, "Away Over 0.5 Goals"
	case s.AvgTotalGoals >= 2:
		return models.MarketOverUnder15, "Over 1.5 Goals"
	case s.BTTSFrequency > bttsThreshold:
		return models.MarketBothTeamsToScore, "Yes"
	default:
		return models.MarketOverUnder15, "Under 1.5 Goals"
	}
}

// fallbackConfidence grows with the sample size and saturates at 0.8 from 30 rows
func fallbackConfidence(count int) float64 {
	c := math.Min(baseConfidence+baseConfidence*(float64(count)/confidenceSampleSize), maxFallbackConfidence)
	return decimal.NewFromFloat(c).Round(2).InexactFloat64()
}

func expectedTotalGoals(avgTotal float64) string {
	switch {
	case avgTotal > 2:
		return models.GoalsHigh
	case avgTotal > 1:
		return models.GoalsMedium
	default:
		return models.GoalsLow
	}
}
