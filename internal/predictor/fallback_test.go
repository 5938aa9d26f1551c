package predictor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/odds-oracle/internal/models"
)

func repeat(m models.HistoricalMatch, n int) NeighborSet {
	out := make(NeighborSet, n)
	for i := range out {
		out[i] = m
	}
	return out
}

func TestFallbackEmpty(t *testing.T) {
	d := Fallback(nil)

	assert.Equal(t, models.MarketFallback, d.BestMarket)
	assert.Nil(t, d.BestOutcome)
	assert.Equal(t, models.GoalsLow, d.ExpectedTotalGoals)
	assert.Equal(t, 0.0, d.Confidence)
	assert.Contains(t, d.ReasoningSummary, "No historical matches available")
}

func TestFallbackBranches(t *testing.T) {
	tests := []struct {
		name      string
		neighbors NeighborSet
		market    string
		outcome   string
		goals     string
	}{
		{
			name:      "home goals ahead",
			neighbors: NeighborSet{match("1.5", "4", "6", 1.8, 0.6, 1, 0)},
			market:    models.MarketHomeTeamGoals,
			outcome:   "Home Over 0.5 Goals",
			goals:     models.GoalsLow,
		},
		{
			name:      "away goals above two",
			neighbors: NeighborSet{match("5", "4", "1.5", 1.0, 2.4, 1, 3)},
			market:    models.MarketAwayTeamGoals,
			outcome:   "Away Over 0.5 Goals",
			goals:     models.GoalsHigh,
		},
		{
			name:      "total goals at least two",
			neighbors: NeighborSet{match("2.5", "3", "2.5", 1.0, 1.0, 1, 1)},
			market:    models.MarketOverUnder15,
			outcome:   "Over 1.5 Goals",
			goals:     models.GoalsMedium,
		},
		{
			name: "both teams score often",
			neighbors: NeighborSet{
				match("2.5", "3", "2.5", 1.0, 1.0, 1, 1),
				match("2.5", "3", "2.5", 1.0, 1.0, 1, 1),
				match("2.5", "3", "2.5", 1.0, 1.0, 1, 1),
				match("2.5", "3", "2.5", 1.0, 1.0, 0, 0),
			},
			market:  models.MarketBothTeamsToScore,
			outcome: "Yes",
			goals:   models.GoalsMedium,
		},
		{
			name:      "default under",
			neighbors: NeighborSet{match("2.5", "3", "2.5", 0.5, 0.5, 1, 0)},
			market:    models.MarketOverUnder15,
			outcome:   "Under 1.5 Goals",
			goals:     models.GoalsLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Fallback(tt.neighbors)
			assert.Equal(t, tt.market, d.BestMarket)
			assert.Equal(t, tt.outcome, d.Outcome())
			assert.Equal(t, tt.goals, d.ExpectedTotalGoals)
		})
	}
}

// TestFallbackPrecedence builds neighbors satisfying both the home-goals and
// total-goals branches; the home-goals branch must win
func TestFallbackPrecedence(t *testing.T) {
	neighbors := NeighborSet{match("1.5", "4", "6", 2.2, 0.4, 3, 1)}

	stats := Summarize(neighbors)
	require.Greater(t, stats.AvgHomeGoals, stats.AvgAwayGoals)
	require.GreaterOrEqual(t, stats.AvgTotalGoals, 2.0)

	d := Fallback(neighbors)
	assert.Equal(t, models.MarketHomeTeamGoals, d.BestMarket)
	assert.Equal(t, "Home Over 0.5 Goals", d.Outcome())
}

func TestFallbackConfidence(t *testing.T) {
	row := match("2", "3", "4", 1.5, 0.5, 2, 0)

	tests := []struct {
		count int
		want  float64
	}{
		{1, 0.51},
		{3, 0.53},
		{10, 0.6},
		{29, 0.79},
		{30, 0.8},
		{300, 0.8},
	}

	for _, tt := range tests {
		d := Fallback(repeat(row, tt.count))
		assert.Equal(t, tt.want, d.Confidence, "count=%d", tt.count)
		assert.GreaterOrEqual(t, d.Confidence, 0.0)
		assert.LessOrEqual(t, d.Confidence, 0.8)
	}
}

func TestFallbackDeterministic(t *testing.T) {
	neighbors := NeighborSet{
		match("2", "3", "4", 1.2, 1.7, 2, 2),
		match("2", "3", "5", 0.9, 1.1, 0, 1),
	}

	first := Fallback(neighbors)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Fallback(neighbors))
	}
}

func TestFallbackReasoningSummary(t *testing.T) {
	neighbors := NeighborSet{
		match("2", "3", "4", 1.0, 2.0, 1, 1),
		match("2", "3", "4", 2.0, 1.0, 2, 0),
	}

	d := Fallback(neighbors)
	assert.Equal(t,
		"Fallback based on 2 historical matches. Avg home goals: 1.50, avg away goals: 1.50, avg total goals: 2.00, BTTS frequency: 0.50.",
		d.ReasoningSummary,
	)
}

func TestSummarize(t *testing.T) {
	neighbors := NeighborSet{
		match("2", "3", "4", 1.0, 0.5, 2, 1),
		match("2", "3", "4", 2.0, 1.5, 0, 0),
	}

	s := Summarize(neighbors)
	assert.Equal(t, 2, s.Count)
	assert.Equal(t, 1.5, s.AvgHomeGoals)
	assert.Equal(t, 1.0, s.AvgAwayGoals)
	assert.Equal(t, 1.5, s.AvgTotalGoals)
	assert.Equal(t, 0.5, s.BTTSFrequency)
}
