package predictor

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/odds-oracle/internal/models"
)

func match(home, draw, away string, homeGoals, awayGoals float64, homeScore, awayScore int) models.HistoricalMatch {
	return models.HistoricalMatch{
		HomeOdds:  decimal.RequireFromString(home),
		DrawOdds:  decimal.RequireFromString(draw),
		AwayOdds:  decimal.RequireFromString(away),
		HomeGoals: homeGoals,
		AwayGoals: awayGoals,
		HomeScore: homeScore,
		AwayScore: awayScore,
	}
}

func query(t *testing.T, home, draw, away string) models.QueryOdds {
	t.Helper()
	q, err := models.ParseQueryOdds(home, draw, away)
	require.NoError(t, err)
	return q
}

type countingAdvisor struct {
	response string
	err      error
	calls    int
	payload  *models.PredictionPayload
}

func (a *countingAdvisor) Advise(ctx context.Context, payload *models.PredictionPayload) (string, error) {
	a.calls++
	a.payload = payload
	return a.response, a.err
}

// TestPredictEndToEndFallback covers three identical home-heavy rows with no advisor answer
func TestPredictEndToEndFallback(t *testing.T) {
	table := []models.HistoricalMatch{
		match("1.50", "4.00", "6.00", 2, 0, 2, 0),
		match("1.50", "4.00", "7.00", 2, 0, 2, 0),
		match("1.50", "4.10", "6.00", 2, 0, 2, 0),
	}
	advisor := &countingAdvisor{response: "not json"}
	p := New(advisor, nil)

	pred, err := p.Predict(context.Background(), table, query(t, "1.50", "4.00", "6.00"), 50)
	require.NoError(t, err)

	assert.Equal(t, 3, pred.NeighborCount)
	assert.Equal(t, models.SourceFallback, pred.Source)
	assert.Equal(t, ReasonUnparseable, pred.FallbackReason)
	assert.Equal(t, models.MarketHomeTeamGoals, pred.Decision.BestMarket)
	assert.Equal(t, "Home Over 0.5 Goals", pred.Decision.Outcome())
	assert.Equal(t, 0.53, pred.Decision.Confidence)
	assert.Equal(t, 1, advisor.calls)
}

// TestPredictModelDecisionPassesThrough tests that a valid advisor answer is returned as is
func TestPredictModelDecisionPassesThrough(t *testing.T) {
	table := []models.HistoricalMatch{match("2.00", "3.20", "3.80", 1.4, 1.1, 1, 1)}
	advisor := &countingAdvisor{
		response: `{"best_market":"Match Result","best_outcome":"Home","expected_total_goals":"medium","confidence":0.9,"reasoning_summary":"home side won most"}`,
	}
	p := New(advisor, nil)

	pred, err := p.Predict(context.Background(), table, query(t, "2.00", "3.20", "3.80"), 10)
	require.NoError(t, err)

	assert.Equal(t, models.SourceModel, pred.Source)
	assert.Empty(t, pred.FallbackReason)
	assert.Equal(t, "Match Result", pred.Decision.BestMarket)
	assert.Equal(t, "Home", pred.Decision.Outcome())
	assert.Equal(t, 0.9, pred.Decision.Confidence)

	require.NotNil(t, advisor.payload)
	assert.Equal(t, 1, advisor.payload.SampleSize)
	assert.Equal(t, 2.0, advisor.payload.CurrentMatchOdds.Home)
}

// TestPredictEmptyNeighborsSkipsAdvisor tests the zero-confidence sentinel path
func TestPredictEmptyNeighborsSkipsAdvisor(t *testing.T) {
	table := []models.HistoricalMatch{match("1.20", "6.00", "11.00", 2.5, 0.3, 3, 0)}
	advisor := &countingAdvisor{response: `{"best_market":"Match Result","confidence":0.99}`}
	p := New(advisor, nil)

	pred, err := p.Predict(context.Background(), table, query(t, "3.00", "3.00", "3.00"), 50)
	require.NoError(t, err)

	assert.Equal(t, 0, advisor.calls)
	assert.Equal(t, ReasonNoNeighbors, pred.FallbackReason)
	assert.Equal(t, models.MarketFallback, pred.Decision.BestMarket)
	assert.Nil(t, pred.Decision.BestOutcome)
	assert.Equal(t, 0.0, pred.Decision.Confidence)
}

// TestPredictAdvisorErrorFallsBack tests that a failed call yields a single fallback
func TestPredictAdvisorErrorFallsBack(t *testing.T) {
	table := []models.HistoricalMatch{match("2.00", "3.20", "3.80", 0.8, 1.2, 0, 2)}
	advisor := &countingAdvisor{err: errors.New("connection reset")}
	p := New(advisor, nil)

	pred, err := p.Predict(context.Background(), table, query(t, "2.00", "3.20", "3.80"), 0)
	require.NoError(t, err)

	assert.Equal(t, 1, advisor.calls)
	assert.Equal(t, ReasonAdvisorError, pred.FallbackReason)
	assert.Equal(t, Fallback(NeighborSet(table)), pred.Decision)
	assert.Equal(t, DefaultK, pred.K)
}

func TestPredictWithoutAdvisor(t *testing.T) {
	table := []models.HistoricalMatch{match("2.00", "3.20", "3.80", 0.8, 1.2, 0, 2)}
	p := New(nil, nil)

	pred, err := p.Predict(context.Background(), table, query(t, "2.00", "3.20", "3.80"), 5)
	require.NoError(t, err)
	assert.Equal(t, ReasonAdvisorDisabled, pred.FallbackReason)
}

func TestPredictRejectsInvalidInput(t *testing.T) {
	p := New(nil, nil)
	valid := query(t, "2.00", "3.20", "3.80")

	_, err := p.Predict(context.Background(), nil, valid, -1)
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	zero := models.QueryOdds{Home: decimal.Zero, Draw: valid.Draw, Away: valid.Away}
	_, err = p.Predict(context.Background(), nil, zero, 10)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}
