package models

import (
	"time"

	"github.com/google/uuid"
)

// Market names produced by the fallback heuristic, plus the two sentinels
const (
	MarketInsufficientEvidence = "insufficient evidence"
	MarketFallback             = "Fallback"
	MarketHomeTeamGoals        = "Home Team Over/Under Goals"
	MarketAwayTeamGoals        = "Away Team Over/Under Goals"
	MarketOverUnder15          = "Over/Under 1.5 Goals"
	MarketBothTeamsToScore     = "Both Teams To Score"
)

// Expected total goals buckets
const (
	GoalsLow    = "low"
	GoalsMedium = "medium"
	GoalsHigh   = "high"
)

// DecisionSource tells whether a decision came from the model or the fallback
type DecisionSource string

const (
	SourceModel    DecisionSource = "model"
	SourceFallback DecisionSource = "fallback"
)

// DecisionRecord is the market recommendation for one query
type DecisionRecord struct {
	BestMarket         string  `json:"best_market" validate:"required"`
	BestOutcome        *string `json:"best_outcome"`
	ExpectedTotalGoals string  `json:"expected_total_goals" validate:"omitempty,oneof=low medium high"`
	Confidence         float64 `json:"confidence" validate:"gte=0,lte=1"`
	ReasoningSummary   string  `json:"reasoning_summary"`
}

// Outcome returns the outcome string, or "" when absent
func (d DecisionRecord) Outcome() string {
	if d.BestOutcome == nil {
		return ""
	}
	return *d.BestOutcome
}

// MeetsThreshold checks if the confidence meets the given threshold
func (d DecisionRecord) MeetsThreshold(threshold float64) bool {
	return d.Confidence >= threshold
}

// Prediction is a decision together with the query that produced it
type Prediction struct {
	ID             uuid.UUID      `db:"id" json:"id"`
	Query          QueryOdds      `db:"query" json:"query"`
	K              int            `db:"k" json:"k"`
	NeighborCount  int            `db:"neighbor_count" json:"neighbor_count"`
	Source         DecisionSource `db:"source" json:"source"`
	FallbackReason string         `db:"fallback_reason" json:"fallback_reason,omitempty"`
	Decision       DecisionRecord `db:"decision" json:"decision"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
}

// IsFallback reports whether the heuristic produced the decision
func (p *Prediction) IsFallback() bool {
	return p.Source == SourceFallback
}
