package predictor

import (
	"encoding/json"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/yourusername/odds-oracle/internal/models"
)

// Fallback reasons reported alongside a heuristic decision
const (
	ReasonNoNeighbors          = "no_neighbors"
	ReasonAdvisorDisabled      = "advisor_disabled"
	ReasonAdvisorError         = "advisor_error"
	ReasonUnparseable          = "unparseable_response"
	ReasonInsufficientEvidence = "insufficient_evidence"
	ReasonSchemaViolation      = "schema_violation"
)

var decisionValidator = validator.New()

// ResolveDecision turns the advisor's raw text into the final decision.
// Text that is not a JSON object, declares insufficient evidence, or fails the
// decision schema is discarded in favour of Fallback over the neighbors. The
// returned reason is empty when the advisor's decision was accepted.
func ResolveDecision(raw string, neighbors NeighborSet) (models.DecisionRecord, string) {
	var parsed models.DecisionRecord
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return Fallback(neighbors), ReasonUnparseable
	}

	if isInsufficientEvidence(parsed.BestMarket) {
		return Fallback(neighbors), ReasonInsufficientEvidence
	}

	if err := decisionValidator.Struct(parsed); err != nil {
		return Fallback(neighbors), ReasonSchemaViolation
	}

	return parsed, ""
}

func isInsufficientEvidence(market string) bool {
	return strings.EqualFold(strings.TrimSpace(market), models.MarketInsufficientEvidence)
}
