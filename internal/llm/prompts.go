package llm

import (
	"encoding/json"
	"fmt"

	"github.com/yourusername/odds-oracle/internal/models"
)

const systemPrompt = `You are a football betting market selection agent.
You receive ONLY historical results of matches whose 1X2 odds resemble the upcoming match. Each match has:
- home_odds, draw_odds, away_odds
- predicted goals: home_goals and away_goals
- final score: home_score and away_score

Your job:
- Look for frequencies and patterns across the supplied matches.
- Combine predicted goals with final scores to assess these markets:
  * Match Result (Home / Draw / Away)
  * Home Team Over/Under 1.5 Goals
  * Away Team Over/Under 1.5 Goals
  * Over/Under 1.5 Goals
  * Over/Under 2.5 Goals
  * Both Teams To Score (Yes / No)
  * Double Chance (1X / X2 / 12)
- Pick the SINGLE strongest market and the best outcome inside it.
- Give a confidence between 0 and 1.
- Rely on the supplied data only.
- If no market reaches a confidence of 0.95, answer with best_market "insufficient evidence".

Reply with JSON only and no explanations.`

const responseShape = `{
  "best_market": "Match Result | Over/Under 2.5 | BTTS | Double Chance | insufficient evidence",
  "best_outcome": "string or null",
  "expected_total_goals": "low | medium | high",
  "confidence": number between 0 and 1,
  "reasoning_summary": "short, data-driven explanation quoting figures from the matches"
}`

// buildUserPrompt embeds the payload JSON and the expected answer shape
func buildUserPrompt(payload *models.PredictionPayload) (string, error) {
	raw, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode payload: %w", err)
	}

	return fmt.Sprintf("Similar historical matches with predicted goals, final scores and odds:\n\n%s\n\nAnswer with a JSON object of this shape:\n\n%s\n", raw, responseShape), nil
}
