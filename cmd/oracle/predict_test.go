package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/odds-oracle/internal/models"
)

func TestReadQueryFromFlags(t *testing.T) {
	var out bytes.Buffer
	q, err := readQuery(strings.NewReader(""), &out, "1.85", "3.40", "4.20")
	require.NoError(t, err)

	assert.Equal(t, "1.85/3.4/4.2", q.String())
	assert.Empty(t, out.String())
}

func TestReadQueryPromptsForMissing(t *testing.T) {
	var out bytes.Buffer
	q, err := readQuery(strings.NewReader("3.40\n4.20\n"), &out, "1.85", "", "")
	require.NoError(t, err)

	assert.Equal(t, "1.85/3.4/4.2", q.String())
	assert.Equal(t, "Draw odds: Away odds: ", out.String())
}

func TestReadQueryErrors(t *testing.T) {
	var out bytes.Buffer

	_, err := readQuery(strings.NewReader(""), &out, "", "", "")
	assert.Error(t, err)

	_, err = readQuery(strings.NewReader("abc\n3\n4\n"), &out, "", "", "")
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestPrintPrediction(t *testing.T) {
	q, err := models.ParseQueryOdds("2.10", "3.10", "3.60")
	require.NoError(t, err)

	p := &models.Prediction{
		ID:             uuid.New(),
		Query:          q,
		K:              50,
		NeighborCount:  0,
		Source:         models.SourceFallback,
		FallbackReason: "no_neighbors",
		Decision: models.DecisionRecord{
			BestMarket: models.MarketFallback,
			Confidence: 0.5,
		},
		CreatedAt: time.Now(),
	}

	var out bytes.Buffer
	printPrediction(&out, p)

	assert.Contains(t, out.String(), "Query odds:       2.1/3.1/3.6")
	assert.Contains(t, out.String(), "Decision source:  fallback (no_neighbors)")
	assert.Contains(t, out.String(), "Confidence:       0.50")
	assert.NotContains(t, out.String(), "Best outcome")
}
