package dataset

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/odds-oracle/internal/models"
)

func TestParseJSONRecords(t *testing.T) {
	data, err := os.ReadFile("testdata/matches.json")
	require.NoError(t, err)

	matches, err := ParseJSON(data)
	require.NoError(t, err)
	require.Len(t, matches, 3)

	first := matches[0]
	assert.Equal(t, "1.85", first.HomeOdds.String())
	assert.Equal(t, "3.4", first.DrawOdds.String())
	assert.Equal(t, 1.6, first.HomeGoals)
	assert.Equal(t, 2, first.HomeScore)
	assert.Equal(t, 1, first.AwayScore)

	// numeric strings are accepted
	assert.Equal(t, "2.1", matches[2].HomeOdds.String())
}

func TestParseJSONColumns(t *testing.T) {
	doc := `{
		"home_odds":  {"1": 2.0, "0": 1.5, "10": 3.0},
		"draw_odds":  {"0": 4.0, "1": 3.2, "10": 3.1},
		"away_odds":  {"0": 6.0, "1": 3.8, "10": 2.4},
		"home_goals": {"0": 2.1, "1": 1.0, "10": 0.7},
		"away_goals": {"0": 0.4, "1": 1.1, "10": 1.6},
		"home_score": {"0": 3, "1": 1, "10": 0},
		"away_score": {"0": 0, "1": 1, "10": 2}
	}`

	matches, err := ParseJSON([]byte(doc))
	require.NoError(t, err)
	require.Len(t, matches, 3)

	// row index order, not lexical key order
	assert.Equal(t, "1.5", matches[0].HomeOdds.String())
	assert.Equal(t, "2", matches[1].HomeOdds.String())
	assert.Equal(t, "3", matches[2].HomeOdds.String())
}

func TestParseJSONColumnArrays(t *testing.T) {
	doc := `{
		"home_odds": [1.5], "draw_odds": [4.0], "away_odds": [6.0],
		"home_goals": [2.1], "away_goals": [0.4], "home_score": [3], "away_score": [0]
	}`

	matches, err := ParseJSON([]byte(doc))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, 3, matches[0].TotalScore())
}

func TestParseJSONEmptyArray(t *testing.T) {
	matches, err := ParseJSON([]byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestParseJSONRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty document", ``},
		{"scalar document", `42`},
		{"missing column", `[{"home_odds":1.5,"draw_odds":4,"away_odds":6,"home_goals":1,"away_goals":1,"home_score":1}]`},
		{"null odds", `[{"home_odds":null,"draw_odds":4,"away_odds":6,"home_goals":1,"away_goals":1,"home_score":1,"away_score":0}]`},
		{"text odds", `[{"home_odds":"evens","draw_odds":4,"away_odds":6,"home_goals":1,"away_goals":1,"home_score":1,"away_score":0}]`},
		{"negative score", `[{"home_odds":1.5,"draw_odds":4,"away_odds":6,"home_goals":1,"away_goals":1,"home_score":-1,"away_score":0}]`},
		{"fractional score", `[{"home_odds":1.5,"draw_odds":4,"away_odds":6,"home_goals":1,"away_goals":1,"home_score":1.5,"away_score":0}]`},
		{"boolean goals", `[{"home_odds":1.5,"draw_odds":4,"away_odds":6,"home_goals":true,"away_goals":1,"home_score":1,"away_score":0}]`},
		{"ragged columns", `{"home_odds":[1.5,2],"draw_odds":[4],"away_odds":[6],"home_goals":[1],"away_goals":[1],"home_score":[1],"away_score":[0]}`},
		{"missing column object", `{"home_odds":[1.5]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseJSON([]byte(tt.doc))
			assert.ErrorIs(t, err, models.ErrInvalidInput)
		})
	}
}

func TestParseCSV(t *testing.T) {
	f, err := os.Open("testdata/matches.csv")
	require.NoError(t, err)
	defer f.Close()

	matches, err := ParseCSV(f)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "4.2", matches[0].AwayOdds.String())
	assert.Equal(t, 2, matches[0].HomeScore)
	assert.Equal(t, 1, matches[0].AwayScore)
	assert.Equal(t, 1.3, matches[1].AwayGoals)
}

func TestParseCSVRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", ""},
		{"missing column", "home_odds,draw_odds,away_odds,home_goals,away_goals,home_score\n1.5,4,6,1,1,1\n"},
		{"blank value", "home_odds,draw_odds,away_odds,home_goals,away_goals,home_score,away_score\n1.5,,6,1,1,1,0\n"},
		{"non numeric goals", "home_odds,draw_odds,away_odds,home_goals,away_goals,home_score,away_score\n1.5,4,6,many,1,1,0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCSV(strings.NewReader(tt.doc))
			assert.ErrorIs(t, err, models.ErrInvalidInput)
		})
	}
}
