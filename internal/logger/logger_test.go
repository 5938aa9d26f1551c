package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/odds-oracle/internal/models"
)

func setupTestLogger() (*logrus.Logger, *bytes.Buffer) {
	log := logrus.New()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.DebugLevel)
	return log, buf
}

func parseLogOutput(buf *bytes.Buffer) map[string]interface{} {
	var logEntry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		return nil
	}
	return logEntry
}

func samplePrediction() *models.Prediction {
	outcome := "Home Over 0.5 Goals"
	return &models.Prediction{
		ID: uuid.MustParse("6f1c1c2e-9a55-4b1e-8d0f-1c2d3e4f5a6b"),
		Query: models.QueryOdds{
			Home: decimal.RequireFromString("1.50"),
			Draw: decimal.RequireFromString("4.00"),
			Away: decimal.RequireFromString("6.00"),
		},
		K:              50,
		NeighborCount:  3,
		Source:         models.SourceFallback,
		FallbackReason: "unparseable_response",
		Decision: models.DecisionRecord{
			BestMarket:         models.MarketHomeTeamGoals,
			BestOutcome:        &outcome,
			ExpectedTotalGoals: models.GoalsMedium,
			Confidence:         0.53,
		},
		CreatedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestNewLoggerLevels(t *testing.T) {
	l := NewLogger("debug", "json")
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, l.Formatter)

	l = NewLogger("nonsense", "text")
	assert.Equal(t, logrus.InfoLevel, l.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, l.Formatter)
}

func TestPredictionLoggerPrediction(t *testing.T) {
	log, buf := setupTestLogger()
	pl := NewPredictionLogger(log)

	pl.LogPrediction(samplePrediction(), 120*time.Millisecond)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "prediction", logEntry["component"])
	assert.Equal(t, "1.5/4/6", logEntry["query"])
	assert.Equal(t, "fallback", logEntry["source"])
	assert.Equal(t, "unparseable_response", logEntry["fallback_reason"])
	assert.Equal(t, float64(120), logEntry["duration_ms"])
}

func TestPredictionLoggerAdvisorFailure(t *testing.T) {
	log, buf := setupTestLogger()
	pl := NewPredictionLogger(log)

	pl.LogAdvisorCall("gpt-4.1-mini", false, time.Second, errors.New("status 500"))

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "warning", logEntry["level"])
	assert.Equal(t, "status 500", logEntry["error"])
}

func TestPredictionLoggerDatasetRefresh(t *testing.T) {
	log, buf := setupTestLogger()
	NewPredictionLogger(log).LogDatasetRefresh("file:matches.json", 1200, 2*time.Second)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, float64(1200), logEntry["rows"])
}

func TestAuditLoggerWithoutFileUsesBase(t *testing.T) {
	log, buf := setupTestLogger()
	al, err := NewAuditLogger(log, "")
	require.NoError(t, err)

	al.LogPrediction(samplePrediction())
	require.NoError(t, al.Close())

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "audit", logEntry["component"])
	assert.Equal(t, "1.5", logEntry["home_odds"])
}

func TestAuditLoggerWritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit", "predictions.jsonl")
	log, _ := setupTestLogger()

	al, err := NewAuditLogger(log, path)
	require.NoError(t, err)

	al.LogPrediction(samplePrediction())
	al.LogPrediction(samplePrediction())
	require.NoError(t, al.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "6f1c1c2e-9a55-4b1e-8d0f-1c2d3e4f5a6b", entry["prediction_id"])
	assert.Equal(t, "Home Over 0.5 Goals", entry["best_outcome"])
	assert.Equal(t, 0.53, entry["confidence"])
	assert.Equal(t, "Prediction recorded", entry["msg"])
}
