package dataset

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/odds-oracle/internal/config"
	"github.com/yourusername/odds-oracle/internal/httpclient"
	"github.com/yourusername/odds-oracle/internal/models"
)

func testHTTPClient() *httpclient.Client {
	cfg := httpclient.DefaultConfig()
	cfg.MaxRetries = 0
	cfg.RateLimit = 1000
	return httpclient.New(cfg, nil)
}

func TestURLSourceLoadsJSON(t *testing.T) {
	body, err := os.ReadFile("testdata/matches.json")
	require.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}))
	defer server.Close()

	src := NewURLSource(testHTTPClient(), server.URL+"/SourceBook.json", nil)
	matches, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, matches, 3)
	assert.Equal(t, "url:"+server.URL+"/SourceBook.json", src.Name())
}

func TestURLSourceLoadsCSVByContentType(t *testing.T) {
	body, err := os.ReadFile("testdata/matches.csv")
	require.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		_, _ = w.Write(body)
	}))
	defer server.Close()

	matches, err := NewURLSource(testHTTPClient(), server.URL+"/export", nil).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}

func TestURLSourceErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		code   string
	}{
		{"not found", http.StatusNotFound, "", ErrCodeNotFound},
		{"server error", http.StatusBadGateway, "", ErrCodeServer},
		{"bad payload", http.StatusOK, `{"rows": 3}`, ErrCodeInvalidData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := NewURLSource(testHTTPClient(), server.URL, nil).Load(context.Background())
			var srcErr SourceError
			require.True(t, errors.As(err, &srcErr), "expected SourceError, got %v", err)
			assert.Equal(t, tt.code, srcErr.Code)
		})
	}
}

func TestFileSource(t *testing.T) {
	matches, err := NewFileSource("testdata/matches.csv").Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, matches, 2)

	_, err = NewFileSource("testdata/absent.json").Load(context.Background())
	var srcErr SourceError
	require.True(t, errors.As(err, &srcErr))
	assert.Equal(t, ErrCodeNotFound, srcErr.Code)
}

func TestFileSourceInvalidDataWrapsInvalidInput(t *testing.T) {
	path := t.TempDir() + "/bad.json"
	require.NoError(t, os.WriteFile(path, []byte(`[{"home_odds":1}]`), 0o600))

	_, err := NewFileSource(path).Load(context.Background())
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

type fakeLister struct {
	matches []models.HistoricalMatch
	err     error
	limit   int
}

func (f *fakeLister) List(ctx context.Context, limit int) ([]models.HistoricalMatch, error) {
	f.limit = limit
	return f.matches, f.err
}

func TestPostgresSource(t *testing.T) {
	lister := &fakeLister{matches: make([]models.HistoricalMatch, 4)}
	matches, err := NewPostgresSource(lister).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, matches, 4)
	assert.Equal(t, 0, lister.limit)

	lister.err = errors.New("connection refused")
	_, err = NewPostgresSource(lister).Load(context.Background())
	assert.Error(t, err)
}

func TestNewSource(t *testing.T) {
	src, err := NewSource(config.DatasetConfig{Source: "file", Location: "testdata/matches.json"}, nil, nil)
	require.NoError(t, err)
	assert.IsType(t, &FileSource{}, src)

	src, err = NewSource(config.DatasetConfig{Source: "url", Location: "https://example.com/a.json", TimeoutSeconds: 5}, nil, nil)
	require.NoError(t, err)
	assert.IsType(t, &URLSource{}, src)

	_, err = NewSource(config.DatasetConfig{Source: "postgres"}, nil, nil)
	assert.Error(t, err)

	_, err = NewSource(config.DatasetConfig{Source: "s3", Location: "x"}, nil, nil)
	assert.Error(t, err)
}

func TestFromLocation(t *testing.T) {
	assert.IsType(t, &URLSource{}, FromLocation("https://example.com/data.json", nil))
	assert.IsType(t, &FileSource{}, FromLocation("data/matches.csv", nil))
}

type flakySource struct {
	calls int
}

func (f *flakySource) Name() string { return "flaky" }

func (f *flakySource) Load(ctx context.Context) ([]models.HistoricalMatch, error) {
	f.calls++
	if f.calls > 1 {
		return nil, errors.New("upstream down")
	}
	return make([]models.HistoricalMatch, 5), nil
}

func TestStoreRefresh(t *testing.T) {
	store := NewStore(&flakySource{}, nil)

	_, err := store.Table()
	assert.ErrorIs(t, err, ErrNotLoaded)
	assert.False(t, store.Info().Loaded)

	table, err := store.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, table.Len())

	info := store.Info()
	assert.True(t, info.Loaded)
	assert.Equal(t, 5, info.Rows)
	assert.Equal(t, "flaky", info.Source)
	assert.WithinDuration(t, time.Now(), info.LoadedAt, time.Minute)

	// a failed refresh keeps the previous snapshot
	_, err = store.Refresh(context.Background())
	assert.Error(t, err)
	matches, err := store.Matches()
	require.NoError(t, err)
	assert.Len(t, matches, 5)
}

func TestStoreConcurrentReaders(t *testing.T) {
	store := NewStore(NewStaticSource("static", make([]models.HistoricalMatch, 3)), nil)
	_, err := store.Refresh(context.Background())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = store.Refresh(context.Background())
		}()
		go func() {
			defer wg.Done()
			matches, err := store.Matches()
			assert.NoError(t, err)
			assert.Len(t, matches, 3)
		}()
	}
	wg.Wait()
}
