package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/odds-oracle/internal/dataset"
	"github.com/yourusername/odds-oracle/internal/models"
)

type fakeMatchRepo struct {
	rows      []models.HistoricalMatch
	batches   int
	deleted   bool
	failAfter int
}

func (r *fakeMatchRepo) List(_ context.Context, limit int) ([]models.HistoricalMatch, error) {
	if limit > 0 && limit < len(r.rows) {
		return r.rows[:limit], nil
	}
	return r.rows, nil
}

func (r *fakeMatchRepo) InsertBatch(_ context.Context, matches []models.HistoricalMatch) error {
	if r.failAfter > 0 && r.batches == r.failAfter {
		return errors.New("insert failed")
	}
	r.batches++
	r.rows = append(r.rows, matches...)
	return nil
}

func (r *fakeMatchRepo) Count(context.Context) (int64, error) {
	return int64(len(r.rows)), nil
}

func (r *fakeMatchRepo) DeleteAll(context.Context) error {
	r.deleted = true
	r.rows = nil
	return nil
}

func TestImportInBatches(t *testing.T) {
	repo := &fakeMatchRepo{rows: []models.HistoricalMatch{row("9.00", "9.00", "9.00", 0, 0)}}
	svc := NewImportService(repo, quietLogger(), 3)

	source := dataset.NewStaticSource("static", append(sampleTable(), sampleTable()...))
	m, err := svc.Import(context.Background(), source, true)
	require.NoError(t, err)

	assert.True(t, repo.deleted)
	assert.Equal(t, 8, m.TotalRows)
	assert.Equal(t, 8, m.InsertedRows)
	assert.Equal(t, 3, m.Batches)
	assert.Zero(t, m.Errors)
	require.Len(t, repo.rows, 8)
	assert.Equal(t, 3, repo.rows[3].HomeScore)
	assert.Contains(t, m.String(), "Source=static")
}

func TestImportAppends(t *testing.T) {
	repo := &fakeMatchRepo{rows: []models.HistoricalMatch{row("9.00", "9.00", "9.00", 0, 0)}}
	svc := NewImportService(repo, quietLogger(), 0)

	_, err := svc.Import(context.Background(), dataset.NewStaticSource("static", sampleTable()), false)
	require.NoError(t, err)

	assert.False(t, repo.deleted)
	assert.Len(t, repo.rows, 5)
}

func TestImportStopsOnInsertError(t *testing.T) {
	repo := &fakeMatchRepo{failAfter: 1}
	svc := NewImportService(repo, quietLogger(), 2)

	m, err := svc.Import(context.Background(), dataset.NewStaticSource("static", sampleTable()), false)
	require.Error(t, err)

	assert.Equal(t, 2, m.InsertedRows)
	assert.Equal(t, 1, m.Errors)
	assert.Len(t, repo.rows, 2)
}

func TestImportLoadError(t *testing.T) {
	svc := NewImportService(&fakeMatchRepo{}, quietLogger(), 10)

	m, err := svc.Import(context.Background(), &flakySource{fail: true}, false)
	require.Error(t, err)
	assert.Equal(t, 1, m.Errors)
}
