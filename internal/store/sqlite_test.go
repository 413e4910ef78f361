package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadscout/leadscout/internal/model"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "leadscout.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestSQLite_HistoryRoundTrip(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	entries, err := s.GetHistory(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)

	want := []model.SearchHistoryEntry{
		{ID: "h1", Query: "coffee", Timestamp: time.Now().UTC().Truncate(time.Second), ResultCount: 4},
		{ID: "h2", Query: "plumbers", Timestamp: time.Now().UTC().Truncate(time.Second), ResultCount: 2},
	}
	require.NoError(t, s.PutHistory(ctx, want))

	got, err := s.GetHistory(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "coffee", got[0].Query)
	assert.Equal(t, 2, got[1].ResultCount)
}

func TestSQLite_PutHistoryRewritesWholeValue(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.PutHistory(ctx, []model.SearchHistoryEntry{{ID: "a", Query: "one"}}))
	require.NoError(t, s.PutHistory(ctx, []model.SearchHistoryEntry{{ID: "b", Query: "two"}}))

	got, err := s.GetHistory(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "two", got[0].Query)
}

func TestSQLite_CorruptHistoryTreatedAsEmpty(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.put(ctx, keyHistory, []byte(`{definitely not json`)))

	got, err := s.GetHistory(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSQLite_ClearHistoryViaEmptyPut(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.PutHistory(ctx, []model.SearchHistoryEntry{{ID: "a", Query: "one"}}))
	require.NoError(t, s.PutHistory(ctx, nil))

	got, err := s.GetHistory(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSQLite_ResultSetRoundTrip(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	lat := model.Coordinates{Latitude: 30.0, Longitude: -97.0}
	records := []model.BusinessRecord{
		{ID: "r1", Name: "Acme", Address: "1 Main St", Coords: &lat},
		{ID: "r2", Name: "Beta", Address: "2 Oak Ave", Scrape: model.ScrapeState{Status: model.ScrapeFailed, Message: "blocked"}},
	}
	require.NoError(t, s.SaveResultSet(ctx, "plumbers", records))

	query, got, err := s.GetResultSet(ctx)
	require.NoError(t, err)
	assert.Equal(t, "plumbers", query)
	require.Len(t, got, 2)
	require.NotNil(t, got[0].Coords)
	assert.InDelta(t, -97.0, got[0].Coords.Longitude, 1e-9)
	assert.Equal(t, model.ScrapeFailed, got[1].Scrape.Status)
}

func TestSQLite_MissingResultSet(t *testing.T) {
	s := newTestSQLite(t)

	query, records, err := s.GetResultSet(context.Background())
	require.NoError(t, err)
	assert.Empty(t, query)
	assert.Nil(t, records)
}
