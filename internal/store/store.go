// Package store persists search history and the most recent result set.
// Both are stored as whole JSON values under fixed keys: reads happen once
// at startup and every update rewrites the full value.
package store

import (
	"context"

	"github.com/leadscout/leadscout/internal/model"
)

// Fixed keys for the key-value table.
const (
	keyHistory     = "search_history"
	keyLastResults = "last_results"
)

// Store is the persistence interface. Corrupt stored data is returned as an
// empty value, never as an error.
type Store interface {
	// GetHistory loads the persisted history log, newest first.
	GetHistory(ctx context.Context) ([]model.SearchHistoryEntry, error)
	// PutHistory rewrites the full history log.
	PutHistory(ctx context.Context, entries []model.SearchHistoryEntry) error

	// SaveResultSet rewrites the last search's query and records.
	SaveResultSet(ctx context.Context, query string, records []model.BusinessRecord) error
	// GetResultSet loads the last saved result set. A missing or corrupt
	// value yields an empty query and nil records.
	GetResultSet(ctx context.Context) (string, []model.BusinessRecord, error)

	// Migrate creates the schema.
	Migrate(ctx context.Context) error
	Close() error
}

// resultSet is the stored form of the last search.
type resultSet struct {
	Query   string                 `json:"query"`
	Records []model.BusinessRecord `json:"records"`
}
