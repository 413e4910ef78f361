package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/leadscout/leadscout/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite. This is the default
// backend for local CLI use.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS kv (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) GetHistory(ctx context.Context) ([]model.SearchHistoryEntry, error) {
	raw, err := s.get(ctx, keyHistory)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	var entries []model.SearchHistoryEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		zap.L().Warn("sqlite: corrupt stored history, treating as empty", zap.Error(err))
		return nil, nil
	}
	return entries, nil
}

func (s *SQLiteStore) PutHistory(ctx context.Context, entries []model.SearchHistoryEntry) error {
	if entries == nil {
		entries = []model.SearchHistoryEntry{}
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal history")
	}
	return s.put(ctx, keyHistory, raw)
}

func (s *SQLiteStore) SaveResultSet(ctx context.Context, query string, records []model.BusinessRecord) error {
	raw, err := json.Marshal(resultSet{Query: query, Records: records})
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal result set")
	}
	return s.put(ctx, keyLastResults, raw)
}

func (s *SQLiteStore) GetResultSet(ctx context.Context) (string, []model.BusinessRecord, error) {
	raw, err := s.get(ctx, keyLastResults)
	if err != nil {
		return "", nil, err
	}
	if raw == nil {
		return "", nil, nil
	}
	var rs resultSet
	if err := json.Unmarshal(raw, &rs); err != nil {
		zap.L().Warn("sqlite: corrupt stored result set, treating as empty", zap.Error(err))
		return "", nil, nil
	}
	return rs.Query, rs.Records, nil
}

func (s *SQLiteStore) get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get %s", key)
	}
	return []byte(value), nil
}

func (s *SQLiteStore) put(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(value), time.Now().UTC(),
	)
	return eris.Wrapf(err, "sqlite: put %s", key)
}
