package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/leadscout/leadscout/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses; pgxmock satisfies it in
// tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresStore implements Store using a pgx connection pool, for server
// deployments where several instances share one history.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	cfg.MaxConns = 5
	cfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: connect")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS kv (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) GetHistory(ctx context.Context) ([]model.SearchHistoryEntry, error) {
	raw, err := s.get(ctx, keyHistory)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	var entries []model.SearchHistoryEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		zap.L().Warn("postgres: corrupt stored history, treating as empty", zap.Error(err))
		return nil, nil
	}
	return entries, nil
}

func (s *PostgresStore) PutHistory(ctx context.Context, entries []model.SearchHistoryEntry) error {
	if entries == nil {
		entries = []model.SearchHistoryEntry{}
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal history")
	}
	return s.put(ctx, keyHistory, raw)
}

func (s *PostgresStore) SaveResultSet(ctx context.Context, query string, records []model.BusinessRecord) error {
	raw, err := json.Marshal(resultSet{Query: query, Records: records})
	if err != nil {
		return eris.Wrap(err, "postgres: marshal result set")
	}
	return s.put(ctx, keyLastResults, raw)
}

func (s *PostgresStore) GetResultSet(ctx context.Context) (string, []model.BusinessRecord, error) {
	raw, err := s.get(ctx, keyLastResults)
	if err != nil {
		return "", nil, err
	}
	if raw == nil {
		return "", nil, nil
	}
	var rs resultSet
	if err := json.Unmarshal(raw, &rs); err != nil {
		zap.L().Warn("postgres: corrupt stored result set, treating as empty", zap.Error(err))
		return "", nil, nil
	}
	return rs.Query, rs.Records, nil
}

func (s *PostgresStore) get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := s.pool.QueryRow(ctx, `SELECT value FROM kv WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get %s", key)
	}
	return []byte(value), nil
}

func (s *PostgresStore) put(ctx context.Context, key string, value []byte) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES ($1, $2, $3)
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		key, string(value), time.Now().UTC(),
	)
	return eris.Wrapf(err, "postgres: put %s", key)
}
