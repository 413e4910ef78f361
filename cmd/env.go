package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/leadscout/leadscout/internal/backend"
	"github.com/leadscout/leadscout/internal/contact"
	"github.com/leadscout/leadscout/internal/geocode"
	"github.com/leadscout/leadscout/internal/history"
	"github.com/leadscout/leadscout/internal/scrape"
	"github.com/leadscout/leadscout/internal/search"
	"github.com/leadscout/leadscout/internal/store"
	"github.com/leadscout/leadscout/pkg/llm"
)

// appEnv holds the initialized store, backend, and orchestrators shared by
// the search/scrape/export/serve commands.
type appEnv struct {
	Store   store.Store
	Backend *backend.Service
	Search  *search.Orchestrator
	Scraper *scrape.Orchestrator
	llmConn llm.Client
}

// Close releases resources held by the environment.
func (e *appEnv) Close() {
	if e.llmConn != nil {
		_ = e.llmConn.Close()
	}
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

// initStore opens the configured persistence driver and runs migrations.
func initStore(ctx context.Context) (store.Store, error) {
	var (
		st  store.Store
		err error
	)
	switch cfg.Store.Driver {
	case "postgres":
		st, err = store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	case "sqlite", "":
		st, err = store.NewSQLite(cfg.Store.Path)
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
	if err != nil {
		return nil, eris.Wrap(err, "open store")
	}

	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}

// initLLM builds the generative client for the configured provider.
func initLLM(ctx context.Context) (llm.Client, error) {
	llmCfg := llm.Config{Provider: llm.Provider(cfg.Backend.Provider)}
	switch llmCfg.Provider {
	case llm.ProviderAnthropic:
		llmCfg.APIKey = cfg.Anthropic.Key
		llmCfg.Model = cfg.Anthropic.Model
	default:
		llmCfg.APIKey = cfg.Gemini.Key
		llmCfg.Model = cfg.Gemini.Model
	}
	client, err := llm.New(ctx, llmCfg)
	if err != nil {
		return nil, eris.Wrap(err, "init llm client")
	}
	return client, nil
}

// initEnv sets up the store, the generative backend, and both orchestrators,
// then restores the last persisted result set so scrape and export can run
// against it in a fresh process. Callers should defer env.Close().
func initEnv(ctx context.Context) (*appEnv, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}

	client, err := initLLM(ctx)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	svc := backend.New(client)

	entries, err := st.GetHistory(ctx)
	if err != nil {
		zap.L().Warn("load history failed, starting empty", zap.Error(err))
		entries = nil
	}

	orch := search.New(svc, geocode.New(svc), history.FromEntries(entries),
		search.WithLocation(cfg.Search.Location),
		search.WithPageSize(cfg.Search.PageSize),
		search.WithPersister(st),
	)

	query, records, err := st.GetResultSet(ctx)
	if err != nil {
		zap.L().Warn("load last result set failed", zap.Error(err))
	} else if len(records) > 0 {
		orch.Restore(query, records)
		zap.L().Debug("restored last result set",
			zap.String("query", query),
			zap.Int("records", len(records)),
		)
	}

	env := &appEnv{
		Store:   st,
		Backend: svc,
		Search:  orch,
		Scraper: scrape.New(contact.New(svc), orch),
		llmConn: client,
	}
	return env, nil
}

// saveResults persists the orchestrator's current result set. Failures are
// logged, not fatal: a broken store must not discard in-memory work.
func saveResults(ctx context.Context, env *appEnv) {
	if err := env.Store.SaveResultSet(ctx, env.Search.Query(), env.Search.Results()); err != nil {
		zap.L().Warn("persist results failed", zap.Error(err))
	}
}
