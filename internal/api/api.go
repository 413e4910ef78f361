// Package api exposes search, scrape, and export over HTTP for local
// frontends. Handlers delegate to the same orchestrators the CLI uses; the
// orchestrator lock makes concurrent requests safe.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/leadscout/leadscout/internal/export"
	"github.com/leadscout/leadscout/internal/scrape"
	"github.com/leadscout/leadscout/internal/search"
)

// Server bundles the orchestrators behind an HTTP handler.
type Server struct {
	search  *search.Orchestrator
	scraper *scrape.Orchestrator
	limiter *rate.Limiter
}

// New creates a Server. ratePerSecond bounds the whole API; zero disables
// limiting.
func New(searchOrch *search.Orchestrator, scraper *scrape.Orchestrator, ratePerSecond float64) *Server {
	s := &Server{search: searchOrch, scraper: scraper}
	if ratePerSecond > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(ratePerSecond), max(int(ratePerSecond), 1))
	}
	return s
}

// Handler builds the chi router with CORS and rate limiting applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))
	r.Use(s.throttle)

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/search", s.handleSearch)
		r.Get("/results", s.handleResults)
		r.Post("/results/show-more", s.handleShowMore)
		r.Post("/results/{id}/select", s.handleSelect)
		r.Post("/scrape", s.handleScrapeAll)
		r.Post("/scrape/{id}", s.handleScrapeOne)
		r.Get("/history", s.handleHistory)
		r.Delete("/history", s.handleClearHistory)
		r.Get("/bounds", s.handleBounds)
		r.Get("/export.csv", s.handleExportCSV)
		r.Get("/export.xlsx", s.handleExportXLSX)
	})

	return r
}

// throttle rejects requests past the configured rate with 429.
func (s *Server) throttle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.Allow() {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	records, err := s.search.Search(r.Context(), req.Query)
	if err != nil {
		if eris.Is(err, search.ErrEmptyQuery) {
			writeError(w, http.StatusBadRequest, "query is required")
			return
		}
		zap.L().Error("api: search failed", zap.String("query", req.Query), zap.Error(err))
		writeError(w, http.StatusBadGateway, s.search.Err())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"query":   req.Query,
		"records": records,
	})
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"query":   s.search.Query(),
		"state":   s.search.State(),
		"records": s.search.VisibleRecords(),
		"total":   len(s.search.Results()),
	})
}

func (s *Server) handleShowMore(w http.ResponseWriter, r *http.Request) {
	s.search.ShowMore()
	s.handleResults(w, r)
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.search.Select(id) {
		writeError(w, http.StatusNotFound, "no such record")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"selected": id})
}

func (s *Server) handleScrapeAll(w http.ResponseWriter, r *http.Request) {
	summary := s.scraper.All(r.Context())
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleScrapeOne(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.scraper.One(r.Context(), id); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"scraped": id})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.search.History())
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	s.search.ClearHistory(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleBounds(w http.ResponseWriter, r *http.Request) {
	bounds := s.search.Bounds()
	if bounds == nil {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{
		"min_longitude": bounds.Min(0),
		"min_latitude":  bounds.Min(1),
		"max_longitude": bounds.Max(0),
		"max_latitude":  bounds.Max(1),
	})
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	records := s.search.Results()
	if len(records) == 0 {
		writeError(w, http.StatusNotFound, "nothing to export")
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.DefaultFilename+`"`)
	if err := export.EncodeCSV(w, records); err != nil {
		zap.L().Error("api: csv export failed", zap.Error(err))
	}
}

func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	records := s.search.Results()
	if len(records) == 0 {
		writeError(w, http.StatusNotFound, "nothing to export")
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="leads.xlsx"`)
	if err := export.EncodeXLSX(w, records); err != nil {
		zap.L().Error("api: xlsx export failed", zap.Error(err))
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
