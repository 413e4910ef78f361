// Package search coordinates one search lifecycle: backend listing, lenient
// parsing, geocode reconciliation, history, and UI state. The orchestrator
// is the single owner of the current result set; every mutation goes through
// it keyed by record id, so completion handlers never race.
package search

import (
	"context"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"

	"github.com/leadscout/leadscout/internal/geocode"
	"github.com/leadscout/leadscout/internal/history"
	"github.com/leadscout/leadscout/internal/leadparse"
	"github.com/leadscout/leadscout/internal/model"
)

// State names the orchestrator's position in the search lifecycle.
type State string

const (
	StateIdle        State = "idle"
	StateSearching   State = "searching"
	StateReconciling State = "reconciling"
)

// DefaultPageSize is the pagination window applied at the start of every
// search.
const DefaultPageSize = 20

// QueryPlaceholder is the input placeholder the UI shows for an empty field.
// A submitted query equal to it is treated the same as an empty query.
const QueryPlaceholder = "e.g. coffee shops in Austin"

// ErrEmptyQuery is returned for an empty or placeholder query; no state is
// touched and no backend call is made.
var ErrEmptyQuery = eris.New("search: query is empty")

// Finder issues the business-listing backend call.
type Finder interface {
	FindBusinesses(ctx context.Context, query, location string) (string, error)
}

// Geocoder resolves coordinates for records that lack them. Implementations
// are fail-soft: an empty mapping, never an error.
type Geocoder interface {
	Batch(ctx context.Context, requests []model.GeocodeRequest) map[string]model.Coordinates
}

// Persister saves history and the latest result set across invocations.
type Persister interface {
	PutHistory(ctx context.Context, entries []model.SearchHistoryEntry) error
	SaveResultSet(ctx context.Context, query string, records []model.BusinessRecord) error
}

// Option configures the orchestrator.
type Option func(*Orchestrator)

// WithLocation biases every search toward a location.
func WithLocation(location string) Option {
	return func(o *Orchestrator) { o.location = location }
}

// WithPageSize overrides the pagination window size.
func WithPageSize(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.pageSize = n
		}
	}
}

// WithPersister enables history and result-set persistence. Persistence
// failures are logged, never surfaced: a broken store must not break search.
func WithPersister(p Persister) Option {
	return func(o *Orchestrator) { o.persist = p }
}

// Orchestrator drives the Idle -> Searching -> Reconciling -> Idle state
// machine and owns the current result set for the lifetime of one search.
type Orchestrator struct {
	finder   Finder
	geocoder Geocoder
	hist     *history.Log
	persist  Persister
	location string
	pageSize int

	mu         sync.Mutex
	state      State
	query      string
	results    []model.BusinessRecord
	selectedID string
	visible    int
	lastErr    string
}

// New creates an Orchestrator. hist may be pre-loaded from the store.
func New(finder Finder, geocoder Geocoder, hist *history.Log, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		finder:   finder,
		geocoder: geocoder,
		hist:     hist,
		pageSize: DefaultPageSize,
		state:    StateIdle,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Search runs one full search lifecycle for query and returns the merged
// result set. A backend failure clears the results and surfaces an error; a
// geocoding failure only leaves records without coordinates. The listing and
// geocoding calls are strictly sequential: geocoding must see the final
// parsed id set.
func (o *Orchestrator) Search(ctx context.Context, query string) ([]model.BusinessRecord, error) {
	q := strings.TrimSpace(query)
	if q == "" || q == QueryPlaceholder {
		return nil, ErrEmptyQuery
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	log := zap.L().With(zap.String("query", q))

	o.state = StateSearching
	o.query = q
	o.results = nil
	o.selectedID = ""
	o.visible = o.pageSize
	o.lastErr = ""

	raw, err := o.finder.FindBusinesses(ctx, q, o.location)
	if err != nil {
		o.state = StateIdle
		o.lastErr = "Search failed. Please try again."
		log.Error("search: backend listing failed", zap.Error(err))
		return nil, eris.Wrap(err, "search: find businesses")
	}

	records := leadparse.Parse(raw)
	// History reports the parsed count; geocoding outcomes don't change it.
	parsedCount := len(records)
	log.Info("search: parsed listing", zap.Int("records", parsedCount))

	o.state = StateReconciling
	var pending []model.GeocodeRequest
	for i := range records {
		if records[i].NeedsGeocode() {
			pending = append(pending, model.GeocodeRequest{ID: records[i].ID, Address: records[i].Address})
		}
	}
	if len(pending) > 0 {
		resolved := o.geocoder.Batch(ctx, pending)
		for i := range records {
			if c, ok := resolved[records[i].ID]; ok {
				coords := c
				records[i].Coords = &coords
			}
		}
		log.Info("search: geocode reconciliation",
			zap.Int("requested", len(pending)),
			zap.Int("resolved", len(resolved)),
		)
	}

	o.results = records
	entry := o.hist.Add(q, parsedCount)
	o.persistState(ctx, q, records, entry)
	o.state = StateIdle

	return copyRecords(records), nil
}

func (o *Orchestrator) persistState(ctx context.Context, query string, records []model.BusinessRecord, entry model.SearchHistoryEntry) {
	if o.persist == nil {
		return
	}
	if err := o.persist.PutHistory(ctx, o.hist.Entries()); err != nil {
		zap.L().Warn("search: persist history failed", zap.String("entry", entry.ID), zap.Error(err))
	}
	if err := o.persist.SaveResultSet(ctx, query, records); err != nil {
		zap.L().Warn("search: persist results failed", zap.Error(err))
	}
}

// Restore seeds the orchestrator with a previously persisted result set so
// scrape and export can operate across process invocations.
func (o *Orchestrator) Restore(query string, records []model.BusinessRecord) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.query = query
	o.results = copyRecords(records)
	o.visible = o.pageSize
	o.selectedID = ""
	o.lastErr = ""
}

// Select marks a record selected by id and reports whether it exists. When
// the record sits past the visible pagination window, the window expands to
// include it.
func (o *Orchestrator) Select(id string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i := range o.results {
		if o.results[i].ID == id {
			o.selectedID = id
			if i >= o.visible {
				o.visible = i + 1
			}
			return true
		}
	}
	return false
}

// Update applies fn to the record with the given id under the orchestrator's
// lock and reports whether the record exists. This is the only mutation path
// the scrape orchestrator uses; it never creates or removes records.
func (o *Orchestrator) Update(id string, fn func(*model.BusinessRecord)) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i := range o.results {
		if o.results[i].ID == id {
			fn(&o.results[i])
			return true
		}
	}
	return false
}

// Results returns a copy of the full current result set.
func (o *Orchestrator) Results() []model.BusinessRecord {
	o.mu.Lock()
	defer o.mu.Unlock()
	return copyRecords(o.results)
}

// VisibleRecords returns the records within the current pagination window.
func (o *Orchestrator) VisibleRecords() []model.BusinessRecord {
	o.mu.Lock()
	defer o.mu.Unlock()
	n := o.visible
	if n > len(o.results) {
		n = len(o.results)
	}
	return copyRecords(o.results[:n])
}

// ShowMore widens the pagination window by one page.
func (o *Orchestrator) ShowMore() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.visible += o.pageSize
}

// Selected returns the currently selected record id, if any.
func (o *Orchestrator) Selected() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.selectedID
}

// State returns the orchestrator's current lifecycle state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Err returns the user-visible message from the last failed search, or "".
func (o *Orchestrator) Err() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastErr
}

// Query returns the query that produced the current result set.
func (o *Orchestrator) Query() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.query
}

// History returns the search history log, newest first.
func (o *Orchestrator) History() []model.SearchHistoryEntry {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.hist.Entries()
}

// ClearHistory empties the history log and its persisted copy.
func (o *Orchestrator) ClearHistory(ctx context.Context) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.hist.Clear()
	if o.persist != nil {
		if err := o.persist.PutHistory(ctx, nil); err != nil {
			zap.L().Warn("search: clear persisted history failed", zap.Error(err))
		}
	}
}

// Bounds returns the bounding box of all located records for the map
// viewport, or nil when nothing is located.
func (o *Orchestrator) Bounds() *geom.Bounds {
	o.mu.Lock()
	defer o.mu.Unlock()
	return model.BoundsOf(o.results)
}

func copyRecords(records []model.BusinessRecord) []model.BusinessRecord {
	out := make([]model.BusinessRecord, len(records))
	copy(out, records)
	return out
}

// compile-time check: the geocode batcher satisfies Geocoder.
var _ Geocoder = (*geocode.Batcher)(nil)
