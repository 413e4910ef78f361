// Package history maintains the bounded, de-duplicated search history log.
package history

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/leadscout/leadscout/internal/model"
)

// MaxEntries bounds the log; the oldest entry is evicted past this point.
const MaxEntries = 20

// Log is an in-memory, newest-first history of completed searches. It is not
// safe for concurrent use; the search orchestrator is its single writer.
type Log struct {
	entries []model.SearchHistoryEntry
}

// FromJSON restores a Log from its persisted form. Corrupt data yields an
// empty log, not an error: losing history must never break startup.
func FromJSON(data []byte) *Log {
	l := &Log{}
	if len(data) == 0 {
		return l
	}
	var entries []model.SearchHistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		zap.L().Warn("history: discarding corrupt stored log", zap.Error(err))
		return l
	}
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}
	l.entries = entries
	return l
}

// FromEntries restores a Log from already-decoded entries, truncating past
// the cap.
func FromEntries(entries []model.SearchHistoryEntry) *Log {
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}
	l := &Log{entries: make([]model.SearchHistoryEntry, len(entries))}
	copy(l.entries, entries)
	return l
}

// Add records a completed search. A rerun of an existing query (exact text
// match) moves that entry to the front instead of duplicating it.
func (l *Log) Add(query string, resultCount int) model.SearchHistoryEntry {
	entry := model.SearchHistoryEntry{
		ID:          uuid.New().String(),
		Query:       query,
		Timestamp:   time.Now().UTC(),
		ResultCount: resultCount,
	}

	kept := make([]model.SearchHistoryEntry, 0, len(l.entries)+1)
	kept = append(kept, entry)
	for _, e := range l.entries {
		if e.Query == query {
			continue
		}
		kept = append(kept, e)
	}
	if len(kept) > MaxEntries {
		kept = kept[:MaxEntries]
	}
	l.entries = kept
	return entry
}

// Entries returns a copy of the log, newest first.
func (l *Log) Entries() []model.SearchHistoryEntry {
	out := make([]model.SearchHistoryEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Clear empties the log. Only an explicit user action calls this.
func (l *Log) Clear() {
	l.entries = nil
}

// JSON returns the persisted form of the log.
func (l *Log) JSON() ([]byte, error) {
	if l.entries == nil {
		return json.Marshal([]model.SearchHistoryEntry{})
	}
	return json.Marshal(l.entries)
}
