// Package geocode resolves record addresses to coordinates in a single
// combined backend request. Geocoding is fail-soft by contract: a batch
// failure yields an empty mapping and never aborts the search flow.
package geocode

import (
	"context"
	"encoding/json"
	"strconv"

	"go.uber.org/zap"

	"github.com/leadscout/leadscout/internal/model"
)

// Backend issues the GeocodeBatch call and returns the raw JSON payload,
// an object keyed by record id.
type Backend interface {
	GeocodeBatch(ctx context.Context, idToAddress map[string]string) ([]byte, error)
}

// Batcher resolves coordinates for records that lack them.
type Batcher struct {
	backend Backend
}

// New creates a Batcher over the given backend.
func New(backend Backend) *Batcher {
	return &Batcher{backend: backend}
}

// Batch issues one combined request for all pending addresses and returns a
// partial mapping from record id to coordinates. An empty request returns an
// empty mapping without calling the backend. Ids absent from the result are
// unresolved, not errors; invalid coordinate pairs are dropped; a whole-batch
// failure logs a warning and returns an empty mapping.
func (b *Batcher) Batch(ctx context.Context, requests []model.GeocodeRequest) map[string]model.Coordinates {
	resolved := make(map[string]model.Coordinates)
	if len(requests) == 0 {
		return resolved
	}

	pairs := make(map[string]string, len(requests))
	for _, req := range requests {
		if req.ID != "" && req.Address != "" {
			pairs[req.ID] = req.Address
		}
	}
	if len(pairs) == 0 {
		return resolved
	}

	raw, err := b.backend.GeocodeBatch(ctx, pairs)
	if err != nil {
		zap.L().Warn("geocode: batch request failed", zap.Int("addresses", len(pairs)), zap.Error(err))
		return resolved
	}

	var payload map[string]struct {
		Latitude  any `json:"latitude"`
		Longitude any `json:"longitude"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		zap.L().Warn("geocode: unparsable batch response", zap.Error(err))
		return resolved
	}

	for id, pair := range payload {
		if _, requested := pairs[id]; !requested {
			continue
		}
		lat, latOK := toFloat(pair.Latitude)
		lng, lngOK := toFloat(pair.Longitude)
		if !latOK || !lngOK {
			continue
		}
		resolved[id] = model.Coordinates{Latitude: lat, Longitude: lng}
	}
	return resolved
}

// toFloat accepts the number representations the backend is known to emit:
// JSON numbers and numeric strings.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
