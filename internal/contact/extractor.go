// Package contact extracts contact details for a business website through
// the generative backend.
package contact

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/xeipuuv/gojsonschema"
	"golang.org/x/text/cases"

	"github.com/leadscout/leadscout/internal/model"
)

// ErrInvalidURL is returned before any backend call when the website URL is
// empty or not an HTTP(S) URL.
var ErrInvalidURL = eris.New("contact: url must begin with http:// or https://")

// Backend issues the ExtractContacts call and returns the raw JSON payload.
type Backend interface {
	ExtractContacts(ctx context.Context, url string) ([]byte, error)
}

// bundleSchema validates the shape of the backend's response. None of the
// arrays are required: a missing field defaults to empty rather than failing.
const bundleSchema = `{
	"type": "object",
	"properties": {
		"emails":  {"type": "array", "items": {"type": "string"}},
		"phones":  {"type": "array", "items": {"type": "string"}},
		"socials": {"type": "array", "items": {"type": "string"}}
	}
}`

var schema = gojsonschema.NewStringLoader(bundleSchema)

// Extractor validates website URLs and turns backend responses into
// de-duplicated contact bundles.
type Extractor struct {
	backend Backend
}

// New creates an Extractor over the given backend.
func New(backend Backend) *Extractor {
	return &Extractor{backend: backend}
}

// Extract requests contact details for url. It fails with ErrInvalidURL for
// malformed input, and with an extraction error carrying the URL when the
// backend call fails or returns JSON that does not match the schema. Neither
// failure is retried here; retry is a user action.
func (e *Extractor) Extract(ctx context.Context, url string) (model.ContactBundle, error) {
	if !validURL(url) {
		return model.ContactBundle{}, ErrInvalidURL
	}

	raw, err := e.backend.ExtractContacts(ctx, url)
	if err != nil {
		return model.ContactBundle{}, eris.Wrapf(err, "contact: extraction failed for %s", url)
	}

	bundle, err := decodeBundle(raw)
	if err != nil {
		return model.ContactBundle{}, eris.Wrapf(err, "contact: extraction failed for %s", url)
	}
	return bundle, nil
}

func validURL(url string) bool {
	lower := strings.ToLower(strings.TrimSpace(url))
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func decodeBundle(raw []byte) (model.ContactBundle, error) {
	result, err := gojsonschema.Validate(schema, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return model.ContactBundle{}, eris.Wrap(err, "validate response")
	}
	if !result.Valid() {
		return model.ContactBundle{}, eris.Errorf("response does not match schema: %v", result.Errors())
	}

	var payload struct {
		Emails  []string `json:"emails"`
		Phones  []string `json:"phones"`
		Socials []string `json:"socials"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return model.ContactBundle{}, eris.Wrap(err, "unmarshal response")
	}

	return model.ContactBundle{
		Emails:      dedupeFolded(payload.Emails),
		Phones:      dedupe(payload.Phones),
		SocialLinks: dedupe(payload.Socials),
	}, nil
}

// dedupe removes duplicates and blank entries, preserving first-seen order.
func dedupe(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// dedupeFolded de-duplicates case-insensitively, keeping the first-seen
// casing. Email addresses from scraped pages arrive in mixed case.
func dedupeFolded(values []string) []string {
	folder := cases.Fold()
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		key := folder.String(v)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out
}
