// Package backend builds the application's three logical generative calls
// (find businesses, extract contacts, geocode batch) on top of the provider
// client. Prompt construction lives here so the orchestrators deal only in
// domain inputs and raw responses.
package backend

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/leadscout/leadscout/pkg/llm"
)

// Service issues domain requests against the generative provider. Calls are
// one-shot: failures surface to the caller and are never retried here.
type Service struct {
	client llm.Client
}

// New creates a Service over the given provider client.
func New(client llm.Client) *Service {
	return &Service{client: client}
}

const findBusinessesPrompt = `Find real businesses matching this search: %q%s

List every business you find. Format each one exactly like this, separated by a line containing only "---":

**Business Name**
Address: full street address
Type: business category
Phone: phone number if known
Website: website URL if known
Coordinates: latitude, longitude
Rating: average rating (review count)

Omit any line you have no data for. Do not add commentary before or after the list.`

// FindBusinesses returns the backend's delimited markdown listing for a
// free-text query. Location, when non-empty, biases the search.
func (s *Service) FindBusinesses(ctx context.Context, query, location string) (string, error) {
	var loc string
	if location != "" {
		loc = fmt.Sprintf(" near %q", location)
	}

	text, err := s.client.GenerateText(ctx, fmt.Sprintf(findBusinessesPrompt, query, loc))
	if err != nil {
		return "", eris.Wrap(err, "backend: find businesses")
	}

	zap.L().Debug("backend: find businesses response", zap.Int("bytes", len(text)))
	return text, nil
}

const extractContactsPrompt = `Analyze the website %s and extract contact information.

Return a JSON object with exactly these fields:
{
  "emails": ["..."],
  "phones": ["..."],
  "socials": ["..."]
}

"socials" holds profile URLs for Facebook, Instagram, LinkedIn, and X (Twitter) only. Use empty arrays for anything you cannot find.`

// ExtractContacts returns the raw JSON contact payload for a website URL.
func (s *Service) ExtractContacts(ctx context.Context, url string) ([]byte, error) {
	text, err := s.client.GenerateJSON(ctx, fmt.Sprintf(extractContactsPrompt, url))
	if err != nil {
		return nil, eris.Wrap(err, "backend: extract contacts")
	}
	return []byte(text), nil
}

const geocodeBatchPrompt = `Geocode the following addresses. Each line is "id: address".

%s

Return a JSON object keyed by id, each value {"latitude": number, "longitude": number}. Leave out any id you cannot resolve confidently.`

// GeocodeBatch returns the raw JSON mapping for a set of id/address pairs.
// Ids are listed in sorted order so identical batches produce identical
// prompts.
func (s *Service) GeocodeBatch(ctx context.Context, idToAddress map[string]string) ([]byte, error) {
	ids := make([]string, 0, len(idToAddress))
	for id := range idToAddress {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var lines strings.Builder
	for _, id := range ids {
		fmt.Fprintf(&lines, "%s: %s\n", id, idToAddress[id])
	}

	text, err := s.client.GenerateJSON(ctx, fmt.Sprintf(geocodeBatchPrompt, lines.String()))
	if err != nil {
		return nil, eris.Wrap(err, "backend: geocode batch")
	}
	return []byte(text), nil
}
