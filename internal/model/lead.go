package model

import (
	"time"
)

// ScrapeStatus represents the current state of a record's contact scrape.
type ScrapeStatus string

const (
	ScrapeNotStarted ScrapeStatus = "not_started"
	ScrapeInProgress ScrapeStatus = "in_progress"
	ScrapeSucceeded  ScrapeStatus = "succeeded"
	ScrapeFailed     ScrapeStatus = "failed"
)

// ScrapeState is a tagged variant: Message is only meaningful when
// Status is ScrapeFailed.
type ScrapeState struct {
	Status  ScrapeStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// Coordinates is a resolved latitude/longitude pair. A record carries either
// a full pair or none; the pointer on BusinessRecord makes a half-set pair
// unrepresentable.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// BusinessRecord is one discovered lead.
type BusinessRecord struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Address     string         `json:"address"`
	Category    string         `json:"category,omitempty"`
	Phone       string         `json:"phone,omitempty"`
	WebsiteURL  string         `json:"website_url,omitempty"`
	Rating      *float64       `json:"rating,omitempty"`
	ReviewCount *int           `json:"review_count,omitempty"`
	Coords      *Coordinates   `json:"coords,omitempty"`
	ContactInfo *ContactBundle `json:"contact_info,omitempty"`
	Scrape      ScrapeState    `json:"scrape"`
}

// HasCoordinates reports whether the record has a resolved location.
func (r *BusinessRecord) HasCoordinates() bool {
	return r.Coords != nil
}

// NeedsGeocode reports whether the record should be included in a geocoding
// batch: it has an address to resolve but no coordinates yet.
func (r *BusinessRecord) NeedsGeocode() bool {
	return r.Address != "" && r.Coords == nil
}

// ScrapeEligible reports whether a bulk scrape pass should visit this record.
// Records without a website, already-scraped records, and records that
// previously failed are skipped, which makes a bulk rerun idempotent.
func (r *BusinessRecord) ScrapeEligible() bool {
	if r.WebsiteURL == "" || r.ContactInfo != nil {
		return false
	}
	return r.Scrape.Status != ScrapeFailed && r.Scrape.Status != ScrapeSucceeded
}

// ContactBundle holds scraped contact details. Each slice is de-duplicated
// by the extractor; order is not significant.
type ContactBundle struct {
	Emails      []string `json:"emails"`
	Phones      []string `json:"phones"`
	SocialLinks []string `json:"social_links"`
}

// SearchHistoryEntry records one completed search.
type SearchHistoryEntry struct {
	ID          string    `json:"id"`
	Query       string    `json:"query"`
	Timestamp   time.Time `json:"timestamp"`
	ResultCount int       `json:"result_count"`
}

// GeocodeRequest asks the backend to resolve one record's address. The
// result mapping is keyed by ID and is necessarily partial: a missing key
// means "could not resolve", not an error.
type GeocodeRequest struct {
	ID      string `json:"id"`
	Address string `json:"address"`
}
