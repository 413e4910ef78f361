package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNeedsGeocode(t *testing.T) {
	tests := []struct {
		name string
		rec  BusinessRecord
		want bool
	}{
		{"address without coords", BusinessRecord{Address: "1 Elm St"}, true},
		{"already located", BusinessRecord{Address: "1 Elm St", Coords: &Coordinates{Latitude: 1, Longitude: 2}}, false},
		{"no address", BusinessRecord{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rec.NeedsGeocode())
		})
	}
}

func TestScrapeEligible(t *testing.T) {
	site := "https://example.com"
	tests := []struct {
		name string
		rec  BusinessRecord
		want bool
	}{
		{"fresh with website", BusinessRecord{WebsiteURL: site}, true},
		{"no website", BusinessRecord{}, false},
		{"already scraped", BusinessRecord{WebsiteURL: site, ContactInfo: &ContactBundle{}}, false},
		{"prior failure", BusinessRecord{WebsiteURL: site, Scrape: ScrapeState{Status: ScrapeFailed, Message: "boom"}}, false},
		{"prior success without bundle", BusinessRecord{WebsiteURL: site, Scrape: ScrapeState{Status: ScrapeSucceeded}}, false},
		{"in progress", BusinessRecord{WebsiteURL: site, Scrape: ScrapeState{Status: ScrapeInProgress}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rec.ScrapeEligible())
		})
	}
}

func TestBoundsOf(t *testing.T) {
	t.Run("no located records", func(t *testing.T) {
		assert.Nil(t, BoundsOf(nil))
		assert.Nil(t, BoundsOf([]BusinessRecord{{Address: "1 Elm St"}}))
	})

	t.Run("spans all located records", func(t *testing.T) {
		records := []BusinessRecord{
			{Coords: &Coordinates{Latitude: 30.1, Longitude: -97.9}},
			{Address: "unlocated"},
			{Coords: &Coordinates{Latitude: 30.5, Longitude: -97.2}},
		}
		b := BoundsOf(records)
		require.NotNil(t, b)
		assert.Equal(t, -97.9, b.Min(0))
		assert.Equal(t, 30.1, b.Min(1))
		assert.Equal(t, -97.2, b.Max(0))
		assert.Equal(t, 30.5, b.Max(1))
	})

	t.Run("single point collapses to it", func(t *testing.T) {
		b := BoundsOf([]BusinessRecord{{Coords: &Coordinates{Latitude: 30.27, Longitude: -97.74}}})
		require.NotNil(t, b)
		assert.Equal(t, b.Min(0), b.Max(0))
		assert.Equal(t, b.Min(1), b.Max(1))
	})
}
