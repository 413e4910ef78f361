package leadparse

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_SingleRecord(t *testing.T) {
	md := "**Acme Plumbing**\n- Address: 1 Main St, Springfield\n- Phone: 555-1111\n---"

	records := Parse(md)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "Acme Plumbing", rec.Name)
	assert.Equal(t, "1 Main St, Springfield", rec.Address)
	assert.Equal(t, "555-1111", rec.Phone)
	assert.Nil(t, rec.Coords)
	assert.NotEmpty(t, rec.ID)
}

func TestParse_MultipleSegments(t *testing.T) {
	md := strings.Join([]string{
		"**First Cafe**",
		"Address: 10 Oak Ave",
		"Type: Cafe",
		"---",
		"**Second Cafe**",
		"Address: 20 Elm St",
		"Category: Coffee Shop",
		"Website: https://second.example.com",
		"---",
	}, "\n")

	records := Parse(md)
	require.Len(t, records, 2)
	assert.Equal(t, "First Cafe", records[0].Name)
	assert.Equal(t, "Cafe", records[0].Category)
	assert.Equal(t, "Coffee Shop", records[1].Category)
	assert.Equal(t, "https://second.example.com", records[1].WebsiteURL)
}

func TestParse_UniqueIDs(t *testing.T) {
	md := "**A**\nAddress: 1 St\n---\n**B**\nAddress: 2 St\n---\n**C**\nAddress: 3 St"

	records := Parse(md)
	require.Len(t, records, 3)

	seen := map[string]bool{}
	for _, r := range records {
		assert.False(t, seen[r.ID], "duplicate id %s", r.ID)
		seen[r.ID] = true
	}
}

func TestParse_MissingAddressDropsSegment(t *testing.T) {
	md := "**No Address Inc**\nPhone: 555-0000\n---\n**Kept Co**\nAddress: 5 Pine Rd"

	records := Parse(md)
	require.Len(t, records, 1)
	assert.Equal(t, "Kept Co", records[0].Name)
}

func TestParse_EmptyAndWhitespaceInput(t *testing.T) {
	assert.Empty(t, Parse(""))
	assert.Empty(t, Parse("   \n\n  "))
	assert.Empty(t, Parse("---\n---\n---"))
}

func TestParse_Coordinates(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		wantLat float64
		wantLng float64
		wantSet bool
	}{
		{"valid pair", "Coordinates: 30.2672, -97.7431", 30.2672, -97.7431, true},
		{"extra whitespace", "Coordinates:  45.5 ,  -122.6 ", 45.5, -122.6, true},
		{"non-numeric latitude", "Coordinates: north, -97.7431", 0, 0, false},
		{"non-numeric longitude", "Coordinates: 30.2672, west", 0, 0, false},
		{"single token", "Coordinates: 30.2672", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md := "**Spot**\nAddress: 1 Way\n" + tt.line
			records := Parse(md)
			require.Len(t, records, 1)

			if !tt.wantSet {
				assert.Nil(t, records[0].Coords, "partial pairs must be rejected")
				return
			}
			require.NotNil(t, records[0].Coords)
			assert.InDelta(t, tt.wantLat, records[0].Coords.Latitude, 1e-9)
			assert.InDelta(t, tt.wantLng, records[0].Coords.Longitude, 1e-9)
		})
	}
}

func TestParse_Rating(t *testing.T) {
	tests := []struct {
		name       string
		line       string
		wantRating *float64
		wantCount  *int
	}{
		{"rating and count", "Rating: 4.5 (120)", ptrF(4.5), ptrI(120)},
		{"rating only", "Rating: 4.5 stars", ptrF(4.5), nil},
		{"count only", "Rating: (37)", ptrF(37), ptrI(37)},
		{"integer rating", "Rating: 5", ptrF(5), nil},
		{"no reviews text", "Rating: 4.5 stars (no reviews)", ptrF(4.5), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md := "**Spot**\nAddress: 1 Way\n" + tt.line
			records := Parse(md)
			require.Len(t, records, 1)

			rec := records[0]
			if tt.wantRating == nil {
				assert.Nil(t, rec.Rating)
			} else {
				require.NotNil(t, rec.Rating)
				assert.InDelta(t, *tt.wantRating, *rec.Rating, 1e-9)
			}
			if tt.wantCount == nil {
				assert.Nil(t, rec.ReviewCount)
			} else {
				require.NotNil(t, rec.ReviewCount)
				assert.Equal(t, *tt.wantCount, *rec.ReviewCount)
			}
		})
	}
}

func TestParse_UnrecognizedLinesIgnored(t *testing.T) {
	md := strings.Join([]string{
		"**Tolerant LLC**",
		"Address: 9 Birch Ln",
		"Hours: 9am-5pm",
		"Some free-form commentary the model added.",
		"Founded: 1987",
	}, "\n")

	records := Parse(md)
	require.Len(t, records, 1)
	assert.Equal(t, "Tolerant LLC", records[0].Name)
	assert.Equal(t, "9 Birch Ln", records[0].Address)
}

func TestParse_LabelsCaseInsensitive(t *testing.T) {
	md := "Night Owl Diner\nADDRESS: 3 Moon Blvd\nPHONE: 555-9999\nwebsite: http://owl.example.com"

	records := Parse(md)
	require.Len(t, records, 1)
	assert.Equal(t, "3 Moon Blvd", records[0].Address)
	assert.Equal(t, "555-9999", records[0].Phone)
	assert.Equal(t, "http://owl.example.com", records[0].WebsiteURL)
}

func TestParse_AtMostOneRecordPerSegment(t *testing.T) {
	segments := 5
	var b strings.Builder
	for i := 0; i < segments; i++ {
		b.WriteString("**Biz**\nAddress: somewhere\n---\n")
	}

	records := Parse(b.String())
	assert.LessOrEqual(t, len(records), segments)
	for _, r := range records {
		assert.NotEmpty(t, r.Name)
		assert.NotEmpty(t, r.Address)
	}
}

func ptrF(f float64) *float64 { return &f }
func ptrI(i int) *int         { return &i }
