// Package leadparse converts the delimited markdown business listing returned
// by the generative backend into structured records. Parsing is deliberately
// lenient: malformed segments are dropped, never reported.
package leadparse

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/leadscout/leadscout/internal/model"
)

// segmentDelimiter separates business entries in the backend's markdown.
const segmentDelimiter = "---"

// fieldRule maps a case-insensitive line label to a setter. Lines within a
// segment are classified independently, so field order does not matter and
// unknown labels fall through untouched.
type fieldRule struct {
	label string
	apply func(r *model.BusinessRecord, value string)
}

var fieldRules = []fieldRule{
	{"address:", func(r *model.BusinessRecord, v string) { r.Address = v }},
	{"type:", func(r *model.BusinessRecord, v string) { r.Category = v }},
	{"category:", func(r *model.BusinessRecord, v string) { r.Category = v }},
	{"phone:", func(r *model.BusinessRecord, v string) { r.Phone = v }},
	{"website:", func(r *model.BusinessRecord, v string) { r.WebsiteURL = v }},
	{"coordinates:", applyCoordinates},
	{"rating:", applyRating},
}

var (
	ratingPattern = regexp.MustCompile(`\d{1,2}(?:\.\d)?`)
	reviewPattern = regexp.MustCompile(`\((\d+)\)`)
)

// Parse converts markdown text into business records. It never fails: an
// empty or unrecognizable input yields an empty slice. A segment produces a
// record only when both name and address end up non-empty.
func Parse(markdown string) []model.BusinessRecord {
	var records []model.BusinessRecord
	for _, segment := range strings.Split(markdown, segmentDelimiter) {
		if rec, ok := parseSegment(segment); ok {
			records = append(records, rec)
		}
	}
	return records
}

func parseSegment(segment string) (model.BusinessRecord, bool) {
	rec := model.BusinessRecord{
		Scrape: model.ScrapeState{Status: model.ScrapeNotStarted},
	}

	for _, line := range strings.Split(segment, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if rec.Name == "" {
			rec.Name = stripEmphasis(line)
			continue
		}
		classifyLine(&rec, line)
	}

	if rec.Name == "" || rec.Address == "" {
		return model.BusinessRecord{}, false
	}

	rec.ID = uuid.New().String()
	return rec, true
}

func classifyLine(rec *model.BusinessRecord, line string) {
	lower := strings.ToLower(line)
	for _, rule := range fieldRules {
		if !strings.Contains(lower, rule.label) {
			continue
		}
		idx := strings.Index(line, ":")
		if idx < 0 || idx+1 >= len(line) {
			return
		}
		rule.apply(rec, strings.TrimSpace(line[idx+1:]))
		return
	}
}

// applyCoordinates sets the pair atomically: both tokens must parse or
// neither coordinate is stored.
func applyCoordinates(rec *model.BusinessRecord, value string) {
	parts := strings.SplitN(value, ",", 2)
	if len(parts) != 2 {
		return
	}
	lat, latErr := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lng, lngErr := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if latErr != nil || lngErr != nil {
		return
	}
	rec.Coords = &model.Coordinates{Latitude: lat, Longitude: lng}
}

// applyRating extracts a best-effort rating and parenthesized review count.
// Either part may be absent independently; values like "4.5 stars (no
// reviews)" simply yield a rating with no count.
func applyRating(rec *model.BusinessRecord, value string) {
	if m := ratingPattern.FindString(value); m != "" {
		if f, err := strconv.ParseFloat(m, 64); err == nil {
			rec.Rating = &f
		}
	}
	if m := reviewPattern.FindStringSubmatch(value); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n >= 0 {
			rec.ReviewCount = &n
		}
	}
}

// stripEmphasis removes surrounding markdown bold/italic markers from a name.
func stripEmphasis(line string) string {
	line = strings.TrimSpace(line)
	line = strings.Trim(line, "*_")
	return strings.TrimSpace(line)
}
