// Package export serializes a result set to downloadable artifacts.
package export

import (
	"io"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/leadscout/leadscout/internal/model"
)

// DefaultFilename is the fixed name of the CSV download artifact.
const DefaultFilename = "leads.csv"

// ErrNoRecords is returned when the result set is empty. Callers surface it
// as a notice, not a crash.
var ErrNoRecords = eris.New("export: no records to export")

// header is the fixed column order.
var header = []string{
	"name", "address", "type", "phone", "rating", "reviewCount",
	"websiteUrl", "emails", "phones", "socials",
}

// EncodeCSV writes records as UTF-8 CSV with a header row. Cell escaping is
// injection-safe: values starting with a formula character are prefixed with
// a single quote before the usual quoting rules apply.
func EncodeCSV(w io.Writer, records []model.BusinessRecord) error {
	if len(records) == 0 {
		return ErrNoRecords
	}

	if _, err := io.WriteString(w, strings.Join(header, ",")+"\n"); err != nil {
		return eris.Wrap(err, "export: write header")
	}

	for i := range records {
		row := make([]string, len(header))
		for j, cell := range recordCells(&records[i]) {
			row[j] = sanitizeCell(cell)
		}
		if _, err := io.WriteString(w, strings.Join(row, ",")+"\n"); err != nil {
			return eris.Wrap(err, "export: write row")
		}
	}
	return nil
}

func recordCells(r *model.BusinessRecord) []string {
	var rating, reviews string
	if r.Rating != nil {
		rating = strconv.FormatFloat(*r.Rating, 'f', -1, 64)
	}
	if r.ReviewCount != nil {
		reviews = strconv.Itoa(*r.ReviewCount)
	}

	var emails, phones, socials string
	if r.ContactInfo != nil {
		emails = strings.Join(r.ContactInfo.Emails, "; ")
		phones = strings.Join(r.ContactInfo.Phones, "; ")
		socials = strings.Join(r.ContactInfo.SocialLinks, "; ")
	}

	return []string{
		r.Name, r.Address, r.Category, r.Phone, rating, reviews,
		r.WebsiteURL, emails, phones, socials,
	}
}

// sanitizeCell applies the per-cell escaping rules: formula-injection prefix
// first, then comma quoting with doubled internal quotes.
func sanitizeCell(value string) string {
	if value == "" {
		return ""
	}
	switch value[0] {
	case '=', '+', '-', '@':
		value = "'" + value
	}
	if strings.Contains(value, ",") {
		value = `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
	}
	return value
}
