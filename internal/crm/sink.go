// Package crm pushes scraped lead records into Salesforce.
package crm

import (
	"context"
	"fmt"
	"strings"

	gosf "github.com/k-capehart/go-salesforce/v3"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/leadscout/leadscout/internal/config"
	"github.com/leadscout/leadscout/internal/model"
	"github.com/leadscout/leadscout/pkg/salesforce"
)

// ErrNotConfigured is returned when no Salesforce credentials are present.
var ErrNotConfigured = eris.New("crm: salesforce is not configured")

// PushReport summarizes the outcome of a Push.
type PushReport struct {
	Pushed  int
	Failed  int
	Skipped int
}

// Sink sends lead records to Salesforce as Lead SObjects.
type Sink struct {
	client salesforce.Client
}

// NewSink creates a Sink over an authenticated Salesforce client.
func NewSink(client salesforce.Client) *Sink {
	return &Sink{client: client}
}

// Connect authenticates against Salesforce using the credentials flow and
// returns a ready Sink. Returns ErrNotConfigured when credentials are absent.
func Connect(cfg config.SalesforceConfig) (*Sink, error) {
	if !cfg.Configured() {
		return nil, ErrNotConfigured
	}

	sf, err := gosf.Init(gosf.Creds{
		Domain:         cfg.Domain,
		Username:       cfg.Username,
		Password:       cfg.Password,
		ConsumerKey:    cfg.ClientID,
		ConsumerSecret: cfg.ClientSecret,
	})
	if err != nil {
		return nil, eris.Wrap(err, "crm: salesforce auth")
	}

	return NewSink(salesforce.NewClient(sf, salesforce.WithRateLimit(cfg.RateLimit))), nil
}

// Push inserts the given records as Leads. Records without a name are skipped.
// Individual insert failures are counted, not fatal.
func (s *Sink) Push(ctx context.Context, records []model.BusinessRecord) (PushReport, error) {
	var report PushReport

	payload := make([]map[string]any, 0, len(records))
	for _, rec := range records {
		if rec.Name == "" {
			report.Skipped++
			continue
		}
		payload = append(payload, leadFields(rec))
	}

	if len(payload) == 0 {
		return report, nil
	}

	results, err := salesforce.BulkInsertLeads(ctx, s.client, payload)
	if err != nil {
		return report, eris.Wrap(err, "crm: push leads")
	}

	for _, r := range results {
		if r.Success {
			report.Pushed++
		} else {
			report.Failed++
			zap.L().Warn("lead insert failed",
				zap.String("id", r.ID),
				zap.Strings("errors", r.Errors))
		}
	}
	return report, nil
}

// leadFields maps a business record onto standard Lead fields.
func leadFields(rec model.BusinessRecord) map[string]any {
	fields := map[string]any{
		"Company":  rec.Name,
		"LastName": rec.Name, // Lead requires LastName; no person name is known
	}
	if rec.Address != "" {
		fields["Street"] = rec.Address
	}
	if rec.Phone != "" {
		fields["Phone"] = rec.Phone
	}
	if rec.WebsiteURL != "" {
		fields["Website"] = rec.WebsiteURL
	}
	if rec.Category != "" {
		fields["Industry"] = rec.Category
	}
	if rec.Coords != nil {
		fields["Latitude"] = rec.Coords.Latitude
		fields["Longitude"] = rec.Coords.Longitude
	}
	if rec.ContactInfo != nil && len(rec.ContactInfo.Emails) > 0 {
		fields["Email"] = rec.ContactInfo.Emails[0]
	}
	if desc := describe(rec); desc != "" {
		fields["Description"] = desc
	}
	return fields
}

func describe(rec model.BusinessRecord) string {
	var parts []string
	if rec.Rating != nil {
		parts = append(parts, fmt.Sprintf("Rating: %.1f", *rec.Rating))
	}
	if rec.ReviewCount != nil {
		parts = append(parts, fmt.Sprintf("Reviews: %d", *rec.ReviewCount))
	}
	if rec.ContactInfo != nil && len(rec.ContactInfo.SocialLinks) > 0 {
		parts = append(parts, "Socials: "+strings.Join(rec.ContactInfo.SocialLinks, ", "))
	}
	return strings.Join(parts, " | ")
}
