// Package scrape drives contact extraction over a result set. Records are
// processed strictly sequentially: one extraction completes before the next
// starts, which keeps per-record UI feedback deterministic and avoids
// flooding the backend.
package scrape

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/leadscout/leadscout/internal/model"
)

// Extractor produces a contact bundle for a website URL.
type Extractor interface {
	Extract(ctx context.Context, url string) (model.ContactBundle, error)
}

// ResultSet is the orchestrator-owned record collection being scraped. The
// scrape orchestrator mutates records in place by id; it never creates or
// removes them.
type ResultSet interface {
	Results() []model.BusinessRecord
	Update(id string, fn func(*model.BusinessRecord)) bool
}

// Summary tallies one bulk scrape pass.
type Summary struct {
	Attempted int
	Succeeded int
	Failed    int
	Skipped   int
}

// Orchestrator runs per-record and bulk scrapes against a result set.
type Orchestrator struct {
	extractor Extractor
	results   ResultSet
}

// New creates an Orchestrator over the given extractor and result set.
func New(extractor Extractor, results ResultSet) *Orchestrator {
	return &Orchestrator{extractor: extractor, results: results}
}

// All scrapes every eligible record in the set's existing order. Eligible
// means: has a website, no contact bundle yet, no prior failure — so a rerun
// after completion performs zero backend calls. One record's failure marks
// that record failed and iteration continues.
func (o *Orchestrator) All(ctx context.Context) Summary {
	var s Summary
	for _, rec := range o.results.Results() {
		if !rec.ScrapeEligible() {
			s.Skipped++
			continue
		}
		s.Attempted++
		if o.scrapeOne(ctx, rec.ID, rec.WebsiteURL) {
			s.Succeeded++
		} else {
			s.Failed++
		}
	}
	zap.L().Info("scrape: bulk pass complete",
		zap.Int("attempted", s.Attempted),
		zap.Int("succeeded", s.Succeeded),
		zap.Int("failed", s.Failed),
		zap.Int("skipped", s.Skipped),
	)
	return s
}

// One scrapes a single record by id regardless of a prior failure; this is
// the manual retry path. A record with an existing bundle is left alone.
func (o *Orchestrator) One(ctx context.Context, id string) error {
	var target *model.BusinessRecord
	for _, rec := range o.results.Results() {
		if rec.ID == id {
			r := rec
			target = &r
			break
		}
	}
	if target == nil {
		return eris.Errorf("scrape: no record with id %s", id)
	}
	if target.ContactInfo != nil {
		return nil
	}
	if target.WebsiteURL == "" {
		return eris.Errorf("scrape: record %s has no website", id)
	}
	if !o.scrapeOne(ctx, target.ID, target.WebsiteURL) {
		return eris.Errorf("scrape: extraction failed for record %s", id)
	}
	return nil
}

// scrapeOne transitions one record through in-progress to its terminal
// state and reports success.
func (o *Orchestrator) scrapeOne(ctx context.Context, id, url string) bool {
	o.results.Update(id, func(r *model.BusinessRecord) {
		r.Scrape = model.ScrapeState{Status: model.ScrapeInProgress}
	})

	bundle, err := o.extractor.Extract(ctx, url)
	if err != nil {
		zap.L().Warn("scrape: record failed", zap.String("id", id), zap.String("url", url), zap.Error(err))
		o.results.Update(id, func(r *model.BusinessRecord) {
			r.Scrape = model.ScrapeState{Status: model.ScrapeFailed, Message: err.Error()}
		})
		return false
	}

	o.results.Update(id, func(r *model.BusinessRecord) {
		b := bundle
		r.ContactInfo = &b
		r.Scrape = model.ScrapeState{Status: model.ScrapeSucceeded}
	})
	return true
}
