package ioformats

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"website-assistant/internal/models"
)

// BrochureMaker produces one brochure per target.
type BrochureMaker interface {
	Create(ctx context.Context, company, url string) (*models.Brochure, error)
}

// Result is one NDJSON output record.
type Result struct {
	URL      string           `json:"url"`
	Company  string           `json:"company,omitempty"`
	Brochure *models.Brochure `json:"brochure,omitempty"`
	Error    string           `json:"error,omitempty"`
	Ms       int64            `json:"ms"`
}

// RunBrochures processes targets with at most concurrency in flight and
// returns results in input order. A failed target does not stop the others;
// cancelling ctx does.
func RunBrochures(ctx context.Context, maker BrochureMaker, targets []Target, concurrency int, log *slog.Logger) []Result {
	if concurrency <= 0 {
		concurrency = 1
	}
	if log == nil {
		log = slog.Default()
	}
	results := make([]Result, len(targets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, t := range targets {
		g.Go(func() error {
			start := time.Now()
			res := Result{URL: t.URL, Company: t.Company}
			if err := gctx.Err(); err != nil {
				res.Error = err.Error()
				results[i] = res
				return nil
			}
			b, err := maker.Create(gctx, t.Company, t.URL)
			if err != nil {
				log.Warn("brochure failed", "url", t.URL, "error", err)
				res.Error = err.Error()
			} else {
				res.Brochure = b
			}
			res.Ms = time.Since(start).Milliseconds()
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()
	return results
}
