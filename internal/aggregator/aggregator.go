// Package aggregator builds one document out of a company's landing page and
// the pages the link classifier picked from it.
package aggregator

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"website-assistant/internal/crawler"
	"website-assistant/internal/models"
)

// Selector picks the relevant links of a page.
type Selector interface {
	Classify(ctx context.Context, page models.Page) (models.LinkSelection, error)
}

type Aggregator struct {
	pages       crawler.PageFetcher
	selector    Selector
	concurrency int
	log         *slog.Logger
}

func New(pages crawler.PageFetcher, selector Selector, concurrency int, log *slog.Logger) *Aggregator {
	if concurrency <= 0 {
		concurrency = 1
	}
	if log == nil {
		log = slog.Default()
	}
	return &Aggregator{pages: pages, selector: selector, concurrency: concurrency, log: log}
}

// Links fetches url and returns the classifier's selection for it.
func (a *Aggregator) Links(ctx context.Context, url string) (models.LinkSelection, error) {
	landing, err := a.pages.FetchPage(ctx, url)
	if err != nil {
		return models.LinkSelection{}, err
	}
	return a.selector.Classify(ctx, landing)
}

// Details returns the landing page followed by every selected page, in the
// order the classifier returned them. Any failed fetch fails the whole call.
func (a *Aggregator) Details(ctx context.Context, url string) (string, error) {
	a.log.Info("getting all details", "url", url)

	landing, err := a.pages.FetchPage(ctx, url)
	if err != nil {
		return "", err
	}
	sel, err := a.selector.Classify(ctx, landing)
	if err != nil {
		return "", err
	}
	a.log.Info("found links", "url", url, "links", len(sel.Links))

	pages := make([]models.Page, len(sel.Links))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)
	for i, link := range sel.Links {
		g.Go(func() error {
			p, err := a.pages.FetchPage(gctx, link.URL)
			if err != nil {
				return err
			}
			pages[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("Landing page:\n")
	b.WriteString(landing.Contents())
	for i, link := range sel.Links {
		b.WriteString("\n\n")
		b.WriteString(link.Type)
		b.WriteString("\n")
		b.WriteString(pages[i].Contents())
	}
	return b.String(), nil
}
