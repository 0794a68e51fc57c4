
package crawler

import (
	"context"
	"fmt"

	"website-assistant/internal/models"
	"website-assistant/internal/parser"
)

// PageFetcher turns a URL into a cleaned models.Page.
type PageFetcher interface {
	FetchPage(ctx context.Context, rawURL string) (models.Page, error)
}

type Pages struct {
	client *HTTPClient
	parser *parser.Parser
}

func NewPages(client *HTTPClient, p *parser.Parser) *Pages {
	return &Pages{client: client, parser: p}
}

func (p *Pages) FetchPage(ctx context.Context, rawURL string) (models.Page, error) {
	resp, err := p.client.Fetch(ctx, rawURL)
	if err != nil {
		return models.Page{}, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	// the requested URL, not the redirect target, identifies the page
	page, err := p.parser.Extract(resp.Body, rawURL, resp.ContentType)
	if err != nil {
		return models.Page{}, fmt.Errorf("parse %s: %w", rawURL, err)
	}
	return page, nil
}
