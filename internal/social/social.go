// Package social picks well-known social media profiles out of a page's links.
package social

import (
	"context"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"website-assistant/internal/crawler"
	"website-assistant/internal/models"
)

// Sites are matched in this order.
var Sites = []string{"facebook.com", "twitter.com", "linkedin.com", "instagram.com", "youtube.com"}

// SiteName turns "linkedin.com" into "Linkedin".
func SiteName(domain string) string {
	label, _, _ := strings.Cut(domain, ".")
	// a Caser is stateful, so one per call
	return cases.Title(language.English).String(label)
}

// Extract returns one entry per (link, site) pair where the link contains
// the site's domain. Order follows links first, then Sites.
func Extract(links []string) []models.SocialLink {
	out := []models.SocialLink{}
	for _, link := range links {
		for _, site := range Sites {
			if strings.Contains(link, site) {
				out = append(out, models.SocialLink{Site: SiteName(site), URL: link})
			}
		}
	}
	return out
}

type Extractor struct {
	pages crawler.PageFetcher
}

func NewExtractor(pages crawler.PageFetcher) *Extractor {
	return &Extractor{pages: pages}
}

// FromURL fetches url and extracts its social links.
func (e *Extractor) FromURL(ctx context.Context, url string) ([]models.SocialLink, error) {
	page, err := e.pages.FetchPage(ctx, url)
	if err != nil {
		return nil, err
	}
	return Extract(page.Links), nil
}
