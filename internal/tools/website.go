package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"website-assistant/internal/models"
	"website-assistant/internal/screenshot"
)

// Tool names, as seen by the model.
const (
	WebsiteDetails = "get_website_details"
	SocialLinks    = "get_social_media_links"
	Screenshot     = "take_website_screenshot"
	Brochure       = "get_website_brochure"
)

type DetailsSource interface {
	Details(ctx context.Context, url string) (string, error)
}

type SocialSource interface {
	FromURL(ctx context.Context, url string) ([]models.SocialLink, error)
}

type BrochureMaker interface {
	Create(ctx context.Context, company, url string) (*models.Brochure, error)
}

type detailsTool struct{ source DetailsSource }

func NewDetailsTool(s DetailsSource) Tool { return &detailsTool{source: s} }

func (t *detailsTool) Name() string { return WebsiteDetails }

func (t *detailsTool) Description() string {
	return "Get the all details of a destination website url. Call this whenever you need to know more about a website, " +
		"for example when a customer asks 'What does this website do' or 'Tell me more about this website'"
}

func (t *detailsTool) Parameters() map[string]any {
	return stringSchema("destination_website_url", "The website the customer wants to have more information and details about")
}

func (t *detailsTool) Execute(ctx context.Context, args json.RawMessage) (any, error) {
	url, err := urlArg(args, "destination_website_url")
	if err != nil {
		return nil, err
	}
	return t.source.Details(ctx, url)
}

type socialTool struct{ source SocialSource }

func NewSocialTool(s SocialSource) Tool { return &socialTool{source: s} }

func (t *socialTool) Name() string { return SocialLinks }

func (t *socialTool) Description() string {
	return "Extracts social media links from a given webpage URL. " +
		"Call this to retrieve a list of social media links available on the website."
}

func (t *socialTool) Parameters() map[string]any {
	return stringSchema("url", "The URL of the webpage to analyze for social media links.")
}

func (t *socialTool) Execute(ctx context.Context, args json.RawMessage) (any, error) {
	url, err := urlArg(args, "url")
	if err != nil {
		return nil, err
	}
	return t.source.FromURL(ctx, url)
}

type brochureTool struct{ maker BrochureMaker }

func NewBrochureTool(m BrochureMaker) Tool { return &brochureTool{maker: m} }

func (t *brochureTool) Name() string { return Brochure }

func (t *brochureTool) Description() string {
	return "Get the brochure of a destination website url. Call this whenever you need to know more about a website, " +
		"for example when a customer asks 'What does this website do'"
}

func (t *brochureTool) Parameters() map[string]any {
	return stringSchema("destination_website_url", "The website the customer wants to have a brochure about")
}

type brochureResult struct {
	URL      string `json:"destination_website_url"`
	Brochure string `json:"brochure"`
}

func (t *brochureTool) Execute(ctx context.Context, args json.RawMessage) (any, error) {
	url, err := urlArg(args, "destination_website_url")
	if err != nil {
		return nil, err
	}
	b, err := t.maker.Create(ctx, url, url)
	if err != nil {
		return nil, err
	}
	return brochureResult{URL: url, Brochure: b.Markdown}, nil
}

type screenshotTool struct {
	capturer screenshot.Capturer
	dir      string
	now      func() time.Time
}

// NewScreenshotTool saves captures under dir.
func NewScreenshotTool(c screenshot.Capturer, dir string) Tool {
	return &screenshotTool{capturer: c, dir: dir, now: time.Now}
}

func (t *screenshotTool) Name() string { return Screenshot }

func (t *screenshotTool) Description() string {
	return "Takes a screenshot of the given webpage and saves it as a PNG file. " +
		"Call this when the customer wants to see what a website looks like."
}

func (t *screenshotTool) Parameters() map[string]any {
	return stringSchema("url", "The URL of the webpage to capture.")
}

type screenshotResult struct {
	URL  string `json:"url"`
	Path string `json:"path"`
}

func (t *screenshotTool) Execute(ctx context.Context, args json.RawMessage) (any, error) {
	url, err := urlArg(args, "url")
	if err != nil {
		return nil, err
	}
	path := filepath.Join(t.dir, FileName(url, t.now()))
	if err := t.capturer.Capture(ctx, url, path); err != nil {
		return nil, err
	}
	return screenshotResult{URL: url, Path: path}, nil
}

// FileName derives a screenshot file name from the URL's host and a timestamp.
func FileName(rawURL string, at time.Time) string {
	host := rawURL
	if i := strings.Index(host, "://"); i >= 0 {
		host = host[i+3:]
	}
	if i := strings.IndexAny(host, "/?#"); i >= 0 {
		host = host[:i]
	}
	host = strings.NewReplacer(":", "_", ".", "_").Replace(host)
	if host == "" {
		host = "page"
	}
	return fmt.Sprintf("%s-%s.png", host, at.UTC().Format("20060102T150405"))
}
