// Package brochure turns an aggregated company document into a short
// markdown brochure with a single model call.
package brochure

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"website-assistant/internal/llm"
	"website-assistant/internal/models"
)

// DefaultMaxChars bounds the user prompt sent for a brochure.
const DefaultMaxChars = 10_000

const SystemPrompt = "You are an assistant that analyzes the contents of several relevant pages from a company website " +
	"and creates a short brochure about the company for prospective customers, investors and recruits. Respond in markdown." +
	"Include details of company culture, customers and careers/jobs if you have the information."

// DetailsSource produces the aggregated website document.
type DetailsSource interface {
	Details(ctx context.Context, url string) (string, error)
}

// Archive stores generated brochures. It may be nil.
type Archive interface {
	SaveBrochure(ctx context.Context, b models.Brochure) error
}

type Generator struct {
	source   DetailsSource
	provider llm.Provider
	maxChars int
	archive  Archive
	model    string
	log      *slog.Logger
	now      func() time.Time
}

type Option func(*Generator)

func WithMaxChars(n int) Option { return func(g *Generator) { g.maxChars = n } }

func WithArchive(a Archive) Option { return func(g *Generator) { g.archive = a } }

// WithModel records the model name on generated brochures.
func WithModel(m string) Option { return func(g *Generator) { g.model = m } }

func WithLogger(l *slog.Logger) Option { return func(g *Generator) { g.log = l } }

func New(source DetailsSource, provider llm.Provider, opts ...Option) *Generator {
	g := &Generator{
		source:   source,
		provider: provider,
		maxChars: DefaultMaxChars,
		log:      slog.Default(),
		now:      time.Now,
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// UserPrompt builds the truncated prompt for company at url.
func (g *Generator) UserPrompt(ctx context.Context, company, url string) (string, error) {
	details, err := g.source.Details(ctx, url)
	if err != nil {
		return "", err
	}
	prompt := fmt.Sprintf("You are looking at a company called: %s\n", company) +
		"Here are the contents of its landing page and other relevant pages; " +
		"use this information to build a short brochure of the company in markdown.\n" +
		details
	return Truncate(prompt, g.maxChars), nil
}

// Create builds a brochure for company at url. An empty company name
// falls back to the URL.
func (g *Generator) Create(ctx context.Context, company, url string) (*models.Brochure, error) {
	if company == "" {
		company = url
	}
	prompt, err := g.UserPrompt(ctx, company, url)
	if err != nil {
		return nil, err
	}

	resp, err := g.provider.Chat(ctx, llm.ChatRequest{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: SystemPrompt},
			{Role: llm.RoleUser, Content: prompt},
		},
		Purpose: "brochure",
	})
	if err != nil {
		return nil, fmt.Errorf("create brochure for %s: %w", url, err)
	}

	model := resp.Model
	if model == "" {
		model = g.model
	}
	b := &models.Brochure{
		ID:        uuid.NewString(),
		Company:   company,
		URL:       url,
		Markdown:  resp.Content,
		Model:     model,
		CreatedAt: g.now().UTC(),
	}
	g.log.Info("brochure created", "company", company, "url", url, "chars", len([]rune(b.Markdown)))

	if g.archive != nil {
		if err := g.archive.SaveBrochure(ctx, *b); err != nil {
			// the brochure is still useful to the caller
			g.log.Warn("archive brochure", "id", b.ID, "error", err)
		}
	}
	return b, nil
}

// Truncate keeps at most n characters of s. n <= 0 disables truncation.
func Truncate(s string, n int) string {
	if n <= 0 {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
