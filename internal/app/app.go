// Package app wires configuration into the fetch, classify, aggregate and
// chat pipeline shared by the CLI and the web server.
package app

import (
	"fmt"
	"log/slog"

	"website-assistant/internal/aggregator"
	"website-assistant/internal/archive"
	"website-assistant/internal/assistant"
	"website-assistant/internal/brochure"
	"website-assistant/internal/classifier"
	"website-assistant/internal/config"
	"website-assistant/internal/crawler"
	"website-assistant/internal/llm"
	"website-assistant/internal/metrics"
	"website-assistant/internal/parser"
	"website-assistant/internal/screenshot"
	"website-assistant/internal/social"
	"website-assistant/internal/tools"
	"website-assistant/pkg/logger"
)

type App struct {
	Config  *config.Config
	Log     *slog.Logger
	Metrics *metrics.Collector

	Provider    llm.Provider
	Pages       crawler.PageFetcher
	Details     *aggregator.Aggregator
	Brochures   *brochure.Generator
	Social      *social.Extractor
	Screenshots screenshot.Capturer
	// Archive is nil when archiving is disabled or the database failed to open.
	Archive *archive.DB
	Tools   *tools.Registry
}

// Build creates the OpenAI provider from cfg and wires the rest.
func Build(cfg *config.Config, log *slog.Logger) (*App, error) {
	if cfg.APIKey == "" {
		log.Error("OpenAI API key not set", "env", config.EnvAPIKey)
		return nil, fmt.Errorf("%s is not set", config.EnvAPIKey)
	}
	log.Info("OpenAI API key exists", "key_prefix", logger.KeyPrefix(cfg.APIKey))

	p, err := llm.NewOpenAIProvider(llm.OpenAIConfig{
		APIKey:    cfg.APIKey,
		BaseURL:   cfg.BaseURL,
		Model:     cfg.Model,
		MaxTokens: cfg.MaxTokens,
	})
	if err != nil {
		return nil, err
	}
	return New(cfg, log, p), nil
}

// New wires every component around provider.
func New(cfg *config.Config, log *slog.Logger, provider llm.Provider) *App {
	if log == nil {
		log = slog.Default()
	}
	m := metrics.New()
	provider = m.Provider(provider)

	client := crawler.NewHTTPClient(crawler.Options{
		Timeout:           cfg.Fetch.Timeout,
		DialTimeout:       cfg.Fetch.DialTimeout,
		SizeCap:           cfg.Fetch.MaxBodyBytes,
		UserAgent:         cfg.Fetch.UserAgent,
		RequestsPerSecond: cfg.Fetch.RequestsPerSecond,
		Observer:          m.ObserveFetch,
	})
	var popts []parser.Option
	if cfg.ContentFormat == config.FormatMarkdown {
		popts = append(popts, parser.WithMarkdown())
	}
	pages := crawler.NewPages(client, parser.New(popts...))

	details := aggregator.New(pages,
		classifier.New(provider, classifier.WithPurpose(classifier.PurposeDetails), classifier.WithLogger(log)),
		cfg.Fetch.Concurrency, log)
	forBrochure := aggregator.New(pages,
		classifier.New(provider, classifier.WithPurpose(classifier.PurposeBrochure), classifier.WithLogger(log)),
		cfg.Fetch.Concurrency, log)

	a := &App{
		Config:   cfg,
		Log:      log,
		Metrics:  m,
		Provider: provider,
		Pages:    pages,
		Details:  details,
		Social:   social.NewExtractor(pages),
		Screenshots: screenshot.NewChrome(screenshot.Options{
			Width:     cfg.Screenshot.Width,
			Height:    cfg.Screenshot.Height,
			UserAgent: cfg.Fetch.UserAgent,
		}),
	}

	bopts := []brochure.Option{
		brochure.WithMaxChars(cfg.Brochure.MaxChars),
		brochure.WithModel(cfg.Model),
		brochure.WithLogger(log),
	}
	if cfg.Archive.Enabled {
		db, err := archive.Open(cfg.ArchivePath())
		if err != nil {
			log.Warn("brochure archive disabled", "path", cfg.ArchivePath(), "error", err)
		} else {
			a.Archive = db
			bopts = append(bopts, brochure.WithArchive(db))
		}
	}
	a.Brochures = brochure.New(forBrochure, provider, bopts...)

	a.Tools = tools.NewRegistry(log)
	a.Tools.SetHook(m.ObserveTool)
	a.Tools.Register(tools.NewDetailsTool(a.Details))
	a.Tools.Register(tools.NewSocialTool(a.Social))
	a.Tools.Register(tools.NewBrochureTool(a.Brochures))
	if cfg.Screenshot.Enabled {
		a.Tools.Register(tools.NewScreenshotTool(a.Screenshots, cfg.Screenshot.Dir))
	}
	return a
}

// Assistant returns a chat assistant for the named variant; "" uses the
// configured one.
func (a *App) Assistant(variant string) (*assistant.Assistant, error) {
	if variant == "" {
		variant = a.Config.Variant
	}
	v, err := assistant.Lookup(variant)
	if err != nil {
		return nil, err
	}
	return assistant.New(a.Provider, a.Tools, v,
		assistant.WithLogger(a.Log),
		assistant.WithTurnHook(a.Metrics.ObserveTurn),
	), nil
}

func (a *App) Close() error {
	if a.Archive != nil {
		return a.Archive.Close()
	}
	return nil
}
