// Package config loads settings from a YAML file, the environment and an
// optional credentials file.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// AppName names the XDG directories.
const AppName = "website-assistant"

const (
	DefaultModel        = "gpt-4o-mini"
	DefaultVariant      = "details"
	DefaultTimeout      = 15 * time.Second
	DefaultDialTimeout  = 5 * time.Second
	DefaultMaxBodyBytes = 5 * 1024 * 1024
	DefaultConcurrency  = 4
	DefaultMaxChars     = 10_000
	DefaultServerAddr   = ":8080"
	DefaultWidth        = 1920
	DefaultHeight       = 1080

	FormatText     = "text"
	FormatMarkdown = "markdown"
)

var (
	ErrConfigNotFound     = errors.New("configuration file not found")
	ErrInvalidFormat      = errors.New("invalid content_format: must be text or markdown")
	ErrInvalidConcurrency = errors.New("invalid fetch.concurrency: must be positive")
	ErrInvalidMaxChars    = errors.New("invalid brochure.max_chars: must be positive")
)

type Config struct {
	Model     string `yaml:"model"`
	BaseURL   string `yaml:"base_url"`
	MaxTokens int    `yaml:"max_tokens"`
	Variant   string `yaml:"variant"`

	// APIKey is normally taken from the environment or credentials.toml.
	APIKey string `yaml:"api_key"`

	ContentFormat string     `yaml:"content_format"`
	Fetch         Fetch      `yaml:"fetch"`
	Brochure      Brochure   `yaml:"brochure"`
	Screenshot    Screenshot `yaml:"screenshot"`
	Archive       Archive    `yaml:"archive"`
	Server        Server     `yaml:"server"`
	Log           Log        `yaml:"log"`
}

type Fetch struct {
	Timeout           time.Duration `yaml:"timeout"`
	DialTimeout       time.Duration `yaml:"dial_timeout"`
	MaxBodyBytes      int64         `yaml:"max_body_bytes"`
	UserAgent         string        `yaml:"user_agent"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Concurrency       int           `yaml:"concurrency"`
}

type Brochure struct {
	MaxChars int `yaml:"max_chars"`
}

type Screenshot struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
	Width   int    `yaml:"width"`
	Height  int    `yaml:"height"`
}

type Archive struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
}

type Server struct {
	Addr string `yaml:"addr"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func NewConfig() *Config {
	return &Config{
		Model:         DefaultModel,
		Variant:       DefaultVariant,
		ContentFormat: FormatText,
		Fetch: Fetch{
			Timeout:      DefaultTimeout,
			DialTimeout:  DefaultDialTimeout,
			MaxBodyBytes: DefaultMaxBodyBytes,
			Concurrency:  DefaultConcurrency,
		},
		Brochure:   Brochure{MaxChars: DefaultMaxChars},
		Screenshot: Screenshot{Dir: ".", Width: DefaultWidth, Height: DefaultHeight},
		Archive:    Archive{Enabled: true, Dir: XDGDataDir()},
		Server:     Server{Addr: DefaultServerAddr},
		Log:        Log{Level: "info", Format: "text"},
	}
}

func (c *Config) Validate() error {
	if c.ContentFormat != FormatText && c.ContentFormat != FormatMarkdown {
		return fmt.Errorf("%w: %q", ErrInvalidFormat, c.ContentFormat)
	}
	if c.Fetch.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.Brochure.MaxChars <= 0 {
		return ErrInvalidMaxChars
	}
	return nil
}

// ArchivePath is the SQLite file inside Archive.Dir.
func (c *Config) ArchivePath() string {
	return filepath.Join(c.Archive.Dir, "brochures.db")
}

// XDGDataDir is ~/.local/share/website-assistant on Linux.
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

func XDGConfigFile() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.yaml")
}
