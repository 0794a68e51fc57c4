// Package screenshot renders pages in headless Chrome and saves PNG images.
package screenshot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"
)

// Capturer saves an image of url at outputPath.
type Capturer interface {
	Capture(ctx context.Context, url, outputPath string) error
}

type Options struct {
	Width     int
	Height    int
	Timeout   time.Duration
	UserAgent string
	// ExecPath points at a Chrome binary; empty lets chromedp find one.
	ExecPath string
}

// Chrome drives a fresh headless browser per capture.
type Chrome struct {
	opts Options
}

func NewChrome(opts Options) *Chrome {
	if opts.Width <= 0 {
		opts.Width = 1920
	}
	if opts.Height <= 0 {
		opts.Height = 1080
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	return &Chrome{opts: opts}
}

func (c *Chrome) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts,
		chromedp.Headless,
		chromedp.DisableGPU,
		chromedp.NoSandbox,
		chromedp.Flag("start-maximized", true),
		chromedp.WindowSize(c.opts.Width, c.opts.Height),
	)
	if c.opts.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(c.opts.UserAgent))
	}
	if c.opts.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(c.opts.ExecPath))
	}
	return opts
}

func (c *Chrome) Capture(ctx context.Context, url, outputPath string) error {
	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, c.allocatorOptions()...)
	defer cancelAlloc()
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	// cancelling the browser context shuts Chrome down
	defer cancelBrowser()

	var png []byte
	err := chromedp.Run(browserCtx,
		chromedp.EmulateViewport(int64(c.opts.Width), int64(c.opts.Height)),
		chromedp.Navigate(url),
		chromedp.CaptureScreenshot(&png),
	)
	if err != nil {
		return fmt.Errorf("screenshot %s: %w", url, err)
	}

	if dir := filepath.Dir(outputPath); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create screenshot dir: %w", err)
		}
	}
	if err := os.WriteFile(outputPath, png, 0o600); err != nil {
		return fmt.Errorf("write screenshot: %w", err)
	}
	return nil
}

var _ Capturer = (*Chrome)(nil)
