
package crawler

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// BrowserUserAgent is sent on every request; some sites refuse obvious bots.
const BrowserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/117.0.0.0 Safari/537.36"

var (
	ErrInvalidURL = errors.New("invalid url")
	ErrNonHTML    = errors.New("non-html content")
)

// StatusError is returned for responses outside 2xx/3xx.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http status %d for %s", e.StatusCode, e.URL)
}

// Observer is notified once per Fetch. status is 0 when no response arrived.
type Observer func(host string, status int, elapsed time.Duration, err error)

type Options struct {
	Timeout     time.Duration
	DialTimeout time.Duration
	SizeCap     int64
	UserAgent   string
	// RequestsPerSecond limits fetches per host. Zero disables limiting.
	RequestsPerSecond float64
	Observer          Observer
}

// Response is a successful fetch. Body must be closed by the caller.
type Response struct {
	Body        io.ReadCloser
	FinalURL    string
	ContentType string
	StatusCode  int
	Elapsed     time.Duration
}

type HTTPClient struct {
	client    *http.Client
	sizeCap   int64
	userAgent string
	rps       float64
	observer  Observer

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func NewHTTPClient(opts Options) *HTTPClient {
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = 5 * time.Second
	}
	if opts.SizeCap <= 0 {
		opts.SizeCap = 5 * 1024 * 1024
	}
	if opts.UserAgent == "" {
		opts.UserAgent = BrowserUserAgent
	}
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   opts.DialTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return &HTTPClient{
		client: &http.Client{
			Transport: transport,
			Timeout:   opts.Timeout,
		},
		sizeCap:   opts.SizeCap,
		userAgent: opts.UserAgent,
		rps:       opts.RequestsPerSecond,
		observer:  opts.Observer,
		limiters:  make(map[string]*rate.Limiter),
	}
}

func (h *HTTPClient) limiter(host string) *rate.Limiter {
	if h.rps <= 0 {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	l, ok := h.limiters[host]
	if !ok {
		l = rate.NewLimiter(rate.Limit(h.rps), 1)
		h.limiters[host] = l
	}
	return l
}

func (h *HTTPClient) Fetch(ctx context.Context, rawURL string) (*Response, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}

	if l := h.limiter(u.Host); l != nil {
		if err := l.Wait(ctx); err != nil {
			return nil, err
		}
	}

	start := time.Now()
	resp, status, err := h.do(ctx, u)
	if h.observer != nil {
		h.observer(u.Host, status, time.Since(start), err)
	}
	if err != nil {
		return nil, err
	}
	resp.Elapsed = time.Since(start)
	return resp, nil
}

func (h *HTTPClient) do(ctx context.Context, u *url.URL) (*Response, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Encoding", "gzip")
	req.Header.Set("User-Agent", h.userAgent)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		resp.Body.Close()
		return nil, resp.StatusCode, &StatusError{URL: u.String(), StatusCode: resp.StatusCode}
	}

	contentType := resp.Header.Get("Content-Type")
	mediaType, _, _ := mime.ParseMediaType(contentType)
	if mediaType != "" && !strings.Contains(mediaType, "text/html") && !strings.Contains(mediaType, "application/xhtml+xml") {
		// empty media type is allowed, some servers omit it
		resp.Body.Close()
		return nil, resp.StatusCode, fmt.Errorf("%w: %s", ErrNonHTML, mediaType)
	}

	var body io.ReadCloser = resp.Body
	if strings.EqualFold(resp.Header.Get("Content-Encoding"), "gzip") {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			resp.Body.Close()
			return nil, resp.StatusCode, err
		}
		body = &gzipBody{Reader: gz, raw: resp.Body}
	}

	return &Response{
		Body:        &cappedBody{Reader: io.LimitReader(body, h.sizeCap), closer: body},
		FinalURL:    resp.Request.URL.String(),
		ContentType: contentType,
		StatusCode:  resp.StatusCode,
	}, resp.StatusCode, nil
}

type gzipBody struct {
	*gzip.Reader
	raw io.Closer
}

func (g *gzipBody) Close() error {
	g.Reader.Close()
	return g.raw.Close()
}

type cappedBody struct {
	io.Reader
	closer io.Closer
}

func (c *cappedBody) Close() error { return c.closer.Close() }
