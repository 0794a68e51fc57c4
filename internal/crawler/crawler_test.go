
package crawler

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"website-assistant/internal/parser"
)

func TestFetchHTML(t *testing.T) {
	var gotUA string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(200)
		_, _ = w.Write([]byte("<html><title>x</title></html>"))
	}))
	defer ts.Close()

	client := NewHTTPClient(Options{Timeout: 5 * time.Second, DialTimeout: 2 * time.Second, SizeCap: 1024})
	resp, err := client.Fetch(context.Background(), ts.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, BrowserUserAgent, gotUA)
	assert.NotEmpty(t, resp.FinalURL)
	assert.Equal(t, "text/html", resp.ContentType)
	assert.Equal(t, 200, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "<html><title>x</title></html>", string(body))
}

func TestRejectNonHTML(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(200)
		w.Write([]byte("{}"))
	}))
	defer ts.Close()

	client := NewHTTPClient(Options{})
	_, err := client.Fetch(context.Background(), ts.URL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNonHTML))
}

func TestRejectBadStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer ts.Close()

	var (
		mu       sync.Mutex
		observed []int
	)
	client := NewHTTPClient(Options{Observer: func(host string, status int, _ time.Duration, err error) {
		mu.Lock()
		defer mu.Unlock()
		observed = append(observed, status)
	}})
	_, err := client.Fetch(context.Background(), ts.URL)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
	assert.Equal(t, []int{http.StatusNotFound}, observed)
}

func TestRejectInvalidURL(t *testing.T) {
	client := NewHTTPClient(Options{})
	for _, u := range []string{"", "example.com", "ftp://example.com/file", "://nope"} {
		_, err := client.Fetch(context.Background(), u)
		assert.ErrorIs(t, err, ErrInvalidURL, u)
	}
}

func TestFetchGzipAndSizeCap(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, _ = gz.Write([]byte("<html><body>0123456789abcdef</body></html>"))
	_ = gz.Close()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Content-Encoding", "gzip")
		_, _ = w.Write(buf.Bytes())
	}))
	defer ts.Close()

	client := NewHTTPClient(Options{SizeCap: 12})
	resp, err := client.Fetch(context.Background(), ts.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "<html><body>", string(body))
}

func TestPagesFetchPage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head><title>Acme</title></head><body><p>Hello</p><a href="/about">About</a></body></html>`))
	}))
	defer ts.Close()

	pages := NewPages(NewHTTPClient(Options{}), parser.New())
	page, err := pages.FetchPage(context.Background(), ts.URL)
	require.NoError(t, err)
	assert.Equal(t, ts.URL, page.URL)
	assert.Equal(t, "Acme", page.Title)
	assert.Equal(t, "Hello\nAbout", page.Text)
	assert.Equal(t, []string{"/about"}, page.Links)
}
