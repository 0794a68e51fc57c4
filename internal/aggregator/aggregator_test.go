package aggregator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"website-assistant/internal/classifier"
	"website-assistant/internal/llm"
	"website-assistant/internal/models"
)

// fakePages serves canned pages; later links answer faster to shake out
// ordering bugs.
type fakePages struct {
	mu      sync.Mutex
	pages   map[string]models.Page
	delays  map[string]time.Duration
	fetched []string
}

func (f *fakePages) FetchPage(ctx context.Context, url string) (models.Page, error) {
	f.mu.Lock()
	f.fetched = append(f.fetched, url)
	p, ok := f.pages[url]
	d := f.delays[url]
	f.mu.Unlock()
	if d > 0 {
		time.Sleep(d)
	}
	if !ok {
		return models.Page{}, fmt.Errorf("fetch %s: %w", url, errors.New("http status 404"))
	}
	return p, nil
}

func site() *fakePages {
	return &fakePages{
		pages: map[string]models.Page{
			"https://acme.test":         {URL: "https://acme.test", Title: "Acme", Text: "Home", Links: []string{"/about", "/careers"}},
			"https://acme.test/about":   {URL: "https://acme.test/about", Title: "About", Text: "Founded 1949"},
			"https://acme.test/careers": {URL: "https://acme.test/careers", Title: "Careers", Text: "Join us"},
		},
		delays: map[string]time.Duration{"https://acme.test/about": 30 * time.Millisecond},
	}
}

const selection = `{"links": [
	{"type": "about page", "url": "https://acme.test/about"},
	{"type": "careers page", "url": "/careers"}
]}`

func TestDetailsOrder(t *testing.T) {
	pages := site()
	mock := llm.NewMockProvider(llm.Text(selection))
	agg := New(pages, classifier.New(mock), 4, nil)

	got, err := agg.Details(context.Background(), "https://acme.test")
	require.NoError(t, err)

	want := "Landing page:\n" +
		"Webpage Title:\nAcme\nWebpage Contents:\nHome\n\n" +
		"\n\nabout page\n" +
		"Webpage Title:\nAbout\nWebpage Contents:\nFounded 1949\n\n" +
		"\n\ncareers page\n" +
		"Webpage Title:\nCareers\nWebpage Contents:\nJoin us\n\n"
	assert.Equal(t, want, got)

	// landing page is fetched once
	count := 0
	for _, u := range pages.fetched {
		if u == "https://acme.test" {
			count++
		}
	}
	assert.Equal(t, 1, count)
	assert.Equal(t, 1, mock.CallCount())
}

func TestDetailsNoLinks(t *testing.T) {
	agg := New(site(), classifier.New(llm.NewMockProvider(llm.Text(`{"links": []}`))), 2, nil)
	got, err := agg.Details(context.Background(), "https://acme.test")
	require.NoError(t, err)
	assert.Equal(t, "Landing page:\nWebpage Title:\nAcme\nWebpage Contents:\nHome\n\n", got)
}

func TestDetailsFailsOnBrokenLink(t *testing.T) {
	mock := llm.NewMockProvider(llm.Text(`{"links": [{"type": "blog", "url": "https://acme.test/blog"}]}`))
	agg := New(site(), classifier.New(mock), 2, nil)
	_, err := agg.Details(context.Background(), "https://acme.test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "https://acme.test/blog")
}

func TestDetailsFailsOnMissingLinksKey(t *testing.T) {
	agg := New(site(), classifier.New(llm.NewMockProvider(llm.Text(`{"pages": []}`))), 2, nil)
	_, err := agg.Details(context.Background(), "https://acme.test")
	assert.ErrorIs(t, err, classifier.ErrMissingLinks)
}

func TestDetailsFailsOnLandingPage(t *testing.T) {
	mock := llm.NewMockProvider()
	agg := New(site(), classifier.New(mock), 2, nil)
	_, err := agg.Details(context.Background(), "https://unknown.test")
	require.Error(t, err)
	assert.Zero(t, mock.CallCount())
}

func TestLinks(t *testing.T) {
	agg := New(site(), classifier.New(llm.NewMockProvider(llm.Text(selection))), 1, nil)
	sel, err := agg.Links(context.Background(), "https://acme.test")
	require.NoError(t, err)
	require.Len(t, sel.Links, 2)
	assert.Equal(t, "https://acme.test/careers", sel.Links[1].URL)
}
