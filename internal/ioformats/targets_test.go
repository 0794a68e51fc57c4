package ioformats

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"website-assistant/internal/models"
)

func TestParseCSV(t *testing.T) {
	in := "company,url\nAcme,https://acme.test\n,https://globex.test\nEmpty,\n"
	ts, err := Parse(strings.NewReader(in), ".csv")
	require.NoError(t, err)
	assert.Equal(t, []Target{
		{URL: "https://acme.test", Company: "Acme"},
		{URL: "https://globex.test"},
	}, ts)

	_, err = Parse(strings.NewReader("name\nacme\n"), ".csv")
	assert.Error(t, err)
}

func TestParseNDJSON(t *testing.T) {
	in := `{"url": "https://acme.test", "company": "Acme"}

https://globex.test
{"name": "no url"}
`
	ts, err := Parse(strings.NewReader(in), ".ndjson")
	require.NoError(t, err)
	require.Len(t, ts, 3)
	assert.Equal(t, Target{URL: "https://acme.test", Company: "Acme"}, ts[0])
	assert.Equal(t, "https://globex.test", ts[1].URL)
	assert.Equal(t, `{"name": "no url"}`, ts[2].URL)

	_, err = Parse(strings.NewReader("\n\n"), ".jsonl")
	assert.Error(t, err)
}

func TestParseSniff(t *testing.T) {
	ts, err := Parse(strings.NewReader("url\nhttps://acme.test\n"), "")
	require.NoError(t, err)
	assert.Equal(t, []Target{{URL: "https://acme.test"}}, ts)

	ts, err = Parse(strings.NewReader(`{"url": "https://acme.test"}`+"\n"), ".txt")
	require.NoError(t, err)
	assert.Equal(t, []Target{{URL: "https://acme.test"}}, ts)
}

func TestReadTargetsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sites.csv")
	require.NoError(t, os.WriteFile(path, []byte("url\nhttps://acme.test\n"), 0o600))
	ts, err := ReadTargets(path)
	require.NoError(t, err)
	assert.Len(t, ts, 1)

	_, err = ReadTargets(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestWriteNDJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteNDJSON(&buf, []Result{{URL: "a", Error: "boom"}, {URL: "b"}}))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.JSONEq(t, `{"url": "a", "error": "boom", "ms": 0}`, lines[0])
}

type slowMaker struct {
	inFlight, peak atomic.Int32
}

func (m *slowMaker) Create(ctx context.Context, company, url string) (*models.Brochure, error) {
	n := m.inFlight.Add(1)
	defer m.inFlight.Add(-1)
	for {
		p := m.peak.Load()
		if n <= p || m.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(10 * time.Millisecond)
	if strings.Contains(url, "bad") {
		return nil, errors.New("http status 500")
	}
	return &models.Brochure{Company: company, URL: url, Markdown: "# " + company}, nil
}

func TestRunBrochures(t *testing.T) {
	m := &slowMaker{}
	targets := []Target{
		{URL: "https://a.test", Company: "A"},
		{URL: "https://bad.test", Company: "B"},
		{URL: "https://c.test", Company: "C"},
		{URL: "https://d.test", Company: "D"},
	}
	res := RunBrochures(context.Background(), m, targets, 2, nil)

	require.Len(t, res, 4)
	for i, r := range res {
		assert.Equal(t, targets[i].URL, r.URL)
	}
	assert.Equal(t, "# A", res[0].Brochure.Markdown)
	assert.Equal(t, "http status 500", res[1].Error)
	assert.Nil(t, res[1].Brochure)
	assert.Equal(t, "# D", res[3].Brochure.Markdown)
	assert.LessOrEqual(t, m.peak.Load(), int32(2))
}
