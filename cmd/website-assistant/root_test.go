package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"website-assistant/internal/app"
	"website-assistant/internal/config"
	"website-assistant/internal/llm"
	"website-assistant/internal/models"
)

func site(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		switch r.URL.Path {
		case "/":
			fmt.Fprint(w, `<html><head><title>Acme</title></head><body><p>Anvils</p>
				<a href="/careers">Jobs</a><a href="https://facebook.com/acme">fb</a></body></html>`)
		case "/careers":
			fmt.Fprint(w, `<html><head><title>Careers</title></head><body><p>We hire</p></body></html>`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(ts.Close)
	return ts
}

// run executes the root command with a mocked model and a temp config.
func run(t *testing.T, mock llm.Provider, stdin string, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(fmt.Sprintf("archive:\n  dir: %s\nscreenshot:\n  dir: %s\n", dir, dir)), 0o600))

	prev := buildApp
	buildApp = func(cfg *config.Config, log *slog.Logger) (*app.App, error) {
		return app.New(cfg, log, mock), nil
	}
	t.Cleanup(func() { buildApp = prev })

	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommands(t *testing.T) {
	cmd := NewRootCmd()
	assert.Equal(t, "website-assistant", cmd.Use)
	assert.NotEmpty(t, cmd.Version)
	assert.NotNil(t, cmd.PersistentFlags().Lookup("verbose"))

	names := map[string]bool{}
	for _, c := range cmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"chat", "serve", "details", "links", "social", "screenshot", "brochure", "history", "version"} {
		assert.True(t, names[want], want)
	}
}

func TestVersion(t *testing.T) {
	out, err := run(t, llm.NewMockProvider(), "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "website-assistant version")
}

func TestDetailsCmd(t *testing.T) {
	ts := site(t)
	mock := llm.NewMockProvider(llm.Text(`{"links": [{"type": "careers page", "url": "/careers"}]}`))

	out, err := run(t, mock, "", "details", ts.URL)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Landing page:\nWebpage Title:\nAcme\n"))
	assert.Contains(t, out, "\n\ncareers page\nWebpage Title:\nCareers\nWebpage Contents:\nWe hire\n\n")
}

func TestLinksCmd(t *testing.T) {
	ts := site(t)
	mock := llm.NewMockProvider(llm.Text(`{"links": [{"type": "careers page", "url": "/careers"}]}`))

	out, err := run(t, mock, "", "links", ts.URL)
	require.NoError(t, err)
	var sel models.LinkSelection
	require.NoError(t, json.Unmarshal([]byte(out), &sel))
	require.Len(t, sel.Links, 1)
	assert.Equal(t, ts.URL+"/careers", sel.Links[0].URL)
}

func TestSocialCmd(t *testing.T) {
	ts := site(t)
	out, err := run(t, llm.NewMockProvider(), "", "social", ts.URL)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"site": "Facebook", "url": "https://facebook.com/acme"}]`, out)

	out, err = run(t, llm.NewMockProvider(), "", "social", "--markdown", ts.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "# Social media links")
}

func TestChatCmd(t *testing.T) {
	mock := llm.NewMockProvider(llm.Text("Ask me about any website."))
	out, err := run(t, mock, "hello\n\nexit\n", "chat", "--variant", "brochure")
	require.NoError(t, err)
	assert.Contains(t, out, "website-assistant (brochure)")
	assert.Contains(t, out, "Ask me about any website.")
	assert.Equal(t, 1, mock.CallCount())

	_, err = run(t, mock, "", "chat", "--variant", "haiku")
	assert.Error(t, err)
}

func TestBrochureBatchAndHistory(t *testing.T) {
	ts := site(t)
	mock := llm.NewMockProvider()
	mock.ChatFunc = func(_ context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
		if req.JSONMode {
			return llm.Text(`{"links": []}`), nil
		}
		return llm.Text("# Brochure"), nil
	}

	input := filepath.Join(t.TempDir(), "sites.csv")
	require.NoError(t, os.WriteFile(input, []byte("company,url\nAcme,"+ts.URL+"\nGone,"+ts.URL+"/gone\n"), 0o600))

	out, err := run(t, mock, "", "brochure", "--input", input, "--concurrency", "2")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)

	var first, second map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, "Acme", first["company"])
	assert.Contains(t, second["error"], "404")

	out, err = run(t, mock, "", "brochure", "--company", "Acme", ts.URL)
	require.NoError(t, err)
	assert.Equal(t, "# Brochure\n", out)

	_, err = run(t, mock, "", "brochure")
	assert.Error(t, err)
}

func TestHistoryCmd(t *testing.T) {
	out, err := run(t, llm.NewMockProvider(), "", "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No brochures archived yet.")
}
