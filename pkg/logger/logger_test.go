package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecureHandlerMasks(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "debug", "json")

	log.Info("calling model",
		"api_key", "whatever",
		"Authorization", "Bearer abc",
		"session_token", "t",
		"note", "key is sk-abcdefghijklmnopqrstuvwxyz",
		"key_prefix", "sk-proj-",
		"url", "https://acme.test",
		slog.Group("req", "x-api-key", "k", "path", "/v1"),
	)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, MaskValue, rec["api_key"])
	assert.Equal(t, MaskValue, rec["Authorization"])
	assert.Equal(t, MaskValue, rec["session_token"])
	assert.Equal(t, MaskValue, rec["note"])
	assert.Equal(t, "sk-proj-", rec["key_prefix"])
	assert.Equal(t, "https://acme.test", rec["url"])

	req := rec["req"].(map[string]any)
	assert.Equal(t, MaskValue, req["x-api-key"])
	assert.Equal(t, "/v1", req["path"])
}

func TestWithAttrsMasks(t *testing.T) {
	var buf bytes.Buffer
	log := &Logger{New(&buf, "info", "text").With("password", "hunter2")}
	log.Infof("started %d workers", 3)

	out := buf.String()
	assert.Contains(t, out, "started 3 workers")
	assert.Contains(t, out, MaskValue)
	assert.NotContains(t, out, "hunter2")
}

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "warn", "text")
	log.Info("hidden")
	log.Errorf("shown %s", "error")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown error")

	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}

func TestKeyPrefix(t *testing.T) {
	assert.Equal(t, "sk-proj-", KeyPrefix("sk-proj-0123456789"))
	assert.Equal(t, "short", KeyPrefix("short"))
}
