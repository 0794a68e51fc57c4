package tools

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var ErrNoURL = errors.New("no URL provided")

// urlArg decodes args and returns the normalised URL stored under key.
func urlArg(args json.RawMessage, key string) (string, error) {
	var m map[string]any
	if err := json.Unmarshal(args, &m); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}
	s, _ := m[key].(string)
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("%w: %s is required", ErrNoURL, key)
	}
	return NormalizeURL(s)
}

// NormalizeURL adds https:// when no scheme is given and lower-cases scheme
// and host. Paths keep their case.
func NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid url %q: %w", raw, err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid url %q: missing host", raw)
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	return u.String(), nil
}

func stringSchema(key, description string) map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			key: map[string]any{
				"type":        "string",
				"description": description,
			},
		},
		"required":             []string{key},
		"additionalProperties": false,
	}
}
