package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is looked up in the working directory.
const DefaultConfigFile = ".website-assistant.yaml"

// EnvAPIKey holds the OpenAI key.
const EnvAPIKey = "OPENAI_API_KEY"

var ErrInsecurePermissions = errors.New("credentials file has insecure permissions")

// FindConfigFile returns the first existing file among path (when set),
// ./.website-assistant.yaml and the XDG config file, or "".
func FindConfigFile(path string) string {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return path
		}
		return ""
	}
	for _, p := range []string{DefaultConfigFile, XDGConfigFile()} {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// LoadFile overlays the YAML file at path on the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := NewConfig()
	data, err := os.ReadFile(path) //nolint:gosec // user supplied path
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Load builds the effective configuration. An explicit path that does not
// exist is an error; a missing default file is not.
func Load(path string) (*Config, error) {
	// .env values override the process environment.
	if err := godotenv.Overload(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := NewConfig()
	if found := FindConfigFile(path); found != "" {
		var err error
		if cfg, err = LoadFile(found); err != nil {
			return nil, err
		}
	} else if path != "" {
		return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
	}

	key, err := ResolveAPIKey(cfg.APIKey, CredentialPaths())
	if err != nil {
		return nil, err
	}
	cfg.APIKey = key

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ResolveAPIKey picks the key from the environment, then the first
// credentials file found, then fallback.
func ResolveAPIKey(fallback string, credPaths []string) (string, error) {
	if k := os.Getenv(EnvAPIKey); k != "" {
		return k, nil
	}
	for _, p := range credPaths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		k, err := LoadCredentials(p)
		if err != nil {
			return "", err
		}
		if k != "" {
			return k, nil
		}
	}
	return fallback, nil
}

// CredentialPaths lists credentials.toml locations in priority order.
func CredentialPaths() []string {
	return []string{
		"credentials.toml",
		filepath.Join(filepath.Dir(XDGConfigFile()), "credentials.toml"),
	}
}

type credentials struct {
	OpenAI *struct {
		APIKey string `toml:"api_key"`
	} `toml:"openai"`
	LLM *struct {
		APIKey string `toml:"api_key"`
	} `toml:"llm"`
}

// LoadCredentials reads the OpenAI key from [openai] or [llm] in a TOML file
// readable only by its owner.
func LoadCredentials(path string) (string, error) {
	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		if err != nil {
			return "", err
		}
		if mode := info.Mode().Perm(); mode&0o077 != 0 {
			return "", fmt.Errorf("%w: %s has mode %04o (must be 0400 or 0600)", ErrInsecurePermissions, path, mode)
		}
	}

	var c credentials
	if _, err := toml.DecodeFile(path, &c); err != nil {
		return "", fmt.Errorf("parse %s: %w", path, err)
	}
	if c.OpenAI != nil && c.OpenAI.APIKey != "" {
		return c.OpenAI.APIKey, nil
	}
	if c.LLM != nil {
		return c.LLM.APIKey, nil
	}
	return "", nil
}
