package llm

import (
	"context"
	"fmt"
	"time"
)

const (
	defaultMaxRetries  = 3
	defaultInitBackoff = 1 * time.Second
	defaultMaxBackoff  = 30 * time.Second
	backoffFactor      = 2.0
)

// RetryConfig holds retry settings for model calls.
type RetryConfig struct {
	MaxRetries  int           `yaml:"max_retries"`
	InitBackoff time.Duration `yaml:"init_backoff"`
	MaxBackoff  time.Duration `yaml:"max_backoff"`
	// Retryable overrides the default error classification. Used by tests.
	Retryable func(error) bool `yaml:"-"`
}

func (c RetryConfig) withDefaults() RetryConfig {
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	} else if c.MaxRetries == 0 {
		c.MaxRetries = defaultMaxRetries
	}
	if c.InitBackoff <= 0 {
		c.InitBackoff = defaultInitBackoff
	}
	if c.MaxBackoff <= 0 {
		c.MaxBackoff = defaultMaxBackoff
	}
	if c.Retryable == nil {
		c.Retryable = retryable
	}
	return c
}

// do runs fn until it succeeds, fails permanently or retries run out.
// Zero retries (a negative MaxRetries before withDefaults) means one attempt.
func (c RetryConfig) do(ctx context.Context, fn func() error) error {
	backoff := c.InitBackoff
	for attempt := 0; ; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		if !c.Retryable(err) {
			return err
		}
		if attempt >= c.MaxRetries {
			return fmt.Errorf("giving up after %d retries: %w", attempt, err)
		}
		if err := sleep(ctx, backoff); err != nil {
			return err
		}
		backoff = time.Duration(float64(backoff) * backoffFactor)
		if backoff > c.MaxBackoff {
			backoff = c.MaxBackoff
		}
	}
}
