// Package timeouts holds the deadlines applied to store calls.
//
// Every handler wraps its single store call in context.WithTimeout using one
// of these values, so a slow or hung database stalls a request for a bounded
// time instead of indefinitely.
//
//   - Ping: health checks
//   - Short: single-document reads and writes (find one, insert, update, delete)
//   - Medium: list queries
//   - Connect: initial database connection at startup
package timeouts

import (
	"context"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Default timeout values (used if Configure is not called).
const (
	DefaultPing    = 2 * time.Second
	DefaultShort   = 5 * time.Second
	DefaultMedium  = 10 * time.Second
	DefaultConnect = 10 * time.Second
)

// Config holds timeout values. Zero values are ignored by Configure.
type Config struct {
	Ping    time.Duration
	Short   time.Duration
	Medium  time.Duration
	Connect time.Duration
}

var (
	mu      sync.RWMutex
	current = defaults()
)

func defaults() Config {
	return Config{
		Ping:    DefaultPing,
		Short:   DefaultShort,
		Medium:  DefaultMedium,
		Connect: DefaultConnect,
	}
}

// Ping returns the timeout for connectivity checks.
func Ping() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return current.Ping
}

// Short returns the timeout for single-document operations.
func Short() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return current.Short
}

// Medium returns the timeout for list queries.
func Medium() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return current.Medium
}

// Connect returns the timeout for the startup database connection.
func Connect() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return current.Connect
}

// Configure overrides the non-zero values of cfg.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	if cfg.Ping > 0 {
		current.Ping = cfg.Ping
	}
	if cfg.Short > 0 {
		current.Short = cfg.Short
	}
	if cfg.Medium > 0 {
		current.Medium = cfg.Medium
	}
	if cfg.Connect > 0 {
		current.Connect = cfg.Connect
	}
}

// Reset restores the defaults. Useful for testing.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	current = defaults()
}

// Current returns the active configuration.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// ConfigureFromEnv reads TIMEOUT_PING, TIMEOUT_SHORT, TIMEOUT_MEDIUM and
// TIMEOUT_CONNECT (Go duration strings such as "3s" or "500ms"). Unset or
// invalid values are skipped. It returns how many values were applied.
func ConfigureFromEnv() int {
	var cfg Config
	applied := 0
	for env, dst := range map[string]*time.Duration{
		"TIMEOUT_PING":    &cfg.Ping,
		"TIMEOUT_SHORT":   &cfg.Short,
		"TIMEOUT_MEDIUM":  &cfg.Medium,
		"TIMEOUT_CONNECT": &cfg.Connect,
	} {
		v := os.Getenv(env)
		if v == "" {
			continue
		}
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			*dst = d
			applied++
		}
	}
	Configure(cfg)
	return applied
}

// WithTimeout is context.WithTimeout whose cancel func logs a warning when
// the deadline was hit, naming the operation.
func WithTimeout(parent context.Context, timeout time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		if ctx.Err() == context.DeadlineExceeded && log != nil {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", timeout),
			)
		}
		cancel()
	}
}
