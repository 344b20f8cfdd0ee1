package source

import (
	"net/http"
	"time"

	"github.com/okian/crossdash/pkg/logger"
)

// Option applies a configuration option to the Loader.
type Option func(*Loader)

// WithHTTPClient sets the client used for http(s) sources.
func WithHTTPClient(c *http.Client) Option {
	return func(l *Loader) {
		if c != nil {
			l.client = c
		}
	}
}

// WithTimeout bounds a single load. Zero leaves it unbounded.
func WithTimeout(d time.Duration) Option {
	return func(l *Loader) {
		if d >= 0 {
			l.timeout = d
		}
	}
}

// WithPolicy selects how rows with unparseable numbers are treated.
func WithPolicy(policy string) Option {
	return func(l *Loader) { l.policy = policy }
}

// WithLogger sets the loader's logger.
func WithLogger(log logger.Logger) Option {
	return func(l *Loader) {
		if log != nil {
			l.log = log
		}
	}
}
