package apiclient

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/pollaroo/pollaroo-go/pkg/cache"
	"github.com/pollaroo/pollaroo-go/pkg/tokenstore"
)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client, for custom transports or
// tests. Nil clients are ignored.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTokenStore persists credentials across restarts. The store is read
// once at construction and written on every token change.
func WithTokenStore(s tokenstore.Store) Option {
	return func(c *Client) { c.store = s }
}

// WithLogger attaches a structured logger. Requests log at debug level,
// failures at warn.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// WithCache enables response caching for GET endpoints. Entries expire after
// ttl and any successful mutation invalidates the affected group, so reads
// after writes stay coherent within one client.
func WithCache(capacity int, ttl time.Duration) Option {
	return func(c *Client) {
		c.responses = cache.NewTTL[string, []byte](capacity, ttl)
	}
}

// WithRetry retries idempotent GET requests up to maxAttempts times on
// unreachable-server failures and 5xx responses, backing off exponentially
// from baseDelay. Mutating requests are never retried.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(c *Client) {
		if maxAttempts > 1 {
			c.retry = retryConfig{maxAttempts: maxAttempts, baseDelay: baseDelay}
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}
