package apiclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/pollaroo/pollaroo-go/pkg/cache"
	"github.com/pollaroo/pollaroo-go/pkg/logger"
	"github.com/pollaroo/pollaroo-go/pkg/tokenstore"
)

// Endpoint paths, relative to the configured base URL. The server routes
// with trailing slashes.
const (
	pathRegister      = "/auth/register/"
	pathLogin         = "/auth/login/"
	pathLogout        = "/auth/logout/"
	pathProfile       = "/auth/profile/"
	pathProfileUpdate = "/auth/me/update/"
	pathPolls         = "/polls/"
	pathPollCreate    = "/polls/create/"
	pathMyPolls       = "/polls/my-polls/"
)

func pathPoll(id int64) string        { return fmt.Sprintf("/polls/%d/", id) }
func pathPollUpdate(id int64) string  { return fmt.Sprintf("/polls/%d/update/", id) }
func pathPollDelete(id int64) string  { return fmt.Sprintf("/polls/%d/delete/", id) }
func pathPollVote(id int64) string    { return fmt.Sprintf("/polls/%d/vote/", id) }
func pathPollResults(id int64) string { return fmt.Sprintf("/polls/%d/results/", id) }
func pathPollShare(id int64) string   { return fmt.Sprintf("/polls/%d/share/", id) }

// Client is the only component that talks to the Pollaroo backend. It injects
// bearer credentials, normalizes failures into *Error values, and invalidates
// credentials on 401 responses. Safe for concurrent use.
type Client struct {
	baseURL    *url.URL
	origin     string
	httpClient *http.Client
	userAgent  string
	log        *slog.Logger
	store      tokenstore.Store
	responses  *cache.TTLCache[string, []byte]
	retry      retryConfig

	mu     sync.RWMutex
	tokens tokenstore.Pair
}

type retryConfig struct {
	maxAttempts int
	baseDelay   time.Duration
}

// New creates a client for the API at cfg.BaseURL. When a token store is
// configured, previously saved credentials for this origin are loaded so the
// session survives process restarts; a failed load only means starting
// logged out.
func New(cfg Config, opts ...Option) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, errors.Join(ErrInvalidBaseURL, err)
	}
	if (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, cfg.BaseURL)
	}
	base.Path = strings.TrimSuffix(base.Path, "/")

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "pollaroo-go/1.0"
	}

	c := &Client{
		baseURL: base,
		origin:  base.Scheme + "://" + base.Host,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		userAgent: userAgent,
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.store != nil {
		pair, err := c.store.Load(context.Background(), c.origin)
		switch {
		case err == nil:
			c.tokens = pair
		case errors.Is(err, tokenstore.ErrNotFound):
			// First run on this origin.
		default:
			c.log.Warn("stored credentials unavailable, starting logged out", logger.Error(err))
		}
	}

	return c, nil
}

// Origin returns the scheme://host[:port] this client's credentials are
// keyed by.
func (c *Client) Origin() string { return c.origin }

// HasToken reports whether an access token is currently held.
func (c *Client) HasToken() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tokens.Access != ""
}

// Token returns the held access token, or "" when logged out. For callers
// that need the raw bearer value, such as websocket handshakes; prefer
// TokenInfo for inspection.
func (c *Client) Token() string {
	return c.accessToken()
}

// SetTokens installs a credential pair and persists it when a token store is
// configured. Persistence failures are logged, not returned: the in-memory
// session is already usable.
func (c *Client) SetTokens(ctx context.Context, pair tokenstore.Pair) {
	c.mu.Lock()
	c.tokens = pair
	c.mu.Unlock()

	// Cached responses belong to the previous identity.
	if c.responses != nil {
		c.responses.Clear()
	}

	if c.store == nil {
		return
	}
	if err := c.store.Save(context.WithoutCancel(ctx), c.origin, pair); err != nil {
		c.log.Warn("failed to persist credentials", logger.Error(err))
	}
}

// ClearTokens drops the held credential pair and removes any persisted copy.
func (c *Client) ClearTokens(ctx context.Context) {
	c.mu.Lock()
	c.tokens = tokenstore.Pair{}
	c.mu.Unlock()

	if c.responses != nil {
		c.responses.Clear()
	}

	if c.store == nil {
		return
	}
	if err := c.store.Clear(context.WithoutCancel(ctx), c.origin); err != nil {
		c.log.Warn("failed to clear persisted credentials", logger.Error(err))
	}
}

func (c *Client) accessToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tokens.Access
}
