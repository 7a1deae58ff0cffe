package pollaroo

import (
	"io"
	"log/slog"

	"github.com/pollaroo/pollaroo-go/pkg/apiclient"
	"github.com/pollaroo/pollaroo-go/pkg/config"
	"github.com/pollaroo/pollaroo-go/pkg/session"
	"github.com/pollaroo/pollaroo-go/pkg/tokenstore"
)

// App is an assembled Pollaroo client: the gateway client that talks to the
// backend and the session store that tracks who is logged in. Both share the
// same credentials, so a login through either is visible to both.
type App struct {
	Client  *apiclient.Client
	Session *session.Store
}

// Option configures the assembly.
type Option func(*settings)

type settings struct {
	log        *slog.Logger
	tokens     tokenstore.Store
	tokensErr  error
	clientOpts []apiclient.Option
}

// WithLogger wires one logger through the client and the session store.
func WithLogger(log *slog.Logger) Option {
	return func(s *settings) {
		if log != nil {
			s.log = log
		}
	}
}

// WithTokenStore persists credentials in the given store, keyed by the API
// origin.
func WithTokenStore(store tokenstore.Store) Option {
	return func(s *settings) {
		s.tokens = store
	}
}

// WithPersistentTokens persists credentials in the default file store under
// the user's configuration directory. Shorthand for WithTokenStore with a
// FileStore at tokenstore.DefaultPath.
func WithPersistentTokens() Option {
	return func(s *settings) {
		path, err := tokenstore.DefaultPath()
		if err != nil {
			s.tokensErr = err
			return
		}
		store, err := tokenstore.NewFileStore(path)
		if err != nil {
			s.tokensErr = err
			return
		}
		s.tokens = store
	}
}

// WithClientOptions passes extra options through to the gateway client, such
// as apiclient.WithCache or apiclient.WithRetry.
func WithClientOptions(opts ...apiclient.Option) Option {
	return func(s *settings) {
		s.clientOpts = append(s.clientOpts, opts...)
	}
}

// New assembles an App for the API described by cfg. Without a token store
// option, credentials live in memory only and the session ends with the
// process.
func New(cfg apiclient.Config, opts ...Option) (*App, error) {
	s := settings{log: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&s)
	}
	if s.tokensErr != nil {
		return nil, s.tokensErr
	}

	clientOpts := []apiclient.Option{apiclient.WithLogger(s.log)}
	if s.tokens != nil {
		clientOpts = append(clientOpts, apiclient.WithTokenStore(s.tokens))
	}
	clientOpts = append(clientOpts, s.clientOpts...)

	client, err := apiclient.New(cfg, clientOpts...)
	if err != nil {
		return nil, err
	}

	return &App{
		Client:  client,
		Session: session.New(client, session.WithLogger(s.log)),
	}, nil
}

// NewFromEnv assembles an App from POLLAROO_* environment variables (and a
// .env file, when present).
func NewFromEnv(opts ...Option) (*App, error) {
	var cfg apiclient.Config
	if err := config.Load(&cfg); err != nil {
		return nil, err
	}
	return New(cfg, opts...)
}
