package apiclient

import "time"

// Config holds the client's connection settings, loadable from the
// environment via the config package.
type Config struct {
	// BaseURL is the API root, including the /api prefix.
	BaseURL string `env:"POLLAROO_BASE_URL" envDefault:"http://localhost:8000/api"`

	// Timeout bounds each HTTP request end to end.
	Timeout time.Duration `env:"POLLAROO_HTTP_TIMEOUT" envDefault:"15s"`

	// UserAgent identifies this client on the wire.
	UserAgent string `env:"POLLAROO_USER_AGENT" envDefault:"pollaroo-go/1.0"`
}
