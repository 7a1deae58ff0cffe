package tokenstore

import "context"

// Pair holds the bearer credentials issued for one API origin.
type Pair struct {
	Access  string
	Refresh string
}

// Empty reports whether the pair carries no credentials.
func (p Pair) Empty() bool {
	return p.Access == "" && p.Refresh == ""
}

// Store persists token pairs keyed by API origin
// (scheme://host[:port]), so credentials for different deployments of the
// same service never collide.
type Store interface {
	// Load returns the pair stored for origin, or ErrNotFound.
	Load(ctx context.Context, origin string) (Pair, error)

	// Save stores the pair for origin, replacing any previous one.
	Save(ctx context.Context, origin string, pair Pair) error

	// Clear removes the pair for origin. Clearing an absent origin is not
	// an error.
	Clear(ctx context.Context, origin string) error
}
