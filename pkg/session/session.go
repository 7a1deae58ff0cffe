package session

import (
	"context"

	"github.com/pollaroo/pollaroo-go/pkg/apiclient"
)

// API is the slice of the gateway client the store drives. *apiclient.Client
// satisfies it; tests substitute stubs to script failures and slow responses.
type API interface {
	Login(ctx context.Context, login, password string) (*apiclient.AuthResponse, error)
	Register(ctx context.Context, req apiclient.RegisterRequest) (*apiclient.AuthResponse, error)
	Logout(ctx context.Context) error
	Profile(ctx context.Context) (*apiclient.User, error)
	UpdateProfile(ctx context.Context, update apiclient.ProfileUpdate) (*apiclient.User, error)
	HasToken() bool
	ClearTokens(ctx context.Context)
}

// Snapshot is one observed state of the session. Snapshots are values; the
// store hands out copies and never mutates one after publishing it. The User
// pointer is shared across copies and must be treated as read-only.
type Snapshot struct {
	// User is the authenticated account, nil when logged out.
	User *apiclient.User
	// Loading is true while an operation is waiting on the server.
	Loading bool
	// Err is the user-facing message of the last failed operation, empty
	// after a success or ClearError.
	Err string
	// Seq identifies the operation that produced this snapshot. Observers
	// comparing snapshots can use it to detect out-of-order delivery.
	Seq uint64
}

// Authenticated reports whether a user is logged in. It is derived from User,
// so the two can never disagree.
func (s Snapshot) Authenticated() bool {
	return s.User != nil
}

// Status is the coarse session state.
type Status int

const (
	// StatusUnauthenticated means no user is logged in.
	StatusUnauthenticated Status = iota
	// StatusAuthenticating means no user is logged in yet and an operation
	// is in flight.
	StatusAuthenticating
	// StatusAuthenticated means a user is logged in, whether or not an
	// operation is in flight.
	StatusAuthenticated
)

func (s Status) String() string {
	switch s {
	case StatusAuthenticating:
		return "authenticating"
	case StatusAuthenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// status derives the coarse state from a snapshot.
func (s Snapshot) status() Status {
	switch {
	case s.Authenticated():
		return StatusAuthenticated
	case s.Loading:
		return StatusAuthenticating
	default:
		return StatusUnauthenticated
	}
}
