package session

import (
	"io"
	"log/slog"
	"sync"

	"github.com/pollaroo/pollaroo-go/pkg/observer"
)

// Store is the single source of truth for who is logged in. All mutation goes
// through its operations; consumers either poll Snapshot or Subscribe for
// synchronous change notifications.
//
// Operations overlap freely: each claims a sequence number when it starts, and
// a resolution is discarded when a newer operation has started since. The
// latest user-initiated action wins, regardless of the order responses arrive
// in.
type Store struct {
	api API
	log *slog.Logger

	// mu serializes state changes together with their notifications, so
	// subscribers observe mutations in a single global order, exactly once
	// each. Store operations must not be called synchronously from inside a
	// subscriber callback.
	mu      sync.Mutex
	snap    Snapshot
	nextSeq uint64
	hub     *observer.Hub[Snapshot]
}

// New creates a logged-out store driving the given API client.
func New(api API, opts ...Option) *Store {
	if api == nil {
		panic("session: nil api client")
	}
	s := &Store{
		api: api,
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
		hub: observer.New[Snapshot](),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns the current session state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// Status returns the coarse session state derived from the current snapshot.
func (s *Store) Status() Status {
	return s.Snapshot().status()
}

// Subscribe registers fn to run synchronously after every state change, with
// the snapshot that change produced. Callbacks run in subscription order. The
// returned function unsubscribes; calling it from within fn is safe.
//
// Callbacks must not invoke store operations synchronously; hand work that
// needs one off to another goroutine.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	return s.hub.Subscribe(fn)
}

// begin claims a sequence number for a starting operation and publishes the
// in-flight snapshot: loading, previous error cleared.
func (s *Store) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSeq++
	s.snap.Loading = true
	s.snap.Err = ""
	s.snap.Seq = s.nextSeq
	s.hub.Notify(s.snap)
	return s.nextSeq
}

// settle finishes the operation that claimed seq. When a newer operation has
// started since, the resolution is stale: nothing is written or notified, and
// the newer operation owns the final loading transition. Returns whether the
// resolution was applied.
func (s *Store) settle(seq uint64, apply func(*Snapshot)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.nextSeq {
		s.log.Debug("stale session operation dropped",
			slog.Uint64("seq", seq), slog.Uint64("current", s.nextSeq))
		return false
	}
	s.applyLocked(seq, apply)
	return true
}

// settleAlways finishes the operation that claimed seq even when it is stale.
// Only logout uses this: its local effect must land no matter what else is in
// flight; a newer operation that resolves later still overwrites it.
func (s *Store) settleAlways(seq uint64, apply func(*Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyLocked(seq, apply)
}

func (s *Store) applyLocked(seq uint64, apply func(*Snapshot)) {
	apply(&s.snap)
	s.snap.Loading = false
	s.snap.Seq = seq
	s.hub.Notify(s.snap)
}

// publish claims a sequence number and applies a synchronous, settled state
// change in one step. Used by the paths that never touch the network.
func (s *Store) publish(apply func(*Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSeq++
	apply(&s.snap)
	s.snap.Loading = false
	s.snap.Seq = s.nextSeq
	s.hub.Notify(s.snap)
}
