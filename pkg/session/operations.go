package session

import (
	"context"
	"errors"

	"github.com/pollaroo/pollaroo-go/pkg/apiclient"
	"github.com/pollaroo/pollaroo-go/pkg/logger"
)

// Login authenticates with a username or email plus password. On success the
// snapshot carries the logged-in user; on failure it carries the server's
// message and the user is unchanged. A nil return means the login landed.
func (s *Store) Login(ctx context.Context, identifier, password string) error {
	seq := s.begin()

	resp, err := s.api.Login(ctx, identifier, password)
	if err != nil {
		s.settle(seq, func(snap *Snapshot) {
			snap.Err = errMessage(err, msgLoginFailed)
		})
		return err
	}

	user := resp.User
	s.settle(seq, func(snap *Snapshot) {
		snap.User = &user
	})
	return nil
}

// Register creates an account. A successful registration is also a login: the
// new user is authenticated immediately.
func (s *Store) Register(ctx context.Context, req apiclient.RegisterRequest) error {
	seq := s.begin()

	resp, err := s.api.Register(ctx, req)
	if err != nil {
		s.settle(seq, func(snap *Snapshot) {
			snap.Err = errMessage(err, msgRegisterFailed)
		})
		return err
	}

	user := resp.User
	s.settle(seq, func(snap *Snapshot) {
		snap.User = &user
	})
	return nil
}

// Logout ends the session. The remote call is best-effort: whatever the
// server says, the local session is cleared and the call returns nil. Logging
// out is the one resolution that is never dropped as stale; an older
// operation that resolves afterwards is still discarded.
func (s *Store) Logout(ctx context.Context) error {
	seq := s.begin()

	if err := s.api.Logout(ctx); err != nil {
		s.log.WarnContext(ctx, "remote logout failed, session cleared locally", logger.Error(err))
	}

	s.settleAlways(seq, func(snap *Snapshot) {
		snap.User = nil
		snap.Err = ""
	})
	return nil
}

// LoadUser rehydrates the session at startup. Without a stored credential it
// settles to logged-out immediately, with no network call. With one, it
// fetches the profile; any failure destroys the credential so the next start
// skips the doomed request. A rejected token is an expected state, not an
// error: the snapshot's Err stays empty for it.
func (s *Store) LoadUser(ctx context.Context) error {
	if !s.api.HasToken() {
		s.publish(func(snap *Snapshot) {
			snap.User = nil
			snap.Err = ""
		})
		return nil
	}

	seq := s.begin()

	user, err := s.api.Profile(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			// The caller abandoned the load; the credential may still be
			// good, so keep it for the next attempt.
			s.settle(seq, func(snap *Snapshot) {})
			return err
		}

		s.api.ClearTokens(ctx)
		msg := ""
		if !apiclient.IsUnauthorized(err) {
			msg = errMessage(err, msgLoadFailed)
		}
		s.settle(seq, func(snap *Snapshot) {
			snap.User = nil
			snap.Err = msg
		})
		return err
	}

	s.settle(seq, func(snap *Snapshot) {
		snap.User = user
	})
	return nil
}

// UpdateProfile applies a partial profile change. On success the snapshot's
// user is replaced with the server's representation.
func (s *Store) UpdateProfile(ctx context.Context, update apiclient.ProfileUpdate) error {
	seq := s.begin()

	user, err := s.api.UpdateProfile(ctx, update)
	if err != nil {
		s.settle(seq, func(snap *Snapshot) {
			snap.Err = errMessage(err, msgUpdateFailed)
		})
		return err
	}

	s.settle(seq, func(snap *Snapshot) {
		snap.User = user
	})
	return nil
}

// ClearError blanks the snapshot's error message and notifies. It touches
// nothing else: no sequence number is claimed, so in-flight operations are
// unaffected.
func (s *Store) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap.Err = ""
	s.hub.Notify(s.snap)
}
