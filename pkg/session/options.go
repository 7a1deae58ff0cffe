package session

import "log/slog"

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger for operational events such as swallowed logout
// failures and dropped stale resolutions. Nil logger is ignored.
func WithLogger(log *slog.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}
