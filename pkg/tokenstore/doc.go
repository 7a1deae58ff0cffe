// Package tokenstore persists bearer token pairs across process restarts.
//
// Credentials are keyed by API origin (scheme://host[:port]) so one store can
// hold logins for several Pollaroo deployments at once, the way a browser
// scopes its storage per origin.
//
// # Implementations
//
//   - MemoryStore: process-local, for tests and throwaway sessions.
//   - FileStore: a 0600 JSON file under the user's config directory, for CLI
//     use. Writes are atomic.
//   - RedisStore: a Redis hash per origin, for processes sharing credentials.
//
// # Usage
//
//	path, _ := tokenstore.DefaultPath()
//	store, err := tokenstore.NewFileStore(path)
//	if err != nil {
//		return err
//	}
//
//	client, err := apiclient.New(cfg, apiclient.WithTokenStore(store))
//
// Stores return ErrNotFound for origins with no saved pair; callers treat
// that as the logged-out state, not a failure.
package tokenstore
