// Package cache provides a generic in-memory LRU cache with optional
// per-entry time-to-live expiry.
//
// # Usage
//
//	responses := cache.NewTTL[string, []byte](256, 30*time.Second)
//
//	responses.Set("/polls/?status=active", body)
//	if body, ok := responses.Get("/polls/?status=active"); ok {
//		// serve cached copy
//	}
//
//	// Drop everything cached under a path after a mutation:
//	responses.DeleteFunc(func(key string) bool {
//		return strings.HasPrefix(key, "/polls/")
//	})
//
// All operations are safe for concurrent use. Expired entries are removed
// lazily when read, so Len may temporarily count entries that a Get would
// no longer return.
package cache
