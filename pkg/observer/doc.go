// Package observer implements a minimal synchronous publish/subscribe hub.
//
// Unlike channel-based broadcasters, delivery is a plain function call on the
// notifying goroutine: Notify(v) invokes every registered callback with v, in
// registration order, and returns only after the last one finishes. That makes
// the hub suitable for state containers whose subscribers must observe every
// transition in order, with no buffering and no dropped values.
//
// # Usage
//
//	hub := observer.New[int]()
//
//	unsubscribe := hub.Subscribe(func(v int) {
//		fmt.Println("got", v)
//	})
//	defer unsubscribe()
//
//	hub.Notify(42)
//
// Unsubscribing is idempotent and safe from inside a callback, so a
// subscriber may remove itself while being notified. Callbacks should return
// quickly; a slow subscriber delays the notifier and every later subscriber.
package observer
