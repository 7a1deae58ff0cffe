// Package session holds the authentication state of a Pollaroo client: the
// logged-in user, whether an operation is in flight, and the last failure
// message. It is the single source of truth UI layers render from.
//
// # Architecture
//
// A Store wraps the gateway client (through the API interface) and publishes
// immutable Snapshot values. Every operation follows the same shape: claim a
// sequence number, publish a loading snapshot, call the API, and settle with
// the result. Subscribers registered through Subscribe are invoked
// synchronously after each change, in subscription order, with the snapshot
// that change produced.
//
// Operations may overlap. The sequence number decides who wins: a resolution
// arriving after a newer operation has started is dropped, so the latest
// user-initiated action determines the final state no matter how responses
// are reordered by the network. Logout is the one exception; its local clear
// always lands.
//
// # Usage
//
//	store := session.New(client, session.WithLogger(log))
//
//	unsubscribe := store.Subscribe(func(snap session.Snapshot) {
//		render(snap) // called synchronously on every change
//	})
//	defer unsubscribe()
//
//	_ = store.LoadUser(ctx) // rehydrate persisted credentials, if any
//
//	if err := store.Login(ctx, "maria", "s3cret"); err != nil {
//		// store.Snapshot().Err already carries the user-facing message
//	}
//
// # Reentrancy
//
// State changes and their notifications are serialized under one lock, so a
// callback that calls a Store operation synchronously will deadlock.
// Subscribing and unsubscribing from inside a callback is fine. Callbacks
// that need to trigger an operation must do so from another goroutine.
package session
