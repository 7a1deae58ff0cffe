// Package async provides a small Future abstraction over goroutines for
// callers that start work eagerly and collect the result later.
//
//	profile := async.Run(ctx, client.Profile)
//	polls := async.Run(ctx, func(ctx context.Context) ([]apiclient.Poll, error) {
//		return client.ListPolls(ctx, apiclient.PollFilter{})
//	})
//
//	user, err := profile.Await()
//	list, err := polls.Await()
//
// Futures resolve exactly once and may be awaited from multiple goroutines.
package async
