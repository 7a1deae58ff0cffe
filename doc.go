// Package pollaroo assembles a complete client for the Pollaroo polls
// service: a gateway client for the REST API, a session store for
// authentication state, and optional durable credential storage.
//
// Most programs only need the facade:
//
//	app, err := pollaroo.NewFromEnv(pollaroo.WithPersistentTokens())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if err := app.Session.LoadUser(ctx); err == nil && app.Session.Snapshot().Authenticated() {
//		polls, _ := app.Client.MyPolls(ctx)
//		// ...
//	}
//
// The pieces compose individually too; see pkg/apiclient, pkg/session, and
// pkg/tokenstore for the underlying building blocks, and pkg/pollarootest for
// an in-process fake backend to test against.
package pollaroo
