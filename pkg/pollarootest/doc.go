// Package pollarootest runs an in-process Pollaroo backend for tests.
//
// The fake reproduces the real API's observable behavior, including its
// rough edges: trailing-slash routes, bearer-token auth with DRF-style 401
// bodies, nested field errors on registration, bare validation arrays on
// invalid votes, and ownership checks that report foreign resources as 404.
//
// # Usage
//
//	backend := pollarootest.New()
//	defer backend.Close()
//
//	user := backend.SeedUser("maria", "maria@example.com", "s3cret")
//	pollID, optionIDs := backend.SeedPoll(pollarootest.PollSeed{
//		Creator: user,
//		Title:   "Lunch?",
//		Options: []string{"Ramen", "Tacos"},
//	})
//
//	client, _ := apiclient.New(apiclient.Config{BaseURL: backend.URL()})
//
// FailNext and IssueAccessToken exist to force the paths that are hard to
// reach through the front door: transient 5xx bursts and expired or
// foreign-signed tokens.
package pollarootest
