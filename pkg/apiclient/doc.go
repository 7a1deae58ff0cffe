// Package apiclient is the single gateway to the Pollaroo REST API.
//
// All HTTP egress in the SDK flows through Client. It owns the bearer
// credentials: tokens issued by Login and Register are attached to every
// later request, persisted through an optional token store, and dropped the
// moment any endpoint answers 401.
//
// # Architecture
//
// Client wraps one http.Client and a fixed endpoint surface (auth.go,
// polls.go). The request path lives in request.go: build URL, stamp
// X-Request-ID, inject Authorization, execute, then normalize the outcome.
// Success decodes into a typed response; failure becomes an *Error tagged
// with a Kind:
//
//   - KindBusiness: the server rejected the request (4xx/5xx with a payload)
//   - KindUnauthorized: a 401; credentials were invalidated locally
//   - KindTransport: a response arrived but was unusable
//   - KindUnreachable: no response at all
//
// The error's Message is ready for end users; Fields carries per-field
// validation messages when the server sent them.
//
// # Usage
//
//	client, err := apiclient.New(cfg,
//		apiclient.WithTokenStore(store),
//		apiclient.WithLogger(log),
//		apiclient.WithCache(128, 30*time.Second),
//	)
//	if err != nil {
//		return err
//	}
//
//	if _, err := client.Login(ctx, "maria", "s3cret"); err != nil {
//		var apiErr *apiclient.Error
//		if errors.As(err, &apiErr) {
//			fmt.Println(apiErr.Message) // safe to show
//		}
//	}
//
//	polls, err := client.ListPolls(ctx, apiclient.PollFilter{Status: apiclient.StatusActive})
//
// # Error Handling
//
// Methods never panic and never return partial results with a nil error.
// Use the Kind helpers (IsUnauthorized, IsUnreachable, ...) or errors.As to
// branch on failure class.
package apiclient
