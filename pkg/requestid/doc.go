// Package requestid generates and propagates correlation IDs for outgoing
// API requests.
//
// The API client stamps every request with an X-Request-ID header. Callers
// that want to correlate a sequence of calls pin an ID on the context first:
//
//	ctx = requestid.WithContext(ctx, requestid.New())
//
// Ensure falls back to a generated UUID whenever the context carries no ID or
// an invalid one, so requests never leave without a usable header value.
package requestid
