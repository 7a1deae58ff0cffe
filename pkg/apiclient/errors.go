package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrInvalidBaseURL is returned by New for base URLs that are not absolute http(s) URLs.
	ErrInvalidBaseURL = errors.New("apiclient: invalid base URL")

	// ErrNoToken is returned by TokenInfo when no access token is held.
	ErrNoToken = errors.New("apiclient: no access token")
)

// User-facing messages for failures the server never described in a body.
// The UI layer shows Error.Message verbatim, so these read as sentences.
const (
	msgUnreachable    = "Cannot reach server. Please check your connection."
	msgNetwork        = "Network error. Please try again."
	msgSessionExpired = "Session expired. Please log in again."
)

// Kind classifies an API failure.
type Kind int

const (
	// KindBusiness means the server handled the request and rejected it,
	// returning a 4xx/5xx with an error payload.
	KindBusiness Kind = iota + 1
	// KindUnauthorized means the server returned 401. Local credentials are
	// invalidated before the error is returned.
	KindUnauthorized
	// KindTransport means a response arrived but could not be used, such as
	// undecodable JSON.
	KindTransport
	// KindUnreachable means no usable response arrived at all.
	KindUnreachable
)

func (k Kind) String() string {
	switch k {
	case KindBusiness:
		return "business"
	case KindUnauthorized:
		return "unauthorized"
	case KindTransport:
		return "transport"
	case KindUnreachable:
		return "unreachable"
	default:
		return "unknown"
	}
}

// Error is the single error type returned for failed API calls. Message is
// safe to show to end users; Fields carries per-field validation messages
// when the server provided them.
type Error struct {
	Kind      Kind
	Status    int    // HTTP status, 0 when no response was received
	Message   string // user-facing description
	Fields    map[string][]string
	Endpoint  string // "METHOD /path/"
	RequestID string

	err error // underlying cause, if any
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("apiclient: %s: %s (%s, status %d)", e.Endpoint, e.Message, e.Kind, e.Status)
	}
	return fmt.Sprintf("apiclient: %s: %s (%s)", e.Endpoint, e.Message, e.Kind)
}

func (e *Error) Unwrap() error { return e.err }

// AsError unwraps err into an *Error when one is in the chain.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	ok := errors.As(err, &apiErr)
	return apiErr, ok
}

func isKind(err error, k Kind) bool {
	apiErr, ok := AsError(err)
	return ok && apiErr.Kind == k
}

// IsBusiness reports whether err is a server-side rejection.
func IsBusiness(err error) bool { return isKind(err, KindBusiness) }

// IsUnauthorized reports whether err is a 401, meaning credentials were
// invalidated.
func IsUnauthorized(err error) bool { return isKind(err, KindUnauthorized) }

// IsTransport reports whether err is a malformed-response failure.
func IsTransport(err error) bool { return isKind(err, KindTransport) }

// IsUnreachable reports whether err means the server could not be reached.
func IsUnreachable(err error) bool { return isKind(err, KindUnreachable) }

// normalizeErrorBody extracts a user-facing message and any per-field
// validation errors from an error response body. Servers are inconsistent:
// bodies arrive as {"message": ...}, {"error": ...}, {"detail": ...}, as bare
// field maps like {"option_id": ["Invalid option ID"]}, or as plain string
// arrays. Precedence for the message is message, then error, then detail,
// then the first non-field error.
func normalizeErrorBody(data []byte) (message string, fields map[string][]string) {
	if len(data) == 0 {
		return "", nil
	}

	var object map[string]json.RawMessage
	if err := json.Unmarshal(data, &object); err == nil {
		return normalizeErrorObject(object)
	}

	// DRF renders some validation failures as a top-level string array.
	var list []string
	if err := json.Unmarshal(data, &list); err == nil && len(list) > 0 {
		return list[0], nil
	}

	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		return plain, nil
	}

	return "", nil
}

func normalizeErrorObject(object map[string]json.RawMessage) (string, map[string][]string) {
	var message string
	for _, key := range []string{"message", "error", "detail"} {
		raw, ok := object[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && s != "" {
			message = s
			break
		}
	}

	fields := make(map[string][]string)

	// Registration failures nest field errors under "errors"; bare
	// serializer output puts them at the top level.
	if raw, ok := object["errors"]; ok {
		collectFieldErrors(raw, fields)
	}
	for key, raw := range object {
		switch key {
		case "message", "error", "detail", "errors", "code":
			continue
		}
		if msgs := decodeMessages(raw); len(msgs) > 0 {
			fields[key] = msgs
		}
	}

	if message == "" {
		if msgs := fields["non_field_errors"]; len(msgs) > 0 {
			message = msgs[0]
		}
	}
	if len(fields) == 0 {
		fields = nil
	}
	return message, fields
}

func collectFieldErrors(raw json.RawMessage, fields map[string][]string) {
	var nested map[string]json.RawMessage
	if err := json.Unmarshal(raw, &nested); err != nil {
		return
	}
	for key, val := range nested {
		if msgs := decodeMessages(val); len(msgs) > 0 {
			fields[key] = msgs
		}
	}
}

func decodeMessages(raw json.RawMessage) []string {
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil && single != "" {
		return []string{single}
	}
	return nil
}
