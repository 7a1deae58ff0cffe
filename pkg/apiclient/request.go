package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pollaroo/pollaroo-go/pkg/logger"
	"github.com/pollaroo/pollaroo-go/pkg/requestid"
)

// maxResponseBody caps how much of a response is read. Poll payloads are
// small; anything larger is not a response this client understands.
const maxResponseBody = 1 << 20

// do executes one API request and decodes a 2xx response body into out (out
// may be nil for endpoints whose response is discarded). Every failure comes
// back as an *Error. GET responses are served from and stored into the
// response cache when one is configured; successful mutations invalidate it.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	ctx, reqID := requestid.Ensure(ctx)
	endpoint := method + " " + path

	cacheKey := ""
	if method == http.MethodGet && c.responses != nil {
		cacheKey = buildCacheKey(path, query)
		if data, ok := c.responses.Get(cacheKey); ok {
			c.log.DebugContext(ctx, "api cache hit", logger.Endpoint(method, path))
			if decErr := decodeInto(data, out, endpoint, reqID); decErr != nil {
				return decErr
			}
			return nil
		}
	}

	attempts := 1
	if method == http.MethodGet && c.retry.maxAttempts > 1 {
		attempts = c.retry.maxAttempts
	}

	var lastErr *Error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			delay := c.retry.baseDelay << (attempt - 1)
			select {
			case <-ctx.Done():
				return &Error{
					Kind:      KindUnreachable,
					Message:   msgUnreachable,
					Endpoint:  endpoint,
					RequestID: reqID,
					err:       ctx.Err(),
				}
			case <-time.After(delay):
			}
			c.log.DebugContext(ctx, "retrying api request",
				logger.Endpoint(method, path), logger.RetryCount(attempt))
		}

		data, apiErr := c.attempt(ctx, method, path, query, body, reqID, endpoint)
		if apiErr == nil {
			if decErr := decodeInto(data, out, endpoint, reqID); decErr != nil {
				return decErr
			}
			if cacheKey != "" {
				c.responses.Set(cacheKey, data)
			}
			if method != http.MethodGet {
				c.invalidate(path)
			}
			return nil
		}

		lastErr = apiErr
		if !retryable(apiErr) || attempt == attempts-1 {
			return apiErr
		}
	}
	return lastErr
}

// attempt performs a single HTTP exchange and returns the raw body on 2xx.
func (c *Client) attempt(ctx context.Context, method, path string, query url.Values, body any, reqID, endpoint string) ([]byte, *Error) {
	u := *c.baseURL
	u.Path += path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, &Error{
				Kind:      KindTransport,
				Message:   msgNetwork,
				Endpoint:  endpoint,
				RequestID: reqID,
				err:       err,
			}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, &Error{
			Kind:      KindTransport,
			Message:   msgNetwork,
			Endpoint:  endpoint,
			RequestID: reqID,
			err:       err,
		}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(requestid.Header, reqID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.accessToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.WarnContext(ctx, "api server unreachable",
			logger.Endpoint(method, path), logger.Error(err))
		return nil, &Error{
			Kind:      KindUnreachable,
			Message:   msgUnreachable,
			Endpoint:  endpoint,
			RequestID: reqID,
			err:       err,
		}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, &Error{
			Kind:      KindTransport,
			Status:    resp.StatusCode,
			Message:   msgNetwork,
			Endpoint:  endpoint,
			RequestID: reqID,
			err:       err,
		}
	}

	c.log.DebugContext(ctx, "api response",
		logger.Endpoint(method, path),
		logger.Status(resp.StatusCode),
		logger.Duration(time.Since(start)))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return data, nil

	case resp.StatusCode == http.StatusUnauthorized:
		// Global policy: any 401 means the credentials are dead. Drop them
		// so the next snapshot reads as logged out everywhere.
		c.ClearTokens(ctx)
		var cause error
		if serverMsg, _ := normalizeErrorBody(data); serverMsg != "" {
			cause = errors.New(serverMsg)
		}
		c.log.WarnContext(ctx, "credentials rejected, session cleared",
			logger.Endpoint(method, path), logger.Error(cause))
		return nil, &Error{
			Kind:      KindUnauthorized,
			Status:    resp.StatusCode,
			Message:   msgSessionExpired,
			Endpoint:  endpoint,
			RequestID: reqID,
			err:       cause,
		}

	default:
		message, fields := normalizeErrorBody(data)
		if message == "" {
			message = fmt.Sprintf("Request failed with status %d.", resp.StatusCode)
		}
		return nil, &Error{
			Kind:      KindBusiness,
			Status:    resp.StatusCode,
			Message:   message,
			Fields:    fields,
			Endpoint:  endpoint,
			RequestID: reqID,
		}
	}
}

func decodeInto(data []byte, out any, endpoint, reqID string) *Error {
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &Error{
			Kind:      KindTransport,
			Message:   msgNetwork,
			Endpoint:  endpoint,
			RequestID: reqID,
			err:       err,
		}
	}
	return nil
}

func retryable(apiErr *Error) bool {
	return apiErr.Kind == KindUnreachable ||
		(apiErr.Kind == KindBusiness && apiErr.Status >= 500)
}

func buildCacheKey(path string, query url.Values) string {
	if len(query) == 0 {
		return path
	}
	return path + "?" + query.Encode()
}

// invalidate drops cached responses a successful mutation may have staled.
// Auth changes swap the whole identity, so everything goes; poll mutations
// only touch poll listings and details.
func (c *Client) invalidate(path string) {
	if c.responses == nil {
		return
	}
	if strings.HasPrefix(path, "/auth/") {
		c.responses.Clear()
		return
	}
	c.responses.DeleteFunc(func(key string) bool {
		return strings.HasPrefix(key, pathPolls)
	})
}
