package apiclient

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenInfo is the readable part of the held access token. The client has no
// signing key, so claims are decoded without verification; they are good for
// display and expiry checks, never for trust decisions.
type TokenInfo struct {
	UserID    int64
	TokenType string
	ID        string // jti claim
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the token's exp claim is in the past.
func (t TokenInfo) Expired() bool {
	return !t.ExpiresAt.IsZero() && time.Now().After(t.ExpiresAt)
}

// TokenInfo decodes the claims of the currently held access token. Returns
// ErrNoToken when logged out.
func (c *Client) TokenInfo() (*TokenInfo, error) {
	token := c.accessToken()
	if token == "" {
		return nil, ErrNoToken
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("apiclient: malformed access token: %w", err)
	}

	info := &TokenInfo{}
	if v, ok := claims["user_id"].(float64); ok {
		info.UserID = int64(v)
	}
	if v, ok := claims["token_type"].(string); ok {
		info.TokenType = v
	}
	if v, ok := claims["jti"].(string); ok {
		info.ID = v
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		info.IssuedAt = iat.Time
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
	}
	return info, nil
}
