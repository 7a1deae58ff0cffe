package apiclient

import (
	"context"
	"net/http"

	"github.com/pollaroo/pollaroo-go/pkg/logger"
	"github.com/pollaroo/pollaroo-go/pkg/tokenstore"
)

// Login authenticates with a username or email plus password. On success the
// issued token pair is installed and persisted, making every subsequent call
// authenticated.
func (c *Client) Login(ctx context.Context, login, password string) (*AuthResponse, error) {
	body := struct {
		Login    string `json:"login"`
		Password string `json:"password"`
	}{Login: login, Password: password}

	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, pathLogin, nil, body, &resp); err != nil {
		return nil, err
	}

	c.SetTokens(ctx, tokenstore.Pair{Access: resp.Tokens.Access, Refresh: resp.Tokens.Refresh})
	c.log.InfoContext(ctx, "logged in", logger.UserID(resp.User.ID))
	return &resp, nil
}

// Register creates an account. Like Login, a successful registration
// installs the issued token pair immediately.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, pathRegister, nil, req, &resp); err != nil {
		return nil, err
	}

	c.SetTokens(ctx, tokenstore.Pair{Access: resp.Tokens.Access, Refresh: resp.Tokens.Refresh})
	c.log.InfoContext(ctx, "registered", logger.UserID(resp.User.ID))
	return &resp, nil
}

// Logout tells the server the session is over and drops local credentials.
// Credentials are cleared even when the server call fails; the returned
// error only reports whether the server acknowledged.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, pathLogout, nil, struct{}{}, nil)
	c.ClearTokens(ctx)
	if err != nil {
		return err
	}
	c.log.InfoContext(ctx, "logged out")
	return nil
}

// Profile fetches the authenticated user's profile.
func (c *Client) Profile(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, pathProfile, nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile applies a partial profile change and returns the updated
// profile.
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodPut, pathProfileUpdate, nil, update, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
