package pollarootest_test

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pollaroo/pollaroo-go/pkg/pollarootest"
)

func get(t *testing.T, url, token string) (int, []byte) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func post(t *testing.T, url, token, body string) (int, []byte) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func TestWireShapes(t *testing.T) {
	backend := pollarootest.New()
	defer backend.Close()
	user := backend.SeedUser("maria", "maria@example.com", "s3cret-pw")

	t.Run("missing credentials", func(t *testing.T) {
		status, body := get(t, backend.URL()+"/auth/profile/", "")
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.JSONEq(t, `{"detail": "Authentication credentials were not provided."}`, string(body))
	})

	t.Run("expired token", func(t *testing.T) {
		token := backend.IssueAccessToken(user.ID, -time.Minute)
		status, body := get(t, backend.URL()+"/auth/profile/", token)
		assert.Equal(t, http.StatusUnauthorized, status)

		var parsed map[string]string
		require.NoError(t, json.Unmarshal(body, &parsed))
		assert.Equal(t, "token_not_valid", parsed["code"])
	})

	t.Run("registration success shape", func(t *testing.T) {
		status, body := post(t, backend.URL()+"/auth/register/", "",
			`{"username": "joao", "email": "joao@example.com", "password": "pw", "password_confirm": "pw"}`)
		require.Equal(t, http.StatusCreated, status)

		var parsed struct {
			Message string `json:"message"`
			User    struct {
				ID       int64  `json:"id"`
				Username string `json:"username"`
			} `json:"user"`
			Tokens struct {
				Access  string `json:"access"`
				Refresh string `json:"refresh"`
			} `json:"tokens"`
		}
		require.NoError(t, json.Unmarshal(body, &parsed))
		assert.Equal(t, "Registration successful", parsed.Message)
		assert.Equal(t, "joao", parsed.User.Username)
		assert.NotZero(t, parsed.User.ID)
		assert.NotEmpty(t, parsed.Tokens.Access)
		assert.NotEmpty(t, parsed.Tokens.Refresh)
	})

	t.Run("invalid vote option is a bare list", func(t *testing.T) {
		pollID, _ := backend.SeedPoll(pollarootest.PollSeed{
			Creator: user, Title: "Lunch?", Options: []string{"A", "B"},
		})
		status, body := post(t, backend.URL()+"/polls/"+strconv.FormatInt(pollID, 10)+"/vote/", "", `{"option_id": 999}`)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.JSONEq(t, `["Invalid option ID"]`, string(body))
	})

	t.Run("unknown route", func(t *testing.T) {
		status, body := get(t, backend.URL()+"/nope/", "")
		assert.Equal(t, http.StatusNotFound, status)
		assert.JSONEq(t, `{"detail": "Not found."}`, string(body))
	})
}
