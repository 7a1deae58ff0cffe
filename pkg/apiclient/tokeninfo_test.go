package apiclient_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pollaroo/pollaroo-go/pkg/apiclient"
	"github.com/pollaroo/pollaroo-go/pkg/pollarootest"
	"github.com/pollaroo/pollaroo-go/pkg/tokenstore"
)

func TestTokenInfo(t *testing.T) {
	t.Run("no token", func(t *testing.T) {
		client, err := apiclient.New(apiclient.Config{BaseURL: "http://localhost:8000/api"})
		require.NoError(t, err)

		_, err = client.TokenInfo()
		assert.ErrorIs(t, err, apiclient.ErrNoToken)
	})

	t.Run("decodes claims after login", func(t *testing.T) {
		backend := pollarootest.New()
		defer backend.Close()

		client := newTestClient(t, backend)
		seeded := loginTestUser(t, backend, client)

		info, err := client.TokenInfo()
		require.NoError(t, err)
		assert.Equal(t, seeded.ID, info.UserID)
		assert.Equal(t, "access", info.TokenType)
		assert.NotEmpty(t, info.ID)
		assert.False(t, info.IssuedAt.IsZero())
		assert.True(t, info.ExpiresAt.After(time.Now()))
		assert.False(t, info.Expired())
	})

	t.Run("reports expiry", func(t *testing.T) {
		backend := pollarootest.New()
		defer backend.Close()
		seeded := backend.SeedUser("maria", "maria@example.com", "s3cret-pw")

		client := newTestClient(t, backend)
		client.SetTokens(context.Background(), tokenstore.Pair{
			Access: backend.IssueAccessToken(seeded.ID, -time.Minute),
		})

		info, err := client.TokenInfo()
		require.NoError(t, err)
		assert.True(t, info.Expired())
	})

	t.Run("malformed token", func(t *testing.T) {
		client, err := apiclient.New(apiclient.Config{BaseURL: "http://localhost:8000/api"})
		require.NoError(t, err)
		client.SetTokens(context.Background(), tokenstore.Pair{Access: "not-a-jwt"})

		_, err = client.TokenInfo()
		assert.Error(t, err)
	})
}
