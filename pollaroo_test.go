package pollaroo_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pollaroo "github.com/pollaroo/pollaroo-go"
	"github.com/pollaroo/pollaroo-go/pkg/apiclient"
	"github.com/pollaroo/pollaroo-go/pkg/pollarootest"
	"github.com/pollaroo/pollaroo-go/pkg/tokenstore"
)

func TestNew(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects a bad base URL", func(t *testing.T) {
		_, err := pollaroo.New(apiclient.Config{BaseURL: "not a url"})
		assert.ErrorIs(t, err, apiclient.ErrInvalidBaseURL)
	})

	t.Run("client and session share credentials", func(t *testing.T) {
		backend := pollarootest.New()
		defer backend.Close()
		backend.SeedUser("maria", "maria@example.com", "s3cret-pw")

		tokens := tokenstore.NewMemoryStore()
		app, err := pollaroo.New(
			apiclient.Config{BaseURL: backend.URL(), Timeout: 5 * time.Second},
			pollaroo.WithTokenStore(tokens),
		)
		require.NoError(t, err)

		require.NoError(t, app.Session.Login(ctx, "maria", "s3cret-pw"))
		assert.True(t, app.Client.HasToken(), "a session login authenticates the client")

		pair, err := tokens.Load(ctx, app.Client.Origin())
		require.NoError(t, err)
		assert.NotEmpty(t, pair.Access)

		require.NoError(t, app.Session.Logout(ctx))
		assert.False(t, app.Client.HasToken())
		_, err = tokens.Load(ctx, app.Client.Origin())
		assert.ErrorIs(t, err, tokenstore.ErrNotFound)
	})

	t.Run("rehydrates a stored session", func(t *testing.T) {
		backend := pollarootest.New()
		defer backend.Close()
		backend.SeedUser("maria", "maria@example.com", "s3cret-pw")

		tokens := tokenstore.NewMemoryStore()

		first, err := pollaroo.New(
			apiclient.Config{BaseURL: backend.URL(), Timeout: 5 * time.Second},
			pollaroo.WithTokenStore(tokens),
		)
		require.NoError(t, err)
		require.NoError(t, first.Session.Login(ctx, "maria", "s3cret-pw"))

		second, err := pollaroo.New(
			apiclient.Config{BaseURL: backend.URL(), Timeout: 5 * time.Second},
			pollaroo.WithTokenStore(tokens),
		)
		require.NoError(t, err)

		require.NoError(t, second.Session.LoadUser(ctx))
		snap := second.Session.Snapshot()
		require.True(t, snap.Authenticated())
		assert.Equal(t, "maria", snap.User.Username)
	})

	t.Run("NewFromEnv reads the base URL", func(t *testing.T) {
		backend := pollarootest.New()
		defer backend.Close()

		t.Setenv("POLLAROO_BASE_URL", backend.URL())

		app, err := pollaroo.NewFromEnv()
		require.NoError(t, err)

		_, err = app.Client.ListPolls(ctx, apiclient.PollFilter{})
		assert.NoError(t, err)
	})
}
