package apiclient_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pollaroo/pollaroo-go/pkg/apiclient"
	"github.com/pollaroo/pollaroo-go/pkg/pollarootest"
)

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates an account and logs in", func(t *testing.T) {
		backend := pollarootest.New()
		defer backend.Close()

		client := newTestClient(t, backend)
		resp, err := client.Register(ctx, apiclient.RegisterRequest{
			Username:        "maria",
			Email:           "maria@example.com",
			Password:        "s3cret-pw",
			PasswordConfirm: "s3cret-pw",
		})
		require.NoError(t, err)

		assert.Equal(t, "Registration successful", resp.Message)
		assert.Equal(t, "maria", resp.User.Username)
		assert.Equal(t, "maria@example.com", resp.User.Email)
		assert.NotEmpty(t, resp.Tokens.Access)
		assert.NotEmpty(t, resp.Tokens.Refresh)
		assert.True(t, client.HasToken())

		profile, err := client.Profile(ctx)
		require.NoError(t, err)
		assert.Equal(t, resp.User.ID, profile.ID)
	})

	t.Run("mismatched passwords", func(t *testing.T) {
		backend := pollarootest.New()
		defer backend.Close()

		client := newTestClient(t, backend)
		_, err := client.Register(ctx, apiclient.RegisterRequest{
			Username:        "maria",
			Email:           "maria@example.com",
			Password:        "s3cret-pw",
			PasswordConfirm: "different",
		})
		require.Error(t, err)

		apiErr, ok := apiclient.AsError(err)
		require.True(t, ok)
		assert.Equal(t, "Registration failed", apiErr.Message)
		assert.Contains(t, apiErr.Fields["non_field_errors"], "Passwords don't match")
		assert.False(t, client.HasToken())
	})

	t.Run("duplicate username", func(t *testing.T) {
		backend := pollarootest.New()
		defer backend.Close()
		backend.SeedUser("maria", "maria@example.com", "s3cret-pw")

		client := newTestClient(t, backend)
		_, err := client.Register(ctx, apiclient.RegisterRequest{
			Username:        "maria",
			Email:           "other@example.com",
			Password:        "s3cret-pw",
			PasswordConfirm: "s3cret-pw",
		})
		require.Error(t, err)

		apiErr, ok := apiclient.AsError(err)
		require.True(t, ok)
		assert.NotEmpty(t, apiErr.Fields["username"])
	})

	t.Run("missing fields are reported per field", func(t *testing.T) {
		backend := pollarootest.New()
		defer backend.Close()

		client := newTestClient(t, backend)
		_, err := client.Register(ctx, apiclient.RegisterRequest{})
		require.Error(t, err)

		apiErr, ok := apiclient.AsError(err)
		require.True(t, ok)
		for _, field := range []string{"username", "email", "password"} {
			assert.NotEmpty(t, apiErr.Fields[field], "field %q", field)
		}
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("by username", func(t *testing.T) {
		backend := pollarootest.New()
		defer backend.Close()
		backend.SeedUser("maria", "maria@example.com", "s3cret-pw")

		client := newTestClient(t, backend)
		resp, err := client.Login(ctx, "maria", "s3cret-pw")
		require.NoError(t, err)
		assert.Equal(t, "Login successful", resp.Message)
		assert.Equal(t, "maria", resp.User.Username)
		assert.True(t, client.HasToken())
	})

	t.Run("by email", func(t *testing.T) {
		backend := pollarootest.New()
		defer backend.Close()
		backend.SeedUser("maria", "maria@example.com", "s3cret-pw")

		client := newTestClient(t, backend)
		resp, err := client.Login(ctx, "maria@example.com", "s3cret-pw")
		require.NoError(t, err)
		assert.Equal(t, "maria", resp.User.Username)
	})

	t.Run("wrong password", func(t *testing.T) {
		backend := pollarootest.New()
		defer backend.Close()
		backend.SeedUser("maria", "maria@example.com", "s3cret-pw")

		client := newTestClient(t, backend)
		_, err := client.Login(ctx, "maria", "nope")
		require.Error(t, err)

		apiErr, ok := apiclient.AsError(err)
		require.True(t, ok)
		assert.True(t, apiclient.IsBusiness(err))
		assert.Equal(t, "Login failed", apiErr.Message)
		assert.Contains(t, apiErr.Fields["non_field_errors"], "Invalid credentials")
		assert.False(t, client.HasToken())
	})

	t.Run("unknown account", func(t *testing.T) {
		backend := pollarootest.New()
		defer backend.Close()

		client := newTestClient(t, backend)
		_, err := client.Login(ctx, "ghost", "whatever")
		require.Error(t, err)

		apiErr, ok := apiclient.AsError(err)
		require.True(t, ok)
		assert.Equal(t, "Login failed", apiErr.Message)
		assert.Contains(t, apiErr.Fields["non_field_errors"], "Invalid credentials")
	})
}

func TestLogout(t *testing.T) {
	ctx := context.Background()

	t.Run("clears credentials", func(t *testing.T) {
		backend := pollarootest.New()
		defer backend.Close()

		client := newTestClient(t, backend)
		loginTestUser(t, backend, client)

		require.NoError(t, client.Logout(ctx))
		assert.False(t, client.HasToken())
	})

	t.Run("clears credentials even when the server errors", func(t *testing.T) {
		backend := pollarootest.New()
		defer backend.Close()

		client := newTestClient(t, backend)
		loginTestUser(t, backend, client)

		backend.FailNext(1, http.StatusInternalServerError)
		err := client.Logout(ctx)
		require.Error(t, err)
		assert.False(t, client.HasToken(), "logout must succeed locally regardless")
	})
}

func TestProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("requires authentication", func(t *testing.T) {
		backend := pollarootest.New()
		defer backend.Close()

		client := newTestClient(t, backend)
		_, err := client.Profile(ctx)
		require.Error(t, err)
		assert.True(t, apiclient.IsUnauthorized(err))
	})

	t.Run("returns the full profile", func(t *testing.T) {
		backend := pollarootest.New()
		defer backend.Close()

		client := newTestClient(t, backend)
		seeded := loginTestUser(t, backend, client)

		profile, err := client.Profile(ctx)
		require.NoError(t, err)
		assert.Equal(t, seeded.ID, profile.ID)
		assert.Equal(t, "maria", profile.Username)
		assert.Equal(t, "maria@example.com", profile.Email)
		assert.False(t, profile.DateJoined.IsZero())
	})
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()

	strPtr := func(s string) *string { return &s }

	t.Run("partial update", func(t *testing.T) {
		backend := pollarootest.New()
		defer backend.Close()

		client := newTestClient(t, backend)
		loginTestUser(t, backend, client)

		updated, err := client.UpdateProfile(ctx, apiclient.ProfileUpdate{
			FirstName: strPtr("Maria"),
			LastName:  strPtr("Silva"),
		})
		require.NoError(t, err)
		assert.Equal(t, "Maria", updated.FirstName)
		assert.Equal(t, "Silva", updated.LastName)
		assert.Equal(t, "Maria Silva", updated.FullName)
		assert.Equal(t, "maria@example.com", updated.Email, "untouched fields keep their values")

		// A second update of a different field must not wipe the first.
		updated, err = client.UpdateProfile(ctx, apiclient.ProfileUpdate{Bio: strPtr("I run polls.")})
		require.NoError(t, err)
		assert.Equal(t, "Maria", updated.FirstName)
		assert.Equal(t, "I run polls.", updated.Bio)
	})

	t.Run("rejects a taken email", func(t *testing.T) {
		backend := pollarootest.New()
		defer backend.Close()
		backend.SeedUser("other", "taken@example.com", "pw-other")

		client := newTestClient(t, backend)
		loginTestUser(t, backend, client)

		_, err := client.UpdateProfile(ctx, apiclient.ProfileUpdate{Email: strPtr("taken@example.com")})
		require.Error(t, err)

		apiErr, ok := apiclient.AsError(err)
		require.True(t, ok)
		assert.NotEmpty(t, apiErr.Fields["email"])
	})
}
