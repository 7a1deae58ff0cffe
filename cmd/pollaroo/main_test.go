package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pollaroo/pollaroo-go/pkg/pollarootest"
)

// cli invokes one command line against the backend, the way a user would run
// separate pollaroo processes. Credentials persist between calls through the
// file store.
func cli(t *testing.T, backend *pollarootest.Server, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	full := append([]string{"-base", backend.URL()}, args...)
	err := run(context.Background(), full, &buf)
	return buf.String(), err
}

func TestRun(t *testing.T) {
	// Credentials land under the user config dir; sandbox it.
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	backend := pollarootest.New()
	defer backend.Close()

	t.Run("requires a command", func(t *testing.T) {
		out, err := cli(t, backend)
		assert.EqualError(t, err, "missing command")
		assert.Contains(t, out, "Usage: pollaroo")
	})

	t.Run("rejects unknown commands", func(t *testing.T) {
		_, err := cli(t, backend, "frobnicate")
		assert.EqualError(t, err, `unknown command "frobnicate"`)
	})

	t.Run("help lists every command", func(t *testing.T) {
		out, _ := cli(t, backend)
		for name := range commands {
			assert.Contains(t, out, name)
		}
	})

	t.Run("status without a session", func(t *testing.T) {
		_, err := cli(t, backend, "status")
		assert.EqualError(t, err, "no stored session")
	})

	t.Run("register persists a session across invocations", func(t *testing.T) {
		out, err := cli(t, backend, "register",
			"-user", "maria", "-email", "maria@example.com", "-password", "s3cret-pw")
		require.NoError(t, err)
		assert.Contains(t, out, "Logged in as maria.")

		out, err = cli(t, backend, "status")
		require.NoError(t, err)
		assert.Contains(t, out, "User ID:")
		assert.Contains(t, out, "valid")

		out, err = cli(t, backend, "whoami")
		require.NoError(t, err)
		assert.Contains(t, out, "maria@example.com")
	})

	t.Run("profile update shows up in whoami", func(t *testing.T) {
		_, err := cli(t, backend, "update", "-bio", "ramen hunter")
		require.NoError(t, err)

		out, err := cli(t, backend, "whoami")
		require.NoError(t, err)
		assert.Contains(t, out, "ramen hunter")
	})

	var pollID int64

	t.Run("create reports the assigned poll ID", func(t *testing.T) {
		out, err := cli(t, backend, "create",
			"-title", "Lunch spot", "-description", "Team lunch vote",
			"-option", "Ramen", "-option", "Tacos")
		require.NoError(t, err)

		_, err = fmt.Sscanf(out, "Created poll #%d", &pollID)
		require.NoError(t, err, "output was: %s", out)
		assert.Positive(t, pollID)
	})

	t.Run("polls lists public polls", func(t *testing.T) {
		out, err := cli(t, backend, "polls")
		require.NoError(t, err)
		assert.Contains(t, out, "TITLE")
		assert.Contains(t, out, "Lunch spot")
	})

	t.Run("polls -mine excludes other creators", func(t *testing.T) {
		creator := backend.SeedUser("polly", "polly@example.com", "pw-123456")
		backend.SeedPoll(pollarootest.PollSeed{
			Creator: creator,
			Title:   "Best ramen in town",
			Options: []string{"Ichiran", "Ippudo"},
		})

		out, err := cli(t, backend, "polls", "-mine")
		require.NoError(t, err)
		assert.Contains(t, out, "Lunch spot")
		assert.NotContains(t, out, "Best ramen in town")
	})

	t.Run("vote and results", func(t *testing.T) {
		creator := backend.SeedUser("quinn", "quinn@example.com", "pw-123456")
		id, optionIDs := backend.SeedPoll(pollarootest.PollSeed{
			Creator: creator,
			Title:   "Release day",
			Options: []string{"Tuesday", "Thursday"},
		})

		out, err := cli(t, backend, "vote",
			strconv.FormatInt(id, 10), strconv.FormatInt(optionIDs[0], 10))
		require.NoError(t, err)
		assert.Contains(t, out, "Vote recorded.")

		out, err = cli(t, backend, "results", strconv.FormatInt(id, 10))
		require.NoError(t, err)
		assert.Contains(t, out, "Release day")
		assert.Contains(t, out, "Tuesday")
		assert.Contains(t, out, "100.0%")
	})

	t.Run("share writes a QR image", func(t *testing.T) {
		qrPath := filepath.Join(t.TempDir(), "poll.png")
		out, err := cli(t, backend, "share",
			"-qr", qrPath, strconv.FormatInt(pollID, 10))
		require.NoError(t, err)
		assert.Contains(t, out, "/poll/")
		assert.Contains(t, out, "QR code saved")

		data, err := os.ReadFile(qrPath)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")), "QR file is not a PNG")
	})

	t.Run("edit replaces the poll", func(t *testing.T) {
		out, err := cli(t, backend, "edit",
			"-title", "Lunch spot, round two", "-option", "Sushi", "-option", "Pizza",
			strconv.FormatInt(pollID, 10))
		require.NoError(t, err)
		assert.Contains(t, out, "Updated poll")

		out, err = cli(t, backend, "polls")
		require.NoError(t, err)
		assert.Contains(t, out, "Lunch spot, round two")
	})

	t.Run("delete removes the poll", func(t *testing.T) {
		_, err := cli(t, backend, "delete", strconv.FormatInt(pollID, 10))
		require.NoError(t, err)

		out, err := cli(t, backend, "polls")
		require.NoError(t, err)
		assert.NotContains(t, out, "Lunch spot, round two")
	})

	t.Run("logout forgets the session", func(t *testing.T) {
		out, err := cli(t, backend, "logout")
		require.NoError(t, err)
		assert.Contains(t, out, "Logged out.")

		_, err = cli(t, backend, "status")
		assert.EqualError(t, err, "no stored session")
	})

	t.Run("login failure surfaces the server message", func(t *testing.T) {
		_, err := cli(t, backend, "login", "-user", "maria", "-password", "wrong-password")
		assert.EqualError(t, err, "Login failed")

		out, err := cli(t, backend, "login", "-user", "maria", "-password", "s3cret-pw")
		require.NoError(t, err)
		assert.Contains(t, out, "Logged in as maria.")
	})
}

func TestBuildApp(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	t.Run("flag overrides profile and environment", func(t *testing.T) {
		t.Setenv("POLLAROO_BASE_URL", "http://env.example.com/api")

		app, err := buildApp("http://flag.example.com/api", "", 0, false)
		require.NoError(t, err)
		assert.Equal(t, "http://flag.example.com", app.Client.Origin())
	})

	t.Run("profile resolves from the config file", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "pollaroo")
		require.NoError(t, os.MkdirAll(dir, 0o755))
		t.Setenv("XDG_CONFIG_HOME", filepath.Dir(dir))

		profiles := `
default: staging
profiles:
  staging:
    base_url: https://staging.example.com/api
    timeout: 30s
`
		require.NoError(t, os.WriteFile(filepath.Join(dir, "profiles.yaml"), []byte(profiles), 0o644))

		app, err := buildApp("", "staging", 0, false)
		require.NoError(t, err)
		assert.Equal(t, "https://staging.example.com", app.Client.Origin())
	})

	t.Run("unknown profile fails", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "pollaroo")
		require.NoError(t, os.MkdirAll(dir, 0o755))
		t.Setenv("XDG_CONFIG_HOME", filepath.Dir(dir))
		require.NoError(t, os.WriteFile(
			filepath.Join(dir, "profiles.yaml"),
			[]byte("profiles:\n  local:\n    base_url: http://localhost:8000/api\n"), 0o644))

		_, err := buildApp("", "production", 0, false)
		assert.Error(t, err)
	})
}
