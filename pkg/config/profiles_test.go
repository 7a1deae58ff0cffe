package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pollaroo/pollaroo-go/pkg/config"
)

func writeProfileFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadProfiles(t *testing.T) {
	t.Run("parses profiles and default", func(t *testing.T) {
		path := writeProfileFile(t, `
default: local
profiles:
  local:
    base_url: http://localhost:8000/api
  staging:
    base_url: https://staging.pollaroo.app/api
    timeout: 30s
`)

		f, err := config.LoadProfiles(path)
		require.NoError(t, err)

		assert.Equal(t, "local", f.Default)
		assert.Len(t, f.Profiles, 2)
		assert.Equal(t, 30*time.Second, f.Profiles["staging"].Timeout)
	})

	t.Run("missing file surfaces os error", func(t *testing.T) {
		_, err := config.LoadProfiles(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := writeProfileFile(t, "profiles: [not a map")

		_, err := config.LoadProfiles(path)
		assert.ErrorIs(t, err, config.ErrParsingProfiles)
	})
}

func TestProfileFile_Resolve(t *testing.T) {
	f := config.ProfileFile{
		Default: "local",
		Profiles: map[string]config.Profile{
			"local":  {BaseURL: "http://localhost:8000/api"},
			"broken": {},
		},
	}

	t.Run("by name", func(t *testing.T) {
		p, err := f.Resolve("local")
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:8000/api", p.BaseURL)
	})

	t.Run("falls back to default", func(t *testing.T) {
		p, err := f.Resolve("")
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:8000/api", p.BaseURL)
	})

	t.Run("unknown name", func(t *testing.T) {
		_, err := f.Resolve("production")
		assert.ErrorIs(t, err, config.ErrProfileNotFound)
	})

	t.Run("no default declared", func(t *testing.T) {
		_, err := config.ProfileFile{}.Resolve("")
		assert.ErrorIs(t, err, config.ErrNoDefaultProfile)
	})

	t.Run("profile without base url", func(t *testing.T) {
		_, err := f.Resolve("broken")
		assert.ErrorIs(t, err, config.ErrParsingProfiles)
	})
}
