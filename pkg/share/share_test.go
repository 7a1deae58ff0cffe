package share_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pollaroo/pollaroo-go/pkg/share"
)

const pollLink = "http://localhost:3000/poll/42"

var pngHeader = []byte{0x89, 'P', 'N', 'G'}

func TestValidateLink(t *testing.T) {
	t.Run("accepts absolute http url", func(t *testing.T) {
		u, err := share.ValidateLink(pollLink)
		require.NoError(t, err)
		assert.Equal(t, "/poll/42", u.Path)
	})

	t.Run("rejects empty and whitespace", func(t *testing.T) {
		_, err := share.ValidateLink("")
		assert.ErrorIs(t, err, share.ErrEmptyLink)

		_, err = share.ValidateLink("   ")
		assert.ErrorIs(t, err, share.ErrEmptyLink)
	})

	t.Run("rejects relative and non-http links", func(t *testing.T) {
		for _, link := range []string{"/poll/42", "ftp://example.com/poll", "localhost:3000"} {
			_, err := share.ValidateLink(link)
			assert.ErrorIs(t, err, share.ErrInvalidLink, "link %q", link)
		}
	})
}

func TestQR(t *testing.T) {
	t.Run("renders png", func(t *testing.T) {
		png, err := share.QR(pollLink, 128)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(png, pngHeader))
	})

	t.Run("defaults size when non-positive", func(t *testing.T) {
		png, err := share.QR(pollLink, 0)
		require.NoError(t, err)
		assert.NotEmpty(t, png)
	})

	t.Run("propagates validation errors", func(t *testing.T) {
		_, err := share.QR("not a url", 128)
		assert.ErrorIs(t, err, share.ErrInvalidLink)
	})
}

func TestQRDataURI(t *testing.T) {
	uri, err := share.QRDataURI(pollLink, 128)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))
	assert.Greater(t, len(uri), len("data:image/png;base64,"))
}
