package share

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

var (
	// ErrEmptyLink is returned when the share link is empty or only whitespace
	ErrEmptyLink = errors.New("share link cannot be empty")
	// ErrInvalidLink is returned when the share link is not an absolute http(s) URL
	ErrInvalidLink = errors.New("share link must be an absolute http or https URL")
	// ErrQRGeneration is returned when QR code rendering fails
	ErrQRGeneration = errors.New("failed to render QR code")
)

// defaultSize is the QR image edge length in pixels when none is given.
const defaultSize = 256

// ValidateLink checks that link is a usable poll share URL: absolute, with an
// http or https scheme and a host. Returns the parsed URL on success.
func ValidateLink(link string) (*url.URL, error) {
	if strings.TrimSpace(link) == "" {
		return nil, ErrEmptyLink
	}
	u, err := url.Parse(link)
	if err != nil {
		return nil, errors.Join(ErrInvalidLink, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLink, link)
	}
	return u, nil
}

// QR renders a poll share link as a PNG QR code. A non-positive size falls
// back to 256 pixels.
func QR(link string, size int) ([]byte, error) {
	if _, err := ValidateLink(link); err != nil {
		return nil, err
	}
	if size <= 0 {
		size = defaultSize
	}
	png, err := qrcode.Encode(link, qrcode.Medium, size)
	if err != nil {
		return nil, errors.Join(ErrQRGeneration, err)
	}
	return png, nil
}

// QRDataURI renders the share link QR code as a data URI suitable for an
// <img> src attribute.
func QRDataURI(link string, size int) (string, error) {
	png, err := QR(link, size)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
