package tokenstore

import "errors"

var (
	// ErrNotFound indicates no pair is stored for the origin
	ErrNotFound = errors.New("tokenstore.not_found")

	// ErrInvalidOrigin indicates an empty or unusable origin key
	ErrInvalidOrigin = errors.New("tokenstore.invalid_origin")

	// ErrCorruptFile indicates the credentials file could not be decoded
	ErrCorruptFile = errors.New("tokenstore.corrupt_file")
)
