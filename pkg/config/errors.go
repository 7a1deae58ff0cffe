package config

import "errors"

var (
	// ErrParsingConfig is returned when environment variables cannot be parsed into the config struct.
	ErrParsingConfig = errors.New("failed to parse environment variables into config")

	// ErrNilPointer is returned when a nil pointer is provided to Load.
	ErrNilPointer = errors.New("nil pointer provided to config loader")

	// ErrParsingProfiles is returned when a profile file is malformed.
	ErrParsingProfiles = errors.New("failed to parse profile file")

	// ErrProfileNotFound is returned when the requested profile does not exist.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrNoDefaultProfile is returned when no profile name was given and the file declares no default.
	ErrNoDefaultProfile = errors.New("no profile name given and no default set")
)
