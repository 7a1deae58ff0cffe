package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Profile describes one named Pollaroo deployment a client can talk to.
type Profile struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// ProfileFile is an on-disk set of named profiles, typically stored at
// ~/.config/pollaroo/profiles.yaml:
//
//	default: local
//	profiles:
//	  local:
//	    base_url: http://localhost:8000/api
//	  staging:
//	    base_url: https://staging.pollaroo.app/api
//	    timeout: 30s
type ProfileFile struct {
	Default  string             `yaml:"default,omitempty"`
	Profiles map[string]Profile `yaml:"profiles"`
}

// LoadProfiles reads and parses a profile file. A missing file is an error;
// callers that treat profiles as optional should check os.IsNotExist.
func LoadProfiles(path string) (ProfileFile, error) {
	var f ProfileFile

	data, err := os.ReadFile(path)
	if err != nil {
		return f, err
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return f, errors.Join(ErrParsingProfiles, err)
	}
	return f, nil
}

// Resolve returns the named profile, or the file's default when name is
// empty. The base URL must be set on the resolved profile.
func (f ProfileFile) Resolve(name string) (Profile, error) {
	if name == "" {
		name = f.Default
	}
	if name == "" {
		return Profile{}, ErrNoDefaultProfile
	}

	p, ok := f.Profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q", ErrProfileNotFound, name)
	}
	if p.BaseURL == "" {
		return Profile{}, fmt.Errorf("%w: profile %q has no base_url", ErrParsingProfiles, name)
	}
	return p, nil
}
