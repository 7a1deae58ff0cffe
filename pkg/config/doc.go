// Package config loads typed configuration from environment variables and
// optional YAML profile files.
//
// Environment loading uses `env` struct tags via Load/MustLoad, with a .env
// file picked up automatically when present. Profile files give CLI users
// named server targets (local, staging, production) without exporting
// variables per shell.
package config
