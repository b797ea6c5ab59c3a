package config

import "errors"

var (
	// ErrMissingCredential is returned when a required API key is not configured.
	ErrMissingCredential = errors.New("missing required credential")

	// ErrInvalidSetting is returned when a setting cannot be parsed or is out of range.
	ErrInvalidSetting = errors.New("invalid setting")
)
