package entity

import "errors"

// Standard domain errors
var (
	ErrInvalidRequest   = errors.New("invalid request parameters")
	ErrNoProviders      = errors.New("no external providers configured")
	ErrCacheUnavailable = errors.New("cache store unavailable")
)
