package service

import "errors"

// Shared error taxonomy. Persistence failures are wrapped with %w and
// propagated untranslated; nothing in this layer retries.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
)
