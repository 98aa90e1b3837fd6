// Package provider holds the HTTP adapters for the external AI services.
// Both adapters translate upstream failures into the typed errors below so
// handlers can refuse the request without touching the user's balance
package provider

import "errors"

var (
	// ErrAuth means the configured API key was rejected upstream
	ErrAuth = errors.New("provider rejected the configured credentials")

	// ErrRateLimited means the upstream quota is exhausted
	ErrRateLimited = errors.New("provider rate limit exceeded")

	// ErrUnavailable covers network failures and 5xx answers
	ErrUnavailable = errors.New("provider temporarily unavailable")
)
