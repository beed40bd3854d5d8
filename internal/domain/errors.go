package domain

import "errors"

// Failure kinds surfaced across the service. Layers wrap these with
// fmt.Errorf("...: %w", err) and the HTTP surface maps them with errors.Is.
var (
	// ErrInvalidInput marks malformed caller input (empty title, blank message).
	ErrInvalidInput = errors.New("invalid input")

	// ErrSessionNotFound marks a reference to a session that does not exist.
	ErrSessionNotFound = errors.New("chat session not found")

	// ErrNotConfigured marks a missing provider credential, detected before
	// any network call is issued.
	ErrNotConfigured = errors.New("llm provider not configured")

	// ErrUpstream marks a failed provider call: non-success status, timeout
	// or a response that cannot be parsed into the expected shape.
	ErrUpstream = errors.New("llm provider error")
)
