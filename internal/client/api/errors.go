package api

import "errors"

var (
	// ErrUnavailable covers transport failures, timeouts and 5xx responses.
	ErrUnavailable = errors.New("server unavailable")

	// ErrUnauthorized covers 401/403 responses: missing, expired or
	// insufficient credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidCredentials is returned when the server rejects a login or
	// OTP attempt. Recoverable: the caller may retry with new input.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
