package services

import "errors"

var (
	// ErrUnauthorized is returned when an operation needs a logged-in user.
	ErrUnauthorized = errors.New("authentication required")
	// ErrForbidden is returned when the user may not touch the resource.
	ErrForbidden = errors.New("permission denied")
	// ErrInvalidCredentials is returned by Login for a bad username or password.
	ErrInvalidCredentials = errors.New("invalid username or password")
)
