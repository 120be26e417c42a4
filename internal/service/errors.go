package service

import "errors"

var (
	// ErrForbidden marks an ownership or role violation detected inside a
	// service, after the route guards already passed.
	ErrForbidden = errors.New("access denied")
	// ErrLimitExceeded marks a request rejected by the caller's usage limits.
	ErrLimitExceeded = errors.New("usage limit exceeded")
)
