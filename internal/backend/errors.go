package backend

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Error codes the rest of the application branches on. Provider-specific
// codes are normalized into these by each adapter implementation.
const (
	CodeNotFound           = "not_found"
	CodeInvalidCredentials = "invalid_credentials"
	CodeDuplicate          = "duplicate"
	CodeWeakPassword       = "weak_password"
	CodeUnauthorized       = "unauthorized"
	CodeServiceKeyMissing  = "service_key_missing"
	CodeUnavailable        = "unavailable"
)

// Error is the typed failure every adapter call returns on a non-network
// provider error.
type Error struct {
	Code    string
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("backend: %s (%s)", e.Message, e.Code)
}

// IsNotFound reports the "zero rows" case on single-row lookups; the profile
// resolver treats it as "awaiting provisioning", not a failure.
func IsNotFound(err error) bool {
	var be *Error
	return errors.As(err, &be) && be.Code == CodeNotFound
}

func IsInvalidCredentials(err error) bool {
	var be *Error
	return errors.As(err, &be) && be.Code == CodeInvalidCredentials
}

// CodeOf extracts the normalized code from an adapter error, or "" when the
// error is not a typed backend failure.
func CodeOf(err error) string {
	var be *Error
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}

// IsNetwork reports transport-level failures: timeouts, refused connections,
// cancelled contexts. These degrade to the anonymous/fallback state and are
// never surfaced as blocking errors.
func IsNetwork(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var ne net.Error
	if errors.As(err, &ne) {
		return true
	}
	var be *Error
	return errors.As(err, &be) && be.Code == CodeUnavailable
}
