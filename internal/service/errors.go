package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/egyw/foodify-auth/internal/limiter"
)

// Sentinel errors returned by the auth service. Handlers match them with
// [errors.Is] to pick response statuses.
var (
	// ErrInvalidDataProvided indicates a request payload that failed
	// field-level validation.
	ErrInvalidDataProvided = errors.New("invalid data provided")

	// ErrInvalidCredentials covers both "no such account" and "wrong
	// password". The two cases are deliberately indistinguishable to
	// prevent identity enumeration.
	ErrInvalidCredentials = errors.New("invalid identifier or password")

	// ErrInvalidOrExpiredOTP indicates a one-time code that does not match,
	// was already consumed, or has passed its expiry.
	ErrInvalidOrExpiredOTP = errors.New("invalid or expired OTP")

	// ErrIPBanned indicates the source IP carries a durable ban. There is
	// no retry-after; only an operator can lift it.
	ErrIPBanned = errors.New("ip address is banned")

	// ErrMissingToken indicates no refresh token was presented.
	ErrMissingToken = errors.New("refresh token not found")

	// ErrUnknownToken indicates a refresh token no account currently holds.
	ErrUnknownToken = errors.New("refresh token is not recognized")

	// ErrTokenIsExpired indicates a token that failed only its expiry check.
	// Clients recover by re-authenticating.
	ErrTokenIsExpired = errors.New("token is expired")

	// ErrTokenIsExpiredOrInvalid indicates a token that failed signature or
	// claim validation.
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")

	// ErrForbidden indicates the caller lacks the role the operation
	// requires.
	ErrForbidden = errors.New("insufficient permissions")

	// ErrSelfRoleChange indicates an admin tried to change their own role,
	// which is rejected to prevent accidental self-demotion.
	ErrSelfRoleChange = errors.New("cannot change your own role")

	// ErrOTPDeliveryFailed indicates mail delivery failed while the
	// delivery-failure policy is fatal. The issued OTP remains valid.
	ErrOTPDeliveryFailed = errors.New("failed to deliver OTP email")

	// ErrTokenCreationFailed indicates JWT signing failed.
	ErrTokenCreationFailed = errors.New("token creation failed")
)

// RateLimitedError is returned when the (identifier, ip) pair is inside a
// lock window. It carries the remaining lock duration for the 429 body.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("too many attempts, try again in %s", limiter.FormatRetryAfter(e.RetryAfter))
}
