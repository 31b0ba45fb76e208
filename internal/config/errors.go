package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidAuthConfigs indicates missing token secrets or a
	// non-positive OTP lifetime.
	ErrInvalidAuthConfigs = errors.New("invalid auth configuration")
	// ErrSameTokenSecrets indicates that the access and refresh signing
	// secrets are identical, which would let one token kind pass
	// verification as the other.
	ErrSameTokenSecrets = errors.New("access and refresh token secrets must differ")
	// ErrInvalidLimiterConfigs indicates a non-positive failure threshold,
	// lock duration, or failure window.
	ErrInvalidLimiterConfigs = errors.New("invalid limiter configuration")
	// ErrInvalidStorageConfigs indicates an empty database DSN or redis
	// address.
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidServerConfigs indicates an empty HTTP listen address.
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
)
