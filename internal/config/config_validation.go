package config

import "errors"

// validate checks that every configuration group required to start the
// server is complete. It joins all failures so an operator sees the full
// list at once instead of fixing them one restart at a time.
func (c *StructuredConfig) validate() error {
	var errs []error

	if c.Auth.AccessTokenSecret == "" || c.Auth.RefreshTokenSecret == "" {
		errs = append(errs, ErrInvalidAuthConfigs)
	}
	if c.Auth.AccessTokenSecret != "" && c.Auth.AccessTokenSecret == c.Auth.RefreshTokenSecret {
		errs = append(errs, ErrSameTokenSecrets)
	}
	if c.Auth.OTPTTLSeconds <= 0 {
		errs = append(errs, ErrInvalidAuthConfigs)
	}

	if c.Limiter.FailureThreshold <= 0 || c.Limiter.LockDurationSeconds <= 0 || c.Limiter.FailureWindow <= 0 {
		errs = append(errs, ErrInvalidLimiterConfigs)
	}

	if c.Storage.DB.DSN == "" || c.Storage.Redis.Addr == "" {
		errs = append(errs, ErrInvalidStorageConfigs)
	}

	if c.Server.HTTPAddress == "" {
		errs = append(errs, ErrInvalidServerConfigs)
	}

	return errors.Join(errs...)
}
