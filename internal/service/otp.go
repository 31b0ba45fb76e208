package service

import (
	"context"
	"fmt"
	"time"

	"github.com/egyw/foodify-auth/internal/store"
	"github.com/egyw/foodify-auth/internal/utils"
	"github.com/egyw/foodify-auth/models"
)

// otpIssuer generates and attaches short-lived numeric verification codes.
//
// It only manages account state; delivery belongs to the caller, which
// hands the returned code to the mail collaborator. Expiry is checked
// lazily at verification time; nothing sweeps stale codes.
type otpIssuer struct {
	userRepository store.UserRepository
	ttl            time.Duration
}

func newOTPIssuer(userRepository store.UserRepository, ttl time.Duration) *otpIssuer {
	return &otpIssuer{
		userRepository: userRepository,
		ttl:            ttl,
	}
}

// Issue generates a fresh 6-digit code, persists it with its expiry on the
// account, and returns it for delivery.
//
// A concurrent login for the same account overwrites the fields: the last
// issued code wins and earlier ones stop verifying. This is accepted
// behavior, since codes arrive out-of-band and the user should use the
// latest one received.
func (o *otpIssuer) Issue(ctx context.Context, userID int64) (string, error) {
	code, err := utils.GenerateOTP()
	if err != nil {
		return "", err
	}

	if err := o.userRepository.SetOTP(ctx, userID, code, time.Now().Add(o.ttl)); err != nil {
		return "", fmt.Errorf("error attaching OTP to account: %w", err)
	}

	return code, nil
}

// Verify checks a submitted code against the account's stored OTP state.
// Valid only when a code is set, matches exactly (digits compared as
// strings, no case or partial matching), and now is before the expiry.
//
// Verify does not clear the fields; the caller does, which is what makes
// codes single-use.
func (o *otpIssuer) Verify(user models.User, submittedCode string, now time.Time) error {
	if !user.OTP.Valid || !user.OTPExpiresAt.Valid {
		return ErrInvalidOrExpiredOTP
	}
	if user.OTP.String != submittedCode {
		return ErrInvalidOrExpiredOTP
	}
	if !now.Before(user.OTPExpiresAt.Time) {
		return ErrInvalidOrExpiredOTP
	}

	return nil
}
