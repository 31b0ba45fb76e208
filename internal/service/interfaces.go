package service

import (
	"context"
	"time"

	"github.com/egyw/foodify-auth/models"
)

// AuthService is the authentication state machine: credential verification,
// OTP issuance and verification, token lifecycle, and the account-mutation
// flows that must invalidate existing sessions.
type AuthService interface {
	Register(ctx context.Context, req models.RegisterRequest, ip string) (models.User, error)
	Login(ctx context.Context, req models.LoginRequest, ip string) (models.User, error)
	VerifyLoginOTP(ctx context.Context, req models.VerifyOTPRequest, ip string) (models.User, models.TokenPair, error)
	RefreshAccessToken(ctx context.Context, refreshToken, ip string) (string, error)
	Logout(ctx context.Context, refreshToken, ip string) error

	ChangePassword(ctx context.Context, principal models.Principal, req models.UpdatePasswordRequest, ip string) error
	RequestEmailChange(ctx context.Context, principal models.Principal, newEmail, ip string) error
	VerifyEmailOTP(ctx context.Context, principal models.Principal, otp, ip string) (string, error)
	UpdateRole(ctx context.Context, actor models.Principal, targetUserID int64, role, ip string) (models.User, error)

	GetProfile(ctx context.Context, userID int64) (models.User, error)
	GetAllUsers(ctx context.Context) ([]models.User, error)
	ParseAccessToken(ctx context.Context, tokenString string) (models.TokenClaims, error)
}

// ActivityService records and lists audit events. Recording is best-effort:
// a storage failure is logged, never propagated into the auth flow.
type ActivityService interface {
	Record(ctx context.Context, entry models.ActivityEntry)
	List(ctx context.Context, filter models.ActivityFilter) ([]models.ActivityEntry, error)
}

// LoginGate is the rate-limiter contract consulted around every login
// attempt. Implemented by [limiter.LoginLimiter].
type LoginGate interface {
	CheckGate(ctx context.Context, identifier, ip string) (models.GateDecision, error)
	RecordFailure(ctx context.Context, identifier, ip string) error
	RecordSuccess(ctx context.Context, identifier, ip string) error
}

// OTPMailer is the outbound mail collaborator. Implemented by
// [mailer.Mailer]; the auth core treats delivery as a black-box effect.
type OTPMailer interface {
	SendOTPEmail(ctx context.Context, toEmail, otp string, ttl time.Duration) error
}
