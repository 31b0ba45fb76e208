package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/egyw/foodify-auth/internal/config"
	"github.com/egyw/foodify-auth/internal/logger"
	"github.com/egyw/foodify-auth/internal/store"
	"github.com/egyw/foodify-auth/internal/utils"
	"github.com/egyw/foodify-auth/models"
)

// authService is the concrete implementation of AuthService.
//
// It orchestrates the login state machine — rate-limiter gate, credential
// check, OTP issuance and verification, token issuance — and the
// account-mutation flows that must invalidate existing sessions. Every
// terminal branch emits exactly one activity entry.
type authService struct {
	userRepository store.UserRepository
	gate           LoginGate
	otp            *otpIssuer
	tokens         *tokenIssuer
	mailer         OTPMailer
	activity       ActivityService

	// otpTTL is included in OTP mails so users know how long a code lives.
	otpTTL time.Duration

	// mailFailureFatal selects the delivery-failure policy: fail the whole
	// login attempt, or log and proceed with the OTP still valid.
	mailFailureFatal bool

	logger *logger.Logger
}

// NewAuthService constructs the auth state machine wired to its
// collaborators and populated with security parameters from cfg.
//
// The returned service is safe for concurrent use; all state is read-only
// after construction.
func NewAuthService(
	userRepository store.UserRepository,
	gate LoginGate,
	mailer OTPMailer,
	activity ActivityService,
	authCfg config.Auth,
	mailerCfg config.Mailer,
	logger *logger.Logger,
) AuthService {
	return &authService{
		userRepository:   userRepository,
		gate:             gate,
		otp:              newOTPIssuer(userRepository, authCfg.OTPTTL()),
		tokens:           newTokenIssuer(userRepository, authCfg, logger),
		mailer:           mailer,
		activity:         activity,
		otpTTL:           authCfg.OTPTTL(),
		mailFailureFatal: mailerCfg.FailureFatal,
		logger:           logger,
	}
}

// record emits one activity entry for a terminal flow branch.
func (a *authService) record(ctx context.Context, userID int64, action, outcome, ip, details string) {
	a.activity.Record(ctx, models.ActivityEntry{
		UserID:    userID,
		Action:    action,
		Outcome:   outcome,
		IPAddress: ip,
		Details:   details,
	})
}

// Register creates a new account with role "user".
//
// The password is hashed before storage and the plain text is never
// persisted or logged. Uniqueness is delegated to the credential store.
//
// Returns the persisted account or:
//   - ErrInvalidDataProvided if required fields are empty.
//   - store.ErrIdentityAlreadyExists if the username or email is taken.
func (a *authService) Register(ctx context.Context, req models.RegisterRequest, ip string) (models.User, error) {
	log := logger.FromContext(ctx)

	if req.Username == "" || req.Email == "" || req.Password == "" {
		return models.User{}, ErrInvalidDataProvided
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return models.User{}, fmt.Errorf("error hashing password: %w", err)
	}

	created, err := a.userRepository.CreateUser(ctx, models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Role:         models.RoleUser,
	})
	if err != nil {
		log.Err(err).Str("username", req.Username).Msg("user creation ended with error")
		a.record(ctx, 0, models.ActionRegister, models.OutcomeFailure, ip, req.Username)
		return models.User{}, fmt.Errorf("user creation ended with error: %w", err)
	}

	a.record(ctx, created.UserID, models.ActionRegister, models.OutcomeSuccess, ip, "")
	return created, nil
}

// Login is step one of the two-step login: the password check.
//
// The rate-limiter gate runs before any credential work. On a correct
// password an OTP is issued and delivered; no tokens are returned at this
// stage.
//
// Returns the account whose OTP was issued or:
//   - ErrIPBanned if the source IP carries a ban.
//   - *RateLimitedError if the (identifier, ip) pair is locked.
//   - ErrInvalidCredentials for unknown identifier and wrong password
//     alike; both count towards the failure threshold.
//   - ErrOTPDeliveryFailed if mail delivery failed and the policy is fatal.
func (a *authService) Login(ctx context.Context, req models.LoginRequest, ip string) (models.User, error) {
	log := logger.FromContext(ctx)

	if req.Identifier == "" || req.Password == "" {
		return models.User{}, ErrInvalidDataProvided
	}

	if err := a.checkGate(ctx, req.Identifier, ip); err != nil {
		return models.User{}, err
	}

	user, err := a.userRepository.FindByIdentifier(ctx, req.Identifier)
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			return models.User{}, a.failLogin(ctx, 0, req.Identifier, ip, "unknown identifier")
		}
		log.Err(err).Msg("user search by identifier failed")
		return models.User{}, fmt.Errorf("user search by identifier failed: %w", err)
	}

	if err := utils.ComparePasswords(user.PasswordHash, req.Password); err != nil {
		return models.User{}, a.failLogin(ctx, user.UserID, req.Identifier, ip, "wrong password")
	}

	code, err := a.otp.Issue(ctx, user.UserID)
	if err != nil {
		log.Err(err).Int64("id", user.UserID).Msg("OTP issuance failed")
		return models.User{}, err
	}

	if err := a.mailer.SendOTPEmail(ctx, user.Email, code, a.otpTTL); err != nil {
		log.Err(err).Int64("id", user.UserID).Msg("OTP delivery failed")
		if a.mailFailureFatal {
			a.record(ctx, user.UserID, models.ActionOTPSent, models.OutcomeFailure, ip, "mail delivery failed")
			return models.User{}, ErrOTPDeliveryFailed
		}
		// Best-effort policy: the code is attached and valid; only the
		// notification was lost.
	}

	a.record(ctx, user.UserID, models.ActionOTPSent, models.OutcomeSuccess, ip, "")
	return user, nil
}

// failLogin records a failed password check in both the limiter and the
// activity log and returns ErrInvalidCredentials.
func (a *authService) failLogin(ctx context.Context, userID int64, identifier, ip, details string) error {
	log := logger.FromContext(ctx)

	if err := a.gate.RecordFailure(ctx, identifier, ip); err != nil {
		log.Err(err).Str("identifier", identifier).Msg("failed to record login failure")
	}
	a.record(ctx, userID, models.ActionLogin, models.OutcomeFailure, ip, details)

	return ErrInvalidCredentials
}

// checkGate consults the rate limiter and maps its decision to service
// errors. Limiter storage errors fail closed.
func (a *authService) checkGate(ctx context.Context, identifier, ip string) error {
	decision, err := a.gate.CheckGate(ctx, identifier, ip)
	if err != nil {
		return fmt.Errorf("login gate check failed: %w", err)
	}

	switch {
	case decision.Banned:
		a.record(ctx, 0, models.ActionLogin, models.OutcomeFailure, ip, "ip banned")
		return ErrIPBanned
	case decision.Locked:
		return &RateLimitedError{RetryAfter: decision.RetryAfter}
	default:
		return nil
	}
}

// VerifyLoginOTP is step two of the login: OTP verification and token
// issuance.
//
// On a valid code the OTP fields are cleared (single-use), an access and a
// refresh token are minted, the refresh token is persisted, and the
// limiter's failure history for the pair is cleared.
//
// Returns the account and token pair or:
//   - ErrIPBanned / *RateLimitedError from the gate, as in Login.
//   - ErrInvalidOrExpiredOTP if the identifier is unknown, the code does
//     not match, or the code has expired.
func (a *authService) VerifyLoginOTP(ctx context.Context, req models.VerifyOTPRequest, ip string) (models.User, models.TokenPair, error) {
	log := logger.FromContext(ctx)

	if req.Identifier == "" || req.OTP == "" {
		return models.User{}, models.TokenPair{}, ErrInvalidDataProvided
	}

	if err := a.checkGate(ctx, req.Identifier, ip); err != nil {
		return models.User{}, models.TokenPair{}, err
	}

	user, err := a.userRepository.FindByIdentifier(ctx, req.Identifier)
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			a.record(ctx, 0, models.ActionVerifyOTP, models.OutcomeFailure, ip, "unknown identifier")
			return models.User{}, models.TokenPair{}, ErrInvalidOrExpiredOTP
		}
		log.Err(err).Msg("user search by identifier failed")
		return models.User{}, models.TokenPair{}, fmt.Errorf("user search by identifier failed: %w", err)
	}

	if err := a.otp.Verify(user, req.OTP, time.Now()); err != nil {
		a.record(ctx, user.UserID, models.ActionVerifyOTP, models.OutcomeFailure, ip, "")
		return models.User{}, models.TokenPair{}, err
	}

	if err := a.userRepository.ClearOTP(ctx, user.UserID); err != nil {
		log.Err(err).Int64("id", user.UserID).Msg("error consuming OTP")
		return models.User{}, models.TokenPair{}, fmt.Errorf("error consuming OTP: %w", err)
	}

	accessToken, err := a.tokens.IssueAccessToken(user)
	if err != nil {
		return models.User{}, models.TokenPair{}, err
	}

	refreshToken, err := a.tokens.IssueRefreshToken(ctx, user)
	if err != nil {
		return models.User{}, models.TokenPair{}, err
	}

	if err := a.gate.RecordSuccess(ctx, req.Identifier, ip); err != nil {
		log.Err(err).Str("identifier", req.Identifier).Msg("failed to clear login failure history")
	}

	a.record(ctx, user.UserID, models.ActionLogin, models.OutcomeSuccess, ip, "")
	return user, models.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// RefreshAccessToken exchanges a valid refresh token for a new access
// token. The refresh token itself stays in place.
func (a *authService) RefreshAccessToken(ctx context.Context, refreshToken, ip string) (string, error) {
	accessToken, user, err := a.tokens.RotateAccess(ctx, refreshToken)
	if err != nil {
		a.record(ctx, user.UserID, models.ActionRefreshToken, models.OutcomeFailure, ip, "")
		return "", err
	}

	a.record(ctx, user.UserID, models.ActionRefreshToken, models.OutcomeSuccess, ip, "")
	return accessToken, nil
}

// Logout revokes the presented refresh token. A missing or unknown token
// is treated as already logged out, so the operation is idempotent.
func (a *authService) Logout(ctx context.Context, refreshToken, ip string) error {
	log := logger.FromContext(ctx)

	if refreshToken == "" {
		return nil
	}

	user, err := a.userRepository.FindByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			return nil
		}
		log.Err(err).Msg("refresh token lookup failed")
		return fmt.Errorf("refresh token lookup failed: %w", err)
	}

	if err := a.tokens.Revoke(ctx, user.UserID); err != nil {
		log.Err(err).Int64("id", user.UserID).Msg("error revoking refresh token")
		return fmt.Errorf("error revoking refresh token: %w", err)
	}

	a.record(ctx, user.UserID, models.ActionLogout, models.OutcomeSuccess, ip, "")
	return nil
}

// ChangePassword verifies the caller's current password, replaces the
// stored hash, and revokes the refresh token so every existing session has
// to log in again.
//
// Returns ErrInvalidCredentials when the current password is wrong.
func (a *authService) ChangePassword(ctx context.Context, principal models.Principal, req models.UpdatePasswordRequest, ip string) error {
	log := logger.FromContext(ctx)

	user, err := a.userRepository.FindByID(ctx, principal.UserID)
	if err != nil {
		log.Err(err).Int64("id", principal.UserID).Msg("user search by id failed")
		return fmt.Errorf("user search by id failed: %w", err)
	}

	if err := utils.ComparePasswords(user.PasswordHash, req.CurrentPassword); err != nil {
		a.record(ctx, user.UserID, models.ActionChangePassword, models.OutcomeFailure, ip, "wrong current password")
		return ErrInvalidCredentials
	}

	newHash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	if err := a.userRepository.UpdatePassword(ctx, user.UserID, newHash); err != nil {
		log.Err(err).Int64("id", user.UserID).Msg("error replacing password hash")
		return fmt.Errorf("error replacing password hash: %w", err)
	}

	if err := a.tokens.Revoke(ctx, user.UserID); err != nil {
		log.Err(err).Int64("id", user.UserID).Msg("error revoking refresh token")
		return fmt.Errorf("error revoking refresh token: %w", err)
	}

	a.record(ctx, user.UserID, models.ActionChangePassword, models.OutcomeSuccess, ip, "")
	return nil
}

// RequestEmailChange stages a new address and sends an OTP to it. The
// account's current email keeps working until the code is verified.
//
// Returns store.ErrIdentityAlreadyExists when another account already owns
// the requested address.
func (a *authService) RequestEmailChange(ctx context.Context, principal models.Principal, newEmail, ip string) error {
	log := logger.FromContext(ctx)

	if newEmail == "" {
		return ErrInvalidDataProvided
	}

	if _, err := a.userRepository.FindByIdentifier(ctx, newEmail); err == nil {
		a.record(ctx, principal.UserID, models.ActionChangeEmail, models.OutcomeFailure, ip, "email already taken")
		return store.ErrIdentityAlreadyExists
	} else if !errors.Is(err, store.ErrNoUserWasFound) {
		log.Err(err).Msg("email availability check failed")
		return fmt.Errorf("email availability check failed: %w", err)
	}

	if err := a.userRepository.SetPendingEmail(ctx, principal.UserID, newEmail); err != nil {
		log.Err(err).Int64("id", principal.UserID).Msg("error staging pending email")
		return fmt.Errorf("error staging pending email: %w", err)
	}

	code, err := a.otp.Issue(ctx, principal.UserID)
	if err != nil {
		log.Err(err).Int64("id", principal.UserID).Msg("OTP issuance failed")
		return err
	}

	// The code goes to the address being claimed, not the current one:
	// verifying it proves the caller controls the new mailbox.
	if err := a.mailer.SendOTPEmail(ctx, newEmail, code, a.otpTTL); err != nil {
		log.Err(err).Int64("id", principal.UserID).Msg("OTP delivery failed")
		if a.mailFailureFatal {
			a.record(ctx, principal.UserID, models.ActionChangeEmail, models.OutcomeFailure, ip, "mail delivery failed")
			return ErrOTPDeliveryFailed
		}
	}

	a.record(ctx, principal.UserID, models.ActionChangeEmail, models.OutcomeSuccess, ip, newEmail)
	return nil
}

// VerifyEmailOTP verifies the email-change code and promotes the pending
// address. Returns the new email on success.
//
// On an invalid or expired code the email is left untouched.
func (a *authService) VerifyEmailOTP(ctx context.Context, principal models.Principal, otp, ip string) (string, error) {
	log := logger.FromContext(ctx)

	user, err := a.userRepository.FindByID(ctx, principal.UserID)
	if err != nil {
		log.Err(err).Int64("id", principal.UserID).Msg("user search by id failed")
		return "", fmt.Errorf("user search by id failed: %w", err)
	}

	if err := a.otp.Verify(user, otp, time.Now()); err != nil {
		a.record(ctx, user.UserID, models.ActionVerifyEmailOTP, models.OutcomeFailure, ip, "")
		return "", err
	}

	if err := a.userRepository.ClearOTP(ctx, user.UserID); err != nil {
		log.Err(err).Int64("id", user.UserID).Msg("error consuming OTP")
		return "", fmt.Errorf("error consuming OTP: %w", err)
	}

	newEmail, err := a.userRepository.PromotePendingEmail(ctx, user.UserID)
	if err != nil {
		log.Err(err).Int64("id", user.UserID).Msg("error promoting pending email")
		a.record(ctx, user.UserID, models.ActionVerifyEmailOTP, models.OutcomeFailure, ip, "promotion failed")
		return "", fmt.Errorf("error promoting pending email: %w", err)
	}

	a.record(ctx, user.UserID, models.ActionVerifyEmailOTP, models.OutcomeSuccess, ip, newEmail)
	return newEmail, nil
}

// UpdateRole lets an admin change another account's role.
//
// Fails with ErrForbidden when the caller is not an admin and with
// ErrSelfRoleChange when the target is the caller, preventing accidental
// self-demotion. The audit entry names actor and target distinctly.
func (a *authService) UpdateRole(ctx context.Context, actor models.Principal, targetUserID int64, role, ip string) (models.User, error) {
	log := logger.FromContext(ctx)

	if actor.Role != models.RoleAdmin {
		return models.User{}, ErrForbidden
	}
	if actor.UserID == targetUserID {
		a.record(ctx, actor.UserID, models.ActionUpdateRole, models.OutcomeFailure, ip, "self role change rejected")
		return models.User{}, ErrSelfRoleChange
	}
	if role != models.RoleUser && role != models.RoleAdmin {
		return models.User{}, ErrInvalidDataProvided
	}

	updated, err := a.userRepository.UpdateRole(ctx, targetUserID, role)
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			return models.User{}, err
		}
		log.Err(err).Int64("target_id", targetUserID).Msg("error updating role")
		return models.User{}, fmt.Errorf("error updating role: %w", err)
	}

	a.record(ctx, actor.UserID, models.ActionUpdateRole, models.OutcomeSuccess, ip,
		fmt.Sprintf("actor=%d target=%d role=%s", actor.UserID, targetUserID, role))
	return updated, nil
}

// GetProfile returns the account record for the given id.
func (a *authService) GetProfile(ctx context.Context, userID int64) (models.User, error) {
	return a.userRepository.FindByID(ctx, userID)
}

// GetAllUsers returns every account record.
func (a *authService) GetAllUsers(ctx context.Context) ([]models.User, error) {
	return a.userRepository.GetAllUsers(ctx)
}

// ParseAccessToken validates a raw access token string and returns its
// claims. Expired tokens surface as ErrTokenIsExpired; everything else is
// normalised to ErrTokenIsExpiredOrInvalid.
func (a *authService) ParseAccessToken(ctx context.Context, tokenString string) (models.TokenClaims, error) {
	return a.tokens.VerifyAccessToken(tokenString)
}
