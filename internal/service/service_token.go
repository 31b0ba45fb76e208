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
	"github.com/golang-jwt/jwt/v5"
)

// tokenIssuer mints, validates, and rotates session tokens.
//
// Access tokens are stateless: an HMAC signature plus expiry check suffices
// to verify them offline. Refresh tokens are stateful: beyond the signature
// check, the presented value must exactly match the one stored on the
// account record, and overwriting that value is how old sessions die.
type tokenIssuer struct {
	userRepository store.UserRepository

	accessSecret  string
	refreshSecret string
	issuer        string
	accessTTL     time.Duration
	refreshTTL    time.Duration

	logger *logger.Logger
}

// newTokenIssuer wires a token issuer from auth configuration.
func newTokenIssuer(userRepository store.UserRepository, cfg config.Auth, logger *logger.Logger) *tokenIssuer {
	return &tokenIssuer{
		userRepository: userRepository,
		accessSecret:   cfg.AccessTokenSecret,
		refreshSecret:  cfg.RefreshTokenSecret,
		issuer:         cfg.TokenIssuer,
		accessTTL:      cfg.AccessTokenTTL,
		refreshTTL:     cfg.RefreshTokenTTL,
		logger:         logger,
	}
}

// IssueAccessToken mints a short-lived access token carrying the account's
// current identity payload.
func (t *tokenIssuer) IssueAccessToken(user models.User) (string, error) {
	token, err := utils.GenerateJWTToken(t.issuer, user, t.accessTTL, t.accessSecret)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return token, nil
}

// IssueRefreshToken mints a long-lived refresh token and persists it on the
// account, implicitly invalidating any previously issued one.
func (t *tokenIssuer) IssueRefreshToken(ctx context.Context, user models.User) (string, error) {
	token, err := utils.GenerateJWTToken(t.issuer, user, t.refreshTTL, t.refreshSecret)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	if err := t.userRepository.SetRefreshToken(ctx, user.UserID, token); err != nil {
		return "", fmt.Errorf("error persisting refresh token: %w", err)
	}

	return token, nil
}

// VerifyAccessToken performs the stateless signature and expiry check on an
// access token.
//
// Expiry is reported as [ErrTokenIsExpired] so transports can tell clients
// to re-authenticate; every other failure is normalised to
// [ErrTokenIsExpiredOrInvalid].
func (t *tokenIssuer) VerifyAccessToken(tokenString string) (models.TokenClaims, error) {
	claims, err := utils.ValidateAndParseJWTToken(tokenString, t.accessSecret, t.issuer)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return models.TokenClaims{}, ErrTokenIsExpired
		}
		return models.TokenClaims{}, ErrTokenIsExpiredOrInvalid
	}

	return claims, nil
}

// RotateAccess validates a presented refresh token and mints a fresh access
// token. The refresh token itself is not rotated on this path.
//
// Check order:
//  1. empty token → [ErrMissingToken]
//  2. no account stores this exact value → [ErrUnknownToken]
//  3. signature/expiry failure, or the decoded subject does not match the
//     account holding the stored value → [ErrTokenIsExpiredOrInvalid]
//
// The new access token is built from the account's current state, so role
// or premium changes since login take effect on the next refresh.
func (t *tokenIssuer) RotateAccess(ctx context.Context, refreshToken string) (string, models.User, error) {
	log := logger.FromContext(ctx)

	if refreshToken == "" {
		return "", models.User{}, ErrMissingToken
	}

	user, err := t.userRepository.FindByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			return "", models.User{}, ErrUnknownToken
		}
		return "", models.User{}, fmt.Errorf("refresh token lookup failed: %w", err)
	}

	claims, err := utils.ValidateAndParseJWTToken(refreshToken, t.refreshSecret, t.issuer)
	if err != nil || claims.UserID != user.UserID {
		log.Err(err).Int64("id", user.UserID).Msg("stored refresh token failed verification")
		return "", models.User{}, ErrTokenIsExpiredOrInvalid
	}

	accessToken, err := t.IssueAccessToken(user)
	if err != nil {
		return "", models.User{}, err
	}

	return accessToken, user, nil
}

// Revoke clears the stored refresh token; subsequent RotateAccess calls
// with the old value fail with [ErrUnknownToken].
func (t *tokenIssuer) Revoke(ctx context.Context, userID int64) error {
	return t.userRepository.ClearRefreshToken(ctx, userID)
}
