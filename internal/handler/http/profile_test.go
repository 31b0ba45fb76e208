package http

import (
	"context"
	"net/http"
	"testing"

	"github.com/egyw/foodify-auth/internal/service"
	"github.com/egyw/foodify-auth/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdatePasswordHandler_ClearsRefreshCookie(t *testing.T) {
	auth, withBearer := authedRequest(userClaims(models.RoleUser))
	router := newTestRouter(auth, nil)

	rr := doJSON(t, router, http.MethodPatch, "/api/user/profile/password",
		`{"currentPassword":"old-pass","newPassword":"new-pass","confirmNewPassword":"new-pass"}`, withBearer)

	require.Equal(t, http.StatusOK, rr.Code)

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, refreshTokenCookie, cookies[0].Name)
	assert.Negative(t, cookies[0].MaxAge, "cookie must be expired after a password change")
}

func TestUpdatePasswordHandler_WrongCurrentPassword(t *testing.T) {
	auth, withBearer := authedRequest(userClaims(models.RoleUser))
	auth.changePasswordFn = func(ctx context.Context, principal models.Principal, req models.UpdatePasswordRequest, ip string) error {
		return service.ErrInvalidCredentials
	}
	router := newTestRouter(auth, nil)

	rr := doJSON(t, router, http.MethodPatch, "/api/user/profile/password",
		`{"currentPassword":"wrong","newPassword":"new-pass","confirmNewPassword":"new-pass"}`, withBearer)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Empty(t, rr.Result().Cookies(), "failed change must not touch the session")
}

func TestUpdatePasswordHandler_ConfirmationMismatch(t *testing.T) {
	auth, withBearer := authedRequest(userClaims(models.RoleUser))
	router := newTestRouter(auth, nil)

	rr := doJSON(t, router, http.MethodPatch, "/api/user/profile/password",
		`{"currentPassword":"old-pass","newPassword":"new-pass","confirmNewPassword":"other"}`, withBearer)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRequestEmailChangeHandler_Success(t *testing.T) {
	auth, withBearer := authedRequest(userClaims(models.RoleUser))

	var requestedEmail string
	auth.requestEmailChangeFn = func(ctx context.Context, principal models.Principal, newEmail, ip string) error {
		requestedEmail = newEmail
		return nil
	}
	router := newTestRouter(auth, nil)

	rr := doJSON(t, router, http.MethodPost, "/api/user/profile/email",
		`{"newEmail":"new@example.com"}`, withBearer)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "new@example.com", requestedEmail)
}

func TestRequestEmailChangeHandler_InvalidAddress(t *testing.T) {
	auth, withBearer := authedRequest(userClaims(models.RoleUser))
	router := newTestRouter(auth, nil)

	rr := doJSON(t, router, http.MethodPost, "/api/user/profile/email",
		`{"newEmail":"not-an-email"}`, withBearer)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestVerifyEmailOTPHandler_Success(t *testing.T) {
	auth, withBearer := authedRequest(userClaims(models.RoleUser))
	auth.verifyEmailOTPFn = func(ctx context.Context, principal models.Principal, otp, ip string) (string, error) {
		return "new@example.com", nil
	}
	router := newTestRouter(auth, nil)

	rr := doJSON(t, router, http.MethodPost, "/api/user/profile/verifyEmailOtp",
		`{"otp":"123456"}`, withBearer)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "new@example.com")
}

func TestVerifyEmailOTPHandler_InvalidCode(t *testing.T) {
	auth, withBearer := authedRequest(userClaims(models.RoleUser))
	auth.verifyEmailOTPFn = func(ctx context.Context, principal models.Principal, otp, ip string) (string, error) {
		return "", service.ErrInvalidOrExpiredOTP
	}
	router := newTestRouter(auth, nil)

	rr := doJSON(t, router, http.MethodPost, "/api/user/profile/verifyEmailOtp",
		`{"otp":"000000"}`, withBearer)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
