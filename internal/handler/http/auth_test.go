package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/egyw/foodify-auth/internal/config"
	"github.com/egyw/foodify-auth/internal/logger"
	"github.com/egyw/foodify-auth/internal/service"
	"github.com/egyw/foodify-auth/internal/store"
	"github.com/egyw/foodify-auth/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─────────────────────────────────────────────
// Mock: service.AuthService
// ─────────────────────────────────────────────

type mockAuthService struct {
	registerFn           func(ctx context.Context, req models.RegisterRequest, ip string) (models.User, error)
	loginFn              func(ctx context.Context, req models.LoginRequest, ip string) (models.User, error)
	verifyLoginOTPFn     func(ctx context.Context, req models.VerifyOTPRequest, ip string) (models.User, models.TokenPair, error)
	refreshAccessTokenFn func(ctx context.Context, refreshToken, ip string) (string, error)
	logoutFn             func(ctx context.Context, refreshToken, ip string) error
	changePasswordFn     func(ctx context.Context, principal models.Principal, req models.UpdatePasswordRequest, ip string) error
	requestEmailChangeFn func(ctx context.Context, principal models.Principal, newEmail, ip string) error
	verifyEmailOTPFn     func(ctx context.Context, principal models.Principal, otp, ip string) (string, error)
	updateRoleFn         func(ctx context.Context, actor models.Principal, targetUserID int64, role, ip string) (models.User, error)
	getProfileFn         func(ctx context.Context, userID int64) (models.User, error)
	getAllUsersFn        func(ctx context.Context) ([]models.User, error)
	parseAccessTokenFn   func(ctx context.Context, tokenString string) (models.TokenClaims, error)
}

func (m *mockAuthService) Register(ctx context.Context, req models.RegisterRequest, ip string) (models.User, error) {
	if m.registerFn != nil {
		return m.registerFn(ctx, req, ip)
	}
	return models.User{}, nil
}

func (m *mockAuthService) Login(ctx context.Context, req models.LoginRequest, ip string) (models.User, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, req, ip)
	}
	return models.User{}, nil
}

func (m *mockAuthService) VerifyLoginOTP(ctx context.Context, req models.VerifyOTPRequest, ip string) (models.User, models.TokenPair, error) {
	if m.verifyLoginOTPFn != nil {
		return m.verifyLoginOTPFn(ctx, req, ip)
	}
	return models.User{}, models.TokenPair{}, nil
}

func (m *mockAuthService) RefreshAccessToken(ctx context.Context, refreshToken, ip string) (string, error) {
	if m.refreshAccessTokenFn != nil {
		return m.refreshAccessTokenFn(ctx, refreshToken, ip)
	}
	return "", nil
}

func (m *mockAuthService) Logout(ctx context.Context, refreshToken, ip string) error {
	if m.logoutFn != nil {
		return m.logoutFn(ctx, refreshToken, ip)
	}
	return nil
}

func (m *mockAuthService) ChangePassword(ctx context.Context, principal models.Principal, req models.UpdatePasswordRequest, ip string) error {
	if m.changePasswordFn != nil {
		return m.changePasswordFn(ctx, principal, req, ip)
	}
	return nil
}

func (m *mockAuthService) RequestEmailChange(ctx context.Context, principal models.Principal, newEmail, ip string) error {
	if m.requestEmailChangeFn != nil {
		return m.requestEmailChangeFn(ctx, principal, newEmail, ip)
	}
	return nil
}

func (m *mockAuthService) VerifyEmailOTP(ctx context.Context, principal models.Principal, otp, ip string) (string, error) {
	if m.verifyEmailOTPFn != nil {
		return m.verifyEmailOTPFn(ctx, principal, otp, ip)
	}
	return "", nil
}

func (m *mockAuthService) UpdateRole(ctx context.Context, actor models.Principal, targetUserID int64, role, ip string) (models.User, error) {
	if m.updateRoleFn != nil {
		return m.updateRoleFn(ctx, actor, targetUserID, role, ip)
	}
	return models.User{}, nil
}

func (m *mockAuthService) GetProfile(ctx context.Context, userID int64) (models.User, error) {
	if m.getProfileFn != nil {
		return m.getProfileFn(ctx, userID)
	}
	return models.User{}, nil
}

func (m *mockAuthService) GetAllUsers(ctx context.Context) ([]models.User, error) {
	if m.getAllUsersFn != nil {
		return m.getAllUsersFn(ctx)
	}
	return nil, nil
}

func (m *mockAuthService) ParseAccessToken(ctx context.Context, tokenString string) (models.TokenClaims, error) {
	if m.parseAccessTokenFn != nil {
		return m.parseAccessTokenFn(ctx, tokenString)
	}
	return models.TokenClaims{}, service.ErrTokenIsExpiredOrInvalid
}

// ─────────────────────────────────────────────
// Mock: service.ActivityService
// ─────────────────────────────────────────────

type mockActivityService struct {
	listFn func(ctx context.Context, filter models.ActivityFilter) ([]models.ActivityEntry, error)
}

func (m *mockActivityService) Record(ctx context.Context, entry models.ActivityEntry) {}

func (m *mockActivityService) List(ctx context.Context, filter models.ActivityFilter) ([]models.ActivityEntry, error) {
	if m.listFn != nil {
		return m.listFn(ctx, filter)
	}
	return nil, nil
}

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

func newTestRouter(auth *mockAuthService, activity *mockActivityService) http.Handler {
	if auth == nil {
		auth = &mockAuthService{}
	}
	if activity == nil {
		activity = &mockActivityService{}
	}

	cfg := &config.StructuredConfig{
		Auth:   config.Auth{RefreshTokenTTL: 720 * time.Hour},
		Server: config.Server{ThrottleRPS: 1000},
	}

	h := NewHandler(&service.Services{
		AuthService:     auth,
		ActivityService: activity,
	}, cfg, logger.Nop())

	return h.Init()
}

func doJSON(t *testing.T, router http.Handler, method, target, body string, mutate func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if mutate != nil {
		mutate(req)
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func authedRequest(claims models.TokenClaims) (*mockAuthService, func(*http.Request)) {
	auth := &mockAuthService{
		parseAccessTokenFn: func(ctx context.Context, tokenString string) (models.TokenClaims, error) {
			return claims, nil
		},
	}
	return auth, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer test-token")
	}
}

func userClaims(role string) models.TokenClaims {
	return models.TokenClaims{UserID: 1, Username: "budi", Email: "budi@example.com", Role: role}
}

// ─────────────────────────────────────────────
// Registration and login
// ─────────────────────────────────────────────

func TestRegisterHandler_Created(t *testing.T) {
	auth := &mockAuthService{
		registerFn: func(ctx context.Context, req models.RegisterRequest, ip string) (models.User, error) {
			return models.User{UserID: 1, Username: req.Username, Email: req.Email, Role: models.RoleUser}, nil
		},
	}
	router := newTestRouter(auth, nil)

	rr := doJSON(t, router, http.MethodPost, "/api/user/register",
		`{"username":"budi","email":"budi@example.com","password":"secret1"}`, nil)

	require.Equal(t, http.StatusCreated, rr.Code)

	var resp models.DataResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.NotNil(t, resp.Data)
	assert.NotContains(t, rr.Body.String(), "password", "no credential material in the response")
}

func TestRegisterHandler_ValidationFailure(t *testing.T) {
	router := newTestRouter(nil, nil)

	rr := doJSON(t, router, http.MethodPost, "/api/user/register",
		`{"username":"b!","email":"not-an-email","password":"x"}`, nil)

	require.Equal(t, http.StatusBadRequest, rr.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.NotNil(t, resp.Error, "expected per-field validation details")
}

func TestRegisterHandler_Duplicate(t *testing.T) {
	auth := &mockAuthService{
		registerFn: func(ctx context.Context, req models.RegisterRequest, ip string) (models.User, error) {
			return models.User{}, store.ErrIdentityAlreadyExists
		},
	}
	router := newTestRouter(auth, nil)

	rr := doJSON(t, router, http.MethodPost, "/api/user/register",
		`{"username":"budi","email":"budi@example.com","password":"secret1"}`, nil)

	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestLoginHandler_OTPSentWithoutTokens(t *testing.T) {
	auth := &mockAuthService{
		loginFn: func(ctx context.Context, req models.LoginRequest, ip string) (models.User, error) {
			return models.User{UserID: 1, Username: "budi"}, nil
		},
	}
	router := newTestRouter(auth, nil)

	rr := doJSON(t, router, http.MethodPost, "/api/user/login",
		`{"identifier":"budi","password":"secret1"}`, nil)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), "accessToken", "step one must not expose tokens")
	assert.Empty(t, rr.Result().Cookies(), "step one must not set the refresh cookie")
}

func TestLoginHandler_InvalidCredentials(t *testing.T) {
	auth := &mockAuthService{
		loginFn: func(ctx context.Context, req models.LoginRequest, ip string) (models.User, error) {
			return models.User{}, service.ErrInvalidCredentials
		},
	}
	router := newTestRouter(auth, nil)

	rr := doJSON(t, router, http.MethodPost, "/api/user/login",
		`{"identifier":"ghost","password":"whatever"}`, nil)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestLoginHandler_RateLimited(t *testing.T) {
	auth := &mockAuthService{
		loginFn: func(ctx context.Context, req models.LoginRequest, ip string) (models.User, error) {
			return models.User{}, &service.RateLimitedError{RetryAfter: 95 * time.Second}
		},
	}
	router := newTestRouter(auth, nil)

	rr := doJSON(t, router, http.MethodPost, "/api/user/login",
		`{"identifier":"budi","password":"whatever"}`, nil)

	require.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Contains(t, rr.Body.String(), "1 minutes 35 seconds")
}

func TestLoginHandler_BannedIP(t *testing.T) {
	auth := &mockAuthService{
		loginFn: func(ctx context.Context, req models.LoginRequest, ip string) (models.User, error) {
			return models.User{}, service.ErrIPBanned
		},
	}
	router := newTestRouter(auth, nil)

	rr := doJSON(t, router, http.MethodPost, "/api/user/login",
		`{"identifier":"budi","password":"whatever"}`, nil)

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestVerifyLoginOTPHandler_SetsRefreshCookie(t *testing.T) {
	auth := &mockAuthService{
		verifyLoginOTPFn: func(ctx context.Context, req models.VerifyOTPRequest, ip string) (models.User, models.TokenPair, error) {
			return models.User{UserID: 1, Username: "budi", Role: models.RoleUser},
				models.TokenPair{AccessToken: "access-token", RefreshToken: "refresh-token"}, nil
		},
	}
	router := newTestRouter(auth, nil)

	rr := doJSON(t, router, http.MethodPost, "/api/user/verifyLoginOtp",
		`{"identifier":"budi","otp":"123456"}`, nil)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp models.LoginSuccessResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "access-token", resp.AccessToken)
	assert.NotContains(t, rr.Body.String(), "refresh-token", "refresh token travels only in the cookie")

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, refreshTokenCookie, cookies[0].Name)
	assert.Equal(t, "refresh-token", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, int((720 * time.Hour).Seconds()), cookies[0].MaxAge)
}

func TestVerifyLoginOTPHandler_InvalidCode(t *testing.T) {
	auth := &mockAuthService{
		verifyLoginOTPFn: func(ctx context.Context, req models.VerifyOTPRequest, ip string) (models.User, models.TokenPair, error) {
			return models.User{}, models.TokenPair{}, service.ErrInvalidOrExpiredOTP
		},
	}
	router := newTestRouter(auth, nil)

	rr := doJSON(t, router, http.MethodPost, "/api/user/verifyLoginOtp",
		`{"identifier":"budi","otp":"000000"}`, nil)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

// ─────────────────────────────────────────────
// Refresh and logout
// ─────────────────────────────────────────────

func TestRefreshHandler_Success(t *testing.T) {
	var seenToken string
	auth := &mockAuthService{
		refreshAccessTokenFn: func(ctx context.Context, refreshToken, ip string) (string, error) {
			seenToken = refreshToken
			return "new-access-token", nil
		},
	}
	router := newTestRouter(auth, nil)

	rr := doJSON(t, router, http.MethodGet, "/api/user/token", "", func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: refreshTokenCookie, Value: "stored-refresh"})
	})

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "stored-refresh", seenToken)

	var resp models.AccessTokenResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "new-access-token", resp.AccessToken)
}

func TestRefreshHandler_MissingCookie(t *testing.T) {
	auth := &mockAuthService{
		refreshAccessTokenFn: func(ctx context.Context, refreshToken, ip string) (string, error) {
			return "", service.ErrMissingToken
		},
	}
	router := newTestRouter(auth, nil)

	rr := doJSON(t, router, http.MethodGet, "/api/user/token", "", nil)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRefreshHandler_UnknownToken(t *testing.T) {
	auth := &mockAuthService{
		refreshAccessTokenFn: func(ctx context.Context, refreshToken, ip string) (string, error) {
			return "", service.ErrUnknownToken
		},
	}
	router := newTestRouter(auth, nil)

	rr := doJSON(t, router, http.MethodGet, "/api/user/token", "", func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: refreshTokenCookie, Value: "stale-refresh"})
	})

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestLogoutHandler_ClearsCookie(t *testing.T) {
	router := newTestRouter(nil, nil)

	rr := doJSON(t, router, http.MethodDelete, "/api/user/logout", "", func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: refreshTokenCookie, Value: "stored-refresh"})
	})

	require.Equal(t, http.StatusOK, rr.Code)

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, refreshTokenCookie, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestLogoutHandler_IdempotentWithoutCookie(t *testing.T) {
	router := newTestRouter(nil, nil)

	rr := doJSON(t, router, http.MethodDelete, "/api/user/logout", "", nil)

	assert.Equal(t, http.StatusOK, rr.Code)
}
