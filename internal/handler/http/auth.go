package http

import (
	"net/http"
	"time"

	"github.com/egyw/foodify-auth/internal/logger"
	"github.com/egyw/foodify-auth/internal/utils"
	"github.com/egyw/foodify-auth/models"
)

// refreshTokenCookie is the HTTP-only cookie carrying the refresh token.
// The token never appears in a response body.
const refreshTokenCookie = "refreshToken"

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.RegisterRequest
	if !h.bindJSON(w, r, &req) {
		return
	}

	registeredUser, err := h.services.AuthService.Register(ctx, req, clientIP(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, models.DataResponse{
		Message: "registration successful",
		Data:    registeredUser.Profile(),
	}, http.StatusCreated)
}

// login is step one of the two-step login. A correct password triggers OTP
// delivery; no tokens are issued here.
func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.LoginRequest
	if !h.bindJSON(w, r, &req) {
		return
	}

	user, err := h.services.AuthService.Login(ctx, req, clientIP(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	logger.FromRequest(r).Debug().Int64("id", user.UserID).Msg("OTP issued for login")

	utils.WriteJSON(w, models.MessageResponse{
		Message: "OTP has been sent to your email",
	}, http.StatusOK)
}

// verifyLoginOTP is step two of the login. On success the access token is
// returned in the body and the refresh token is set as an HTTP-only cookie.
func (h *Handler) verifyLoginOTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.VerifyOTPRequest
	if !h.bindJSON(w, r, &req) {
		return
	}

	user, tokens, err := h.services.AuthService.VerifyLoginOTP(ctx, req, clientIP(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.setRefreshCookie(w, tokens.RefreshToken)

	utils.WriteJSON(w, models.LoginSuccessResponse{
		Message:     "login successful",
		Data:        user.Profile(),
		AccessToken: tokens.AccessToken,
	}, http.StatusOK)
}

// refreshToken exchanges the refresh cookie for a fresh access token.
func (h *Handler) refreshToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	accessToken, err := h.services.AuthService.RefreshAccessToken(ctx, h.refreshCookieValue(r), clientIP(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, models.AccessTokenResponse{
		Message:     "access token refreshed",
		AccessToken: accessToken,
	}, http.StatusOK)
}

// logout revokes the refresh token and clears its cookie. Calling it
// without a valid session still succeeds.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.services.AuthService.Logout(ctx, h.refreshCookieValue(r), clientIP(r)); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.clearRefreshCookie(w)

	utils.WriteJSON(w, models.MessageResponse{
		Message: "logout successful",
	}, http.StatusOK)
}

// refreshCookieValue returns the refresh cookie's value, or "" when the
// cookie is absent. Absence is an application-level condition handled by
// the service layer, not a transport error.
func (h *Handler) refreshCookieValue(r *http.Request) string {
	cookie, err := r.Cookie(refreshTokenCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (h *Handler) setRefreshCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshTokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.refreshTokenTTL / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshTokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
