package http

import (
	"net/http"

	"github.com/egyw/foodify-auth/internal/logger"
	"github.com/egyw/foodify-auth/internal/utils"
	"github.com/egyw/foodify-auth/models"
)

func (h *Handler) profile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	principal, ok := utils.GetPrincipalFromContext(ctx)
	if !ok {
		log.Error().Msg("no principal in context on authenticated route")
		utils.WriteJSON(w, models.ErrorResponse{Message: http.StatusText(http.StatusUnauthorized)}, http.StatusUnauthorized)
		return
	}

	user, err := h.services.AuthService.GetProfile(ctx, principal.UserID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, models.DataResponse{
		Message: "profile retrieved",
		Data:    user.Profile(),
	}, http.StatusOK)
}

// updatePassword verifies the current password, stores the new hash, and
// revokes the refresh token. The cookie is cleared so clients do not retry
// refresh with a token that no longer exists.
func (h *Handler) updatePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	principal, ok := utils.GetPrincipalFromContext(ctx)
	if !ok {
		log.Error().Msg("no principal in context on authenticated route")
		utils.WriteJSON(w, models.ErrorResponse{Message: http.StatusText(http.StatusUnauthorized)}, http.StatusUnauthorized)
		return
	}

	var req models.UpdatePasswordRequest
	if !h.bindJSON(w, r, &req) {
		return
	}

	if err := h.services.AuthService.ChangePassword(ctx, principal, req, clientIP(r)); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.clearRefreshCookie(w)

	utils.WriteJSON(w, models.MessageResponse{
		Message: "password updated, please log in again",
	}, http.StatusOK)
}

// requestEmailChange stages a new email address and sends an OTP to it.
// The account's current address keeps working until verification.
func (h *Handler) requestEmailChange(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	principal, ok := utils.GetPrincipalFromContext(ctx)
	if !ok {
		log.Error().Msg("no principal in context on authenticated route")
		utils.WriteJSON(w, models.ErrorResponse{Message: http.StatusText(http.StatusUnauthorized)}, http.StatusUnauthorized)
		return
	}

	var req models.UpdateEmailRequest
	if !h.bindJSON(w, r, &req) {
		return
	}

	if err := h.services.AuthService.RequestEmailChange(ctx, principal, req.NewEmail, clientIP(r)); err != nil {
		h.writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, models.MessageResponse{
		Message: "OTP has been sent to the new email address",
	}, http.StatusOK)
}

func (h *Handler) verifyEmailOTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	principal, ok := utils.GetPrincipalFromContext(ctx)
	if !ok {
		log.Error().Msg("no principal in context on authenticated route")
		utils.WriteJSON(w, models.ErrorResponse{Message: http.StatusText(http.StatusUnauthorized)}, http.StatusUnauthorized)
		return
	}

	var req models.VerifyEmailOTPRequest
	if !h.bindJSON(w, r, &req) {
		return
	}

	newEmail, err := h.services.AuthService.VerifyEmailOTP(ctx, principal, req.OTP, clientIP(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, models.DataResponse{
		Message: "email updated",
		Data:    map[string]string{"email": newEmail},
	}, http.StatusOK)
}
