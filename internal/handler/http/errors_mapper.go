package http

import (
	"errors"
	"net/http"

	"github.com/egyw/foodify-auth/internal/logger"
	"github.com/egyw/foodify-auth/internal/service"
	"github.com/egyw/foodify-auth/internal/store"
	"github.com/egyw/foodify-auth/internal/utils"
	"github.com/egyw/foodify-auth/models"
	"github.com/getsentry/sentry-go"
)

var errorStatusMap = map[error]int{
	service.ErrInvalidDataProvided: http.StatusBadRequest,
	service.ErrInvalidCredentials:  http.StatusUnauthorized,
	service.ErrInvalidOrExpiredOTP: http.StatusBadRequest,
	service.ErrIPBanned:            http.StatusForbidden,

	service.ErrMissingToken:            http.StatusUnauthorized,
	service.ErrTokenIsExpired:          http.StatusUnauthorized,
	service.ErrUnknownToken:            http.StatusForbidden,
	service.ErrTokenIsExpiredOrInvalid: http.StatusForbidden,

	service.ErrForbidden:           http.StatusForbidden,
	service.ErrSelfRoleChange:      http.StatusBadRequest,
	service.ErrOTPDeliveryFailed:   http.StatusBadGateway,
	service.ErrTokenCreationFailed: http.StatusInternalServerError,

	store.ErrIdentityAlreadyExists: http.StatusConflict,
	store.ErrNoUserWasFound:        http.StatusNotFound,
	store.ErrNoPendingEmail:        http.StatusBadRequest,
}

func statusFromError(err error) int {
	var rateLimited *service.RateLimitedError
	if errors.As(err, &rateLimited) {
		return http.StatusTooManyRequests
	}

	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// writeError maps err to its HTTP status and writes the error envelope.
//
// Client errors (4xx) expose the sentinel's message; server errors keep the
// body generic, are logged in full, and are reported to Sentry.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromRequest(r)
	status := statusFromError(err)

	if status >= http.StatusInternalServerError {
		log.Err(err).Msg("request failed with server error")
		if hub := sentry.GetHubFromContext(r.Context()); hub != nil {
			hub.CaptureException(err)
		} else {
			sentry.CaptureException(err)
		}
		utils.WriteJSON(w, models.ErrorResponse{Message: http.StatusText(status)}, status)
		return
	}

	log.Err(err).Msg("request rejected")
	utils.WriteJSON(w, models.ErrorResponse{Message: err.Error()}, status)
}
