package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/egyw/foodify-auth/internal/logger"
	"github.com/egyw/foodify-auth/internal/service"
	"github.com/egyw/foodify-auth/internal/utils"
	"github.com/egyw/foodify-auth/models"
)

// auth is an HTTP middleware that enforces JWT-based authentication.
//
// It inspects the incoming "Authorization" header, extracts the bearer
// token, validates it via [service.AuthService.ParseAccessToken], and — on
// success — stores the authenticated principal in the request context under
// [utils.PrincipalCtxKey] before delegating to the next handler.
//
// Rejections:
//   - 401 when the header is missing, malformed, or the token is expired
//     (expired tokens carry a distinct body so clients know to refresh).
//   - 403 when the token fails signature or claim validation.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Err(ErrEmptyAuthorizationHeader).Send()
			utils.WriteJSON(w, models.ErrorResponse{Message: ErrEmptyAuthorizationHeader.Error()}, http.StatusUnauthorized)
			return
		}

		tokenString, err := getTokenFromAuthHeader(authHeader)
		if err != nil {
			log.Err(err).Send()
			utils.WriteJSON(w, models.ErrorResponse{Message: err.Error()}, http.StatusUnauthorized)
			return
		}

		ctx := r.Context()
		claims, err := h.services.AuthService.ParseAccessToken(ctx, tokenString)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrTokenIsExpired):
				log.Err(err).Msg("access token expired")
				utils.WriteJSON(w, models.ErrorResponse{Message: service.ErrTokenIsExpired.Error()}, http.StatusUnauthorized)
				return
			default:
				log.Err(err).Msg("error occurred during parsing token")
				utils.WriteJSON(w, models.ErrorResponse{Message: service.ErrTokenIsExpiredOrInvalid.Error()}, http.StatusForbidden)
				return
			}
		}

		// Store the authenticated principal in the context so that
		// downstream handlers can retrieve it without re-parsing the token.
		ctx = context.WithValue(ctx, utils.PrincipalCtxKey, claims.Principal())

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// adminOnly rejects authenticated callers whose role is not admin. It must
// run after [Handler.auth] in the middleware chain.
func (h *Handler) adminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		principal, ok := utils.GetPrincipalFromContext(r.Context())
		if !ok {
			log.Error().Msg("no principal in context on admin route")
			utils.WriteJSON(w, models.ErrorResponse{Message: http.StatusText(http.StatusUnauthorized)}, http.StatusUnauthorized)
			return
		}

		if principal.Role != models.RoleAdmin {
			log.Warn().Int64("id", principal.UserID).Msg("non-admin call to admin route")
			utils.WriteJSON(w, models.ErrorResponse{Message: service.ErrForbidden.Error()}, http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// getTokenFromAuthHeader extracts the bearer token string from a raw
// "Authorization" HTTP header value.
//
// The header is expected to follow the standard format:
//
//	Authorization: <scheme> <token>
//
// It returns the following sentinel errors:
//   - [ErrInvalidAuthorizationHeader] — if the header contains fewer than
//     two space-separated parts (i.e. the token is missing entirely).
//   - [ErrEmptyToken] — if the second part exists but is an empty string.
func getTokenFromAuthHeader(authHeader string) (string, error) {
	parts := strings.Split(authHeader, " ")
	if len(parts) < 2 {
		return "", ErrInvalidAuthorizationHeader
	}

	tokenString := parts[1]
	if tokenString == "" {
		return "", ErrEmptyToken
	}

	return tokenString, nil
}
