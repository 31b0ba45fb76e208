// Package http implements the HTTP transport layer of the application.
// It provides middleware, route handlers, and request/response utilities
// for the REST API. Authentication, tracing, logging, and throttling
// concerns are all handled at this layer before requests are forwarded to
// the service layer.
package http

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/egyw/foodify-auth/internal/config"
	"github.com/egyw/foodify-auth/internal/logger"
	"github.com/egyw/foodify-auth/internal/service"
	"github.com/egyw/foodify-auth/internal/utils"
	"github.com/egyw/foodify-auth/models"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	services *service.Services
	validate *validator.Validate

	// refreshTokenTTL sets the refresh cookie max-age.
	refreshTokenTTL time.Duration

	// throttleRPS caps requests per second per client at the router level.
	throttleRPS float64

	logger *logger.Logger
}

func NewHandler(services *service.Services, cfg *config.StructuredConfig, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services:        services,
		validate:        validator.New(validator.WithRequiredStructEnabled()),
		refreshTokenTTL: cfg.Auth.RefreshTokenTTL,
		throttleRPS:     cfg.Server.ThrottleRPS,
		logger:          logger,
	}
}

// bindJSON decodes the request body into dst and runs field validation.
//
// On failure it writes the 400 response itself — a bare message for broken
// JSON, a per-field detail map for validation errors — and returns false.
func (h *Handler) bindJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	log := logger.FromRequest(r)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		utils.WriteJSON(w, models.ErrorResponse{Message: "Invalid JSON was passed"}, http.StatusBadRequest)
		return false
	}

	if err := h.validate.Struct(dst); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			log.Err(err).Msg("request validation failed")
			utils.WriteJSON(w, models.ErrorResponse{
				Message: "validation failed",
				Error:   validationDetails(validationErrs),
			}, http.StatusBadRequest)
			return false
		}

		log.Err(err).Msg("request validation failed")
		utils.WriteJSON(w, models.ErrorResponse{Message: "validation failed"}, http.StatusBadRequest)
		return false
	}

	return true
}

// validationDetails flattens validator errors into a field → message map
// for the error envelope.
func validationDetails(errs validator.ValidationErrors) map[string]string {
	details := make(map[string]string, len(errs))
	for _, fieldErr := range errs {
		details[fieldErr.Field()] = "failed on rule: " + fieldErr.Tag()
	}
	return details
}

// clientIP returns the request's source IP. The router runs behind
// [middleware.RealIP], so RemoteAddr already reflects forwarding headers.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
