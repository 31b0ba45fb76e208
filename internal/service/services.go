package service

import (
	"github.com/egyw/foodify-auth/internal/config"
	"github.com/egyw/foodify-auth/internal/logger"
	"github.com/egyw/foodify-auth/internal/store"
)

// Services aggregates every service the transport layer depends on.
type Services struct {
	AuthService
	ActivityService
}

// NewServices wires the service layer on top of the storage layer and the
// external collaborators (login gate, OTP mailer).
func NewServices(
	storages *store.Storages,
	gate LoginGate,
	mailer OTPMailer,
	cfg *config.StructuredConfig,
	logger *logger.Logger,
) *Services {
	activity := NewActivityService(storages.ActivityRepository, logger)

	return &Services{
		AuthService:     NewAuthService(storages.UserRepository, gate, mailer, activity, cfg.Auth, cfg.Mailer, logger),
		ActivityService: activity,
	}
}
