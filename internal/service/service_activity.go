package service

import (
	"context"

	"github.com/egyw/foodify-auth/internal/logger"
	"github.com/egyw/foodify-auth/internal/store"
	"github.com/egyw/foodify-auth/models"
)

// activityService is the concrete implementation of ActivityService.
type activityService struct {
	activityRepository store.ActivityRepository
	logger             *logger.Logger
}

// NewActivityService constructs an ActivityService backed by the given
// repository.
func NewActivityService(activityRepository store.ActivityRepository, logger *logger.Logger) ActivityService {
	return &activityService{
		activityRepository: activityRepository,
		logger:             logger,
	}
}

// Record appends one audit entry. A storage failure is logged with full
// detail and swallowed: audit writes never fail the auth flow that
// produced them.
func (a *activityService) Record(ctx context.Context, entry models.ActivityEntry) {
	log := logger.FromContext(ctx)

	if err := a.activityRepository.Append(ctx, entry); err != nil {
		log.Err(err).
			Int64("user_id", entry.UserID).
			Str("action", entry.Action).
			Str("outcome", entry.Outcome).
			Msg("failed to record activity entry")
	}
}

// List returns audit entries matching the filter.
func (a *activityService) List(ctx context.Context, filter models.ActivityFilter) ([]models.ActivityEntry, error) {
	return a.activityRepository.List(ctx, filter)
}
