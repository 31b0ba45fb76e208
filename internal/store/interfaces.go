package store

import (
	"context"
	"time"

	"github.com/egyw/foodify-auth/models"
)

// UserRepository is the durable credential store: account records plus the
// conditional single-field writes the auth flows depend on. Each flow
// touches exactly one account, so no cross-account transactions exist.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindByIdentifier(ctx context.Context, identifier string) (models.User, error)
	FindByID(ctx context.Context, userID int64) (models.User, error)
	FindByRefreshToken(ctx context.Context, token string) (models.User, error)
	GetAllUsers(ctx context.Context) ([]models.User, error)

	SetOTP(ctx context.Context, userID int64, code string, expiresAt time.Time) error
	ClearOTP(ctx context.Context, userID int64) error
	SetRefreshToken(ctx context.Context, userID int64, token string) error
	ClearRefreshToken(ctx context.Context, userID int64) error
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
	SetPendingEmail(ctx context.Context, userID int64, email string) error
	PromotePendingEmail(ctx context.Context, userID int64) (string, error)
	UpdateRole(ctx context.Context, userID int64, role string) (models.User, error)
}

// BanRepository persists durable, operator-cleared IP bans. A ban is a
// harder block than a lock: it never expires on its own.
type BanRepository interface {
	IsBanned(ctx context.Context, ip string) (bool, error)
	RecordBan(ctx context.Context, ip, reason string) error
	ClearBan(ctx context.Context, ip string) error
}

// ActivityRepository is the append-only audit log store.
type ActivityRepository interface {
	Append(ctx context.Context, entry models.ActivityEntry) error
	List(ctx context.Context, filter models.ActivityFilter) ([]models.ActivityEntry, error)
}
