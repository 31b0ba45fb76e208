package store

import (
	"context"

	"github.com/egyw/foodify-auth/internal/config"
	"github.com/egyw/foodify-auth/internal/logger"
)

// Storages aggregates every repository backed by the shared database
// connection.
type Storages struct {
	UserRepository     UserRepository
	BanRepository      BanRepository
	ActivityRepository ActivityRepository
}

// NewStorages connects to PostgreSQL, runs migrations, and wires all
// repositories onto the shared connection.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	db, err := NewConnectPostgres(ctx, cfg.DB, log)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(); err != nil {
		return nil, err
	}

	return &Storages{
		UserRepository:     NewUserRepository(db, log),
		BanRepository:      NewBanRepository(db, log),
		ActivityRepository: NewActivityRepository(db, log),
	}, nil
}
