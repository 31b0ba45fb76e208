package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/egyw/foodify-auth/internal/logger"
)

// banRepository is the PostgreSQL-backed implementation of [BanRepository].
// Bans are deliberately durable: a row flips to banned when the limiter's
// escalation policy fires and stays banned until an operator clears it.
type banRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewBanRepository constructs a [BanRepository] backed by the provided
// database connection and logger.
func NewBanRepository(db *DB, logger *logger.Logger) BanRepository {
	logger.Debug().Msg("creating ban repository")
	return &banRepository{
		db:     db,
		logger: logger,
	}
}

// IsBanned reports whether the IP currently carries an active ban.
// An absent row means the IP was never banned.
func (r *banRepository) IsBanned(ctx context.Context, ip string) (bool, error) {
	log := logger.FromContext(ctx)

	var banned bool
	err := r.db.QueryRowContext(ctx, isIPBanned, ip).Scan(&banned)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}

		log.Err(err).Str("func", "*banRepository.IsBanned").Msg("error querying ip ban")
		return false, fmt.Errorf("unexpected DB error: %w", err)
	}

	return banned, nil
}

// RecordBan creates or re-activates the ban row for the IP and bumps its
// ban counter, keeping a history of how often the address has escalated.
func (r *banRepository) RecordBan(ctx context.Context, ip, reason string) error {
	log := logger.FromContext(ctx)

	if _, err := r.db.ExecContext(ctx, recordIPBan, ip, reason); err != nil {
		log.Err(err).Str("func", "*banRepository.RecordBan").Str("ip", ip).Msg("error recording ip ban")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	return nil
}

// ClearBan lifts the ban. This is the operator-only unban path; nothing in
// the request flows calls it.
func (r *banRepository) ClearBan(ctx context.Context, ip string) error {
	log := logger.FromContext(ctx)

	if _, err := r.db.ExecContext(ctx, clearIPBan, ip); err != nil {
		log.Err(err).Str("func", "*banRepository.ClearBan").Str("ip", ip).Msg("error clearing ip ban")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	return nil
}
