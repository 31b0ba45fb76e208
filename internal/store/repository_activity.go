package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/egyw/foodify-auth/internal/logger"
	"github.com/egyw/foodify-auth/models"
)

// defaultActivityLimit bounds unbounded admin listings.
const defaultActivityLimit = 100

// activityRepository is the PostgreSQL-backed implementation of
// [ActivityRepository]. Entries are append-only; there is no update or
// delete path.
type activityRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewActivityRepository constructs an [ActivityRepository] backed by the
// provided database connection and logger.
func NewActivityRepository(db *DB, logger *logger.Logger) ActivityRepository {
	logger.Debug().Msg("creating activity repository")
	return &activityRepository{
		db:     db,
		logger: logger,
	}
}

// Append inserts one audit entry.
func (r *activityRepository) Append(ctx context.Context, entry models.ActivityEntry) error {
	log := logger.FromContext(ctx)

	_, err := r.db.ExecContext(ctx, appendActivityEntry,
		entry.UserID, entry.Action, entry.Outcome, entry.IPAddress, entry.Details)
	if err != nil {
		log.Err(err).Str("func", "*activityRepository.Append").Msg("error appending activity entry")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	return nil
}

// List returns audit entries matching the filter, newest first. The query
// is built dynamically because every filter field is optional.
func (r *activityRepository) List(ctx context.Context, filter models.ActivityFilter) ([]models.ActivityEntry, error) {
	log := logger.FromContext(ctx)

	limit := filter.Limit
	if limit == 0 {
		limit = defaultActivityLimit
	}

	builder := sq.
		Select("id", "user_id", "action", "outcome", "ip_address", "details", "created_at").
		From(models.ActivityEntry{}.TableName()).
		PlaceholderFormat(sq.Dollar).
		OrderBy("created_at DESC").
		Limit(limit)

	if filter.UserID != 0 {
		builder = builder.Where(sq.Eq{"user_id": filter.UserID})
	}
	if filter.Action != "" {
		builder = builder.Where(sq.Eq{"action": filter.Action})
	}
	if filter.Outcome != "" {
		builder = builder.Where(sq.Eq{"outcome": filter.Outcome})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		log.Err(err).Str("func", "*activityRepository.List").Msg("error building activity query")
		return nil, fmt.Errorf("error building sql query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*activityRepository.List").Msg("error querying activity entries")
		return nil, fmt.Errorf("unexpected DB error: %w", err)
	}
	defer rows.Close()

	var entries []models.ActivityEntry
	for rows.Next() {
		var entry models.ActivityEntry
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.Action, &entry.Outcome, &entry.IPAddress, &entry.Details, &entry.CreatedAt); err != nil {
			log.Err(err).Str("func", "*activityRepository.List").Msg("error scanning activity rows")
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected DB error: %w", err)
	}

	return entries, nil
}
