package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/egyw/foodify-auth/internal/logger"
	"github.com/egyw/foodify-auth/models"
	"github.com/jackc/pgerrcode"
)

// userRepository is the PostgreSQL-backed implementation of [UserRepository].
// It handles account creation, lookup, and the conditional single-field
// writes performed by the auth flows against the "users" table.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type userRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewUserRepository constructs a [UserRepository] backed by the provided
// database connection and logger.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// scanUser reads one full user row into a models.User.
func scanUser(row interface{ Scan(dest ...any) error }, user *models.User) error {
	return row.Scan(
		&user.UserID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.IsPremium,
		&user.PendingEmail,
		&user.OTP,
		&user.OTPExpiresAt,
		&user.RefreshToken,
		&user.CreatedAt,
	)
}

// CreateUser persists a new account record and returns the fully populated
// [models.User] with server-assigned fields (UserID, CreatedAt).
//
// Error handling:
//   - PostgreSQL unique_violation (23505) → [ErrIdentityAlreadyExists].
//   - Any other driver-level error → wrapped as "unexpected DB error".
//   - Scan failure → returned directly.
func (r *userRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, createUser, user.Username, user.Email, user.PasswordHash, user.Role)

	var created models.User
	if err := scanUser(row, &created); err != nil {
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error creating user")

		switch postgresError(err) {
		case pgerrcode.UniqueViolation:
			return models.User{}, ErrIdentityAlreadyExists
		case "":
			return models.User{}, err
		default:
			return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
		}
	}

	return created, nil
}

// FindByIdentifier retrieves the account whose username or email exactly
// matches the given identifier.
//
// An empty result set maps to [ErrNoUserWasFound]; any other driver-level
// error is wrapped as "unexpected DB error".
func (r *userRepository) FindByIdentifier(ctx context.Context, identifier string) (models.User, error) {
	return r.findOne(ctx, "*userRepository.FindByIdentifier", findUserByIdentifier, identifier)
}

// FindByID retrieves an account by its primary key.
func (r *userRepository) FindByID(ctx context.Context, userID int64) (models.User, error) {
	return r.findOne(ctx, "*userRepository.FindByID", findUserByID, userID)
}

// FindByRefreshToken retrieves the account currently holding the exact
// refresh-token value. This is a stored-value match, not a signature check;
// signature verification happens separately in the token issuer.
func (r *userRepository) FindByRefreshToken(ctx context.Context, token string) (models.User, error) {
	return r.findOne(ctx, "*userRepository.FindByRefreshToken", findUserByRefreshToken, token)
}

func (r *userRepository) findOne(ctx context.Context, caller, query string, arg any) (models.User, error) {
	log := logger.FromContext(ctx)

	var found models.User
	row := r.db.QueryRowContext(ctx, query, arg)

	if err := scanUser(row, &found); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNoUserWasFound
		}

		log.Err(err).Str("func", caller).Msg("error scanning user row")
		if code := postgresError(err); code != "" {
			return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
		}
		return models.User{}, err
	}

	return found, nil
}

// GetAllUsers returns every account record, ordered by id.
func (r *userRepository) GetAllUsers(ctx context.Context) ([]models.User, error) {
	log := logger.FromContext(ctx)

	rows, err := r.db.QueryContext(ctx, getAllUsers)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.GetAllUsers").Msg("error querying users")
		return nil, fmt.Errorf("unexpected DB error: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		if err := scanUser(rows, &user); err != nil {
			log.Err(err).Str("func", "*userRepository.GetAllUsers").Msg("error scanning user rows")
			return nil, err
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected DB error: %w", err)
	}

	return users, nil
}

// SetOTP attaches a one-time code and its expiry to the account in a single
// conditional write. Both fields are written together, preserving the
// both-set-or-both-null invariant.
func (r *userRepository) SetOTP(ctx context.Context, userID int64, code string, expiresAt time.Time) error {
	return r.exec(ctx, "*userRepository.SetOTP", setUserOTP, userID, code, expiresAt)
}

// ClearOTP nulls both OTP fields, consuming the code.
func (r *userRepository) ClearOTP(ctx context.Context, userID int64) error {
	return r.exec(ctx, "*userRepository.ClearOTP", clearUserOTP, userID)
}

// SetRefreshToken overwrites the single live refresh token for the account.
// Overwriting implicitly invalidates any previously issued token.
func (r *userRepository) SetRefreshToken(ctx context.Context, userID int64, token string) error {
	return r.exec(ctx, "*userRepository.SetRefreshToken", setUserRefreshToken, userID, token)
}

// ClearRefreshToken revokes the stored refresh token.
func (r *userRepository) ClearRefreshToken(ctx context.Context, userID int64) error {
	return r.exec(ctx, "*userRepository.ClearRefreshToken", clearUserRefreshToken, userID)
}

// UpdatePassword replaces the stored password hash.
func (r *userRepository) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	return r.exec(ctx, "*userRepository.UpdatePassword", updateUserPassword, userID, passwordHash)
}

// SetPendingEmail stages a new address for the email-change flow.
func (r *userRepository) SetPendingEmail(ctx context.Context, userID int64, email string) error {
	return r.exec(ctx, "*userRepository.SetPendingEmail", setUserPendingEmail, userID, email)
}

// PromotePendingEmail atomically moves pending_email into email and clears
// the staging field, returning the promoted address.
//
// Returns [ErrNoPendingEmail] when the account has no staged address, and
// [ErrIdentityAlreadyExists] when another account claimed the address since
// it was staged.
func (r *userRepository) PromotePendingEmail(ctx context.Context, userID int64) (string, error) {
	log := logger.FromContext(ctx)

	var email string
	err := r.db.QueryRowContext(ctx, promoteUserPendingEmail, userID).Scan(&email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNoPendingEmail
		}

		log.Err(err).Str("func", "*userRepository.PromotePendingEmail").Msg("error promoting pending email")
		if postgresError(err) == pgerrcode.UniqueViolation {
			return "", ErrIdentityAlreadyExists
		}
		return "", fmt.Errorf("unexpected DB error: %w", err)
	}

	return email, nil
}

// UpdateRole replaces the account role and returns the updated record.
// Returns [ErrNoUserWasFound] when no account has the given id.
func (r *userRepository) UpdateRole(ctx context.Context, userID int64, role string) (models.User, error) {
	log := logger.FromContext(ctx)

	var updated models.User
	row := r.db.QueryRowContext(ctx, updateUserRole, userID, role)
	if err := scanUser(row, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNoUserWasFound
		}

		log.Err(err).Str("func", "*userRepository.UpdateRole").Msg("error updating role")
		return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return updated, nil
}

// exec runs a fixed-shape UPDATE and requires exactly one affected row;
// zero rows means the target account does not exist.
func (r *userRepository) exec(ctx context.Context, caller, query string, args ...any) error {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", caller).Msg("error executing statement")

		switch postgresError(err) {
		case pgerrcode.UniqueViolation:
			return ErrIdentityAlreadyExists
		case "":
			return err
		default:
			return fmt.Errorf("unexpected DB error: %w", err)
		}
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNoUserWasFound
	}

	return nil
}
