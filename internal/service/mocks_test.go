package service

import (
	"context"
	"sync"
	"time"

	"github.com/egyw/foodify-auth/internal/store"
	"github.com/egyw/foodify-auth/models"
)

// ─────────────────────────────────────────────
// Mock: store.UserRepository
// ─────────────────────────────────────────────

type mockUserRepository struct {
	createUserFn          func(ctx context.Context, user models.User) (models.User, error)
	findByIdentifierFn    func(ctx context.Context, identifier string) (models.User, error)
	findByIDFn            func(ctx context.Context, userID int64) (models.User, error)
	findByRefreshTokenFn  func(ctx context.Context, token string) (models.User, error)
	getAllUsersFn         func(ctx context.Context) ([]models.User, error)
	setOTPFn              func(ctx context.Context, userID int64, code string, expiresAt time.Time) error
	clearOTPFn            func(ctx context.Context, userID int64) error
	setRefreshTokenFn     func(ctx context.Context, userID int64, token string) error
	clearRefreshTokenFn   func(ctx context.Context, userID int64) error
	updatePasswordFn      func(ctx context.Context, userID int64, passwordHash string) error
	setPendingEmailFn     func(ctx context.Context, userID int64, email string) error
	promotePendingEmailFn func(ctx context.Context, userID int64) (string, error)
	updateRoleFn          func(ctx context.Context, userID int64, role string) (models.User, error)
}

func (m *mockUserRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	if m.createUserFn != nil {
		return m.createUserFn(ctx, user)
	}
	return user, nil
}

func (m *mockUserRepository) FindByIdentifier(ctx context.Context, identifier string) (models.User, error) {
	if m.findByIdentifierFn != nil {
		return m.findByIdentifierFn(ctx, identifier)
	}
	return models.User{}, store.ErrNoUserWasFound
}

func (m *mockUserRepository) FindByID(ctx context.Context, userID int64) (models.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, userID)
	}
	return models.User{}, store.ErrNoUserWasFound
}

func (m *mockUserRepository) FindByRefreshToken(ctx context.Context, token string) (models.User, error) {
	if m.findByRefreshTokenFn != nil {
		return m.findByRefreshTokenFn(ctx, token)
	}
	return models.User{}, store.ErrNoUserWasFound
}

func (m *mockUserRepository) GetAllUsers(ctx context.Context) ([]models.User, error) {
	if m.getAllUsersFn != nil {
		return m.getAllUsersFn(ctx)
	}
	return nil, nil
}

func (m *mockUserRepository) SetOTP(ctx context.Context, userID int64, code string, expiresAt time.Time) error {
	if m.setOTPFn != nil {
		return m.setOTPFn(ctx, userID, code, expiresAt)
	}
	return nil
}

func (m *mockUserRepository) ClearOTP(ctx context.Context, userID int64) error {
	if m.clearOTPFn != nil {
		return m.clearOTPFn(ctx, userID)
	}
	return nil
}

func (m *mockUserRepository) SetRefreshToken(ctx context.Context, userID int64, token string) error {
	if m.setRefreshTokenFn != nil {
		return m.setRefreshTokenFn(ctx, userID, token)
	}
	return nil
}

func (m *mockUserRepository) ClearRefreshToken(ctx context.Context, userID int64) error {
	if m.clearRefreshTokenFn != nil {
		return m.clearRefreshTokenFn(ctx, userID)
	}
	return nil
}

func (m *mockUserRepository) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	if m.updatePasswordFn != nil {
		return m.updatePasswordFn(ctx, userID, passwordHash)
	}
	return nil
}

func (m *mockUserRepository) SetPendingEmail(ctx context.Context, userID int64, email string) error {
	if m.setPendingEmailFn != nil {
		return m.setPendingEmailFn(ctx, userID, email)
	}
	return nil
}

func (m *mockUserRepository) PromotePendingEmail(ctx context.Context, userID int64) (string, error) {
	if m.promotePendingEmailFn != nil {
		return m.promotePendingEmailFn(ctx, userID)
	}
	return "", store.ErrNoPendingEmail
}

func (m *mockUserRepository) UpdateRole(ctx context.Context, userID int64, role string) (models.User, error) {
	if m.updateRoleFn != nil {
		return m.updateRoleFn(ctx, userID, role)
	}
	return models.User{}, store.ErrNoUserWasFound
}

// ─────────────────────────────────────────────
// Mock: LoginGate
// ─────────────────────────────────────────────

type mockLoginGate struct {
	checkGateFn func(ctx context.Context, identifier, ip string) (models.GateDecision, error)

	mu        sync.Mutex
	failures  int
	successes int
}

func (m *mockLoginGate) CheckGate(ctx context.Context, identifier, ip string) (models.GateDecision, error) {
	if m.checkGateFn != nil {
		return m.checkGateFn(ctx, identifier, ip)
	}
	return models.GateDecision{Allowed: true}, nil
}

func (m *mockLoginGate) RecordFailure(ctx context.Context, identifier, ip string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures++
	return nil
}

func (m *mockLoginGate) RecordSuccess(ctx context.Context, identifier, ip string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.successes++
	return nil
}

func (m *mockLoginGate) failureCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.failures
}

func (m *mockLoginGate) successCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.successes
}

// ─────────────────────────────────────────────
// Mock: OTPMailer
// ─────────────────────────────────────────────

type mockMailer struct {
	sendFn func(ctx context.Context, toEmail, otp string, ttl time.Duration) error

	mu    sync.Mutex
	sent  []string
	codes []string
}

func (m *mockMailer) SendOTPEmail(ctx context.Context, toEmail, otp string, ttl time.Duration) error {
	m.mu.Lock()
	m.sent = append(m.sent, toEmail)
	m.codes = append(m.codes, otp)
	m.mu.Unlock()

	if m.sendFn != nil {
		return m.sendFn(ctx, toEmail, otp, ttl)
	}
	return nil
}

func (m *mockMailer) lastRecipient() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return ""
	}
	return m.sent[len(m.sent)-1]
}

// ─────────────────────────────────────────────
// Mock: ActivityService
// ─────────────────────────────────────────────

type mockActivityService struct {
	mu      sync.Mutex
	entries []models.ActivityEntry
}

func (m *mockActivityService) Record(ctx context.Context, entry models.ActivityEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
}

func (m *mockActivityService) List(ctx context.Context, filter models.ActivityFilter) ([]models.ActivityEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries, nil
}

func (m *mockActivityService) recorded() []models.ActivityEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.ActivityEntry, len(m.entries))
	copy(out, m.entries)
	return out
}
