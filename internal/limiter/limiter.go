// Package limiter implements the login-attempt rate limiter and IP-ban
// guard that gates every login request before credentials are checked.
//
// Failure counters and locks are ephemeral and live in Redis, where a
// single LPUSH or SET is the atomicity boundary, so concurrent failed
// attempts from the same (identifier, ip) pair never lose updates. IP bans
// are durable Postgres rows managed through [store.BanRepository]: they
// survive restarts and are lifted only by an operator.
package limiter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/egyw/foodify-auth/internal/config"
	"github.com/egyw/foodify-auth/internal/logger"
	"github.com/egyw/foodify-auth/internal/store"
	"github.com/egyw/foodify-auth/models"
	"github.com/redis/go-redis/v9"
)

// ErrLimiterUnavailable indicates the limiter state store is unreachable.
// The gate fails closed on it: a login attempt is not allowed through.
var ErrLimiterUnavailable = errors.New("limiter backend unavailable")

// banReason is the human-readable reason recorded with an escalated ban.
const banReason = "too many failed login attempts"

// LoginLimiter tracks failed login attempts per (identifier, ip) pair,
// locks the pair once the failure threshold is crossed, and escalates an IP
// to a durable ban when it keeps locking out accounts.
type LoginLimiter struct {
	redis  redis.UniversalClient
	bans   store.BanRepository
	cfg    config.Limiter
	logger *logger.Logger
}

// NewLoginLimiter constructs a [LoginLimiter] with the given policy.
func NewLoginLimiter(redisClient redis.UniversalClient, bans store.BanRepository, cfg config.Limiter, logger *logger.Logger) *LoginLimiter {
	logger.Debug().
		Int("failure_threshold", cfg.FailureThreshold).
		Dur("failure_window", cfg.FailureWindow).
		Dur("lock_duration", cfg.LockDuration()).
		Msg("creating login limiter")

	return &LoginLimiter{
		redis:  redisClient,
		bans:   bans,
		cfg:    cfg,
		logger: logger,
	}
}

// NewRedisClient connects to the limiter state store and verifies the
// connection with a ping.
func NewRedisClient(ctx context.Context, cfg config.Redis, log *logger.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		log.Err(err).Str("func", "NewRedisClient").Msg("error connecting redis (ping)")
		return nil, fmt.Errorf("%w: %v", ErrLimiterUnavailable, err)
	}
	log.Info().Str("func", "NewRedisClient").Msg("connected to redis successfully")

	return client, nil
}

func failuresKey(identifier, ip string) string {
	return "login:fail:" + identifier + ":" + ip
}

func lockKey(identifier, ip string) string {
	return "login:lock:" + identifier + ":" + ip
}

func lockedIdentifiersKey(ip string) string {
	return "login:lockids:" + ip
}

func lockoutCountKey(ip string) string {
	return "login:lockcount:" + ip
}

// CheckGate decides whether a login attempt may proceed. Order matters:
// a durable IP ban is checked first and wins over any per-identifier state.
//
// Any storage error fails closed: the attempt is rejected with
// [ErrLimiterUnavailable] (surfaced as a 500) rather than allowed through.
func (l *LoginLimiter) CheckGate(ctx context.Context, identifier, ip string) (models.GateDecision, error) {
	banned, err := l.bans.IsBanned(ctx, ip)
	if err != nil {
		return models.GateDecision{}, fmt.Errorf("%w: %v", ErrLimiterUnavailable, err)
	}
	if banned {
		return models.GateDecision{Banned: true}, nil
	}

	ttl, err := l.redis.PTTL(ctx, lockKey(identifier, ip)).Result()
	if err != nil {
		return models.GateDecision{}, fmt.Errorf("%w: %v", ErrLimiterUnavailable, err)
	}
	if ttl > 0 {
		return models.GateDecision{Locked: true, RetryAfter: ttl}, nil
	}

	return models.GateDecision{Allowed: true}, nil
}

// RecordFailure appends a failure timestamp for the pair. The LPUSH return
// value is the post-append count, so the threshold check needs no separate
// read. Crossing the threshold sets the lock, resets the counter, and feeds
// the escalation policy.
func (l *LoginLimiter) RecordFailure(ctx context.Context, identifier, ip string) error {
	log := logger.FromContext(ctx)

	key := failuresKey(identifier, ip)
	count, err := l.redis.LPush(ctx, key, time.Now().Format(time.RFC3339Nano)).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLimiterUnavailable, err)
	}

	if err := l.redis.Expire(ctx, key, l.cfg.FailureWindow).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrLimiterUnavailable, err)
	}

	if count < int64(l.cfg.FailureThreshold) {
		return nil
	}

	lock := l.redis.Set(ctx, lockKey(identifier, ip), "locked", l.cfg.LockDuration())
	if err := lock.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrLimiterUnavailable, err)
	}

	if err := l.redis.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrLimiterUnavailable, err)
	}

	log.Warn().
		Str("identifier", identifier).
		Str("ip", ip).
		Dur("lock_duration", l.cfg.LockDuration()).
		Msg("login attempts locked")

	return l.escalate(ctx, identifier, ip)
}

// RecordSuccess clears the failure history and any lock for the pair.
// It never touches IP ban state.
func (l *LoginLimiter) RecordSuccess(ctx context.Context, identifier, ip string) error {
	err := l.redis.Del(ctx, failuresKey(identifier, ip), lockKey(identifier, ip)).Err()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLimiterUnavailable, err)
	}
	return nil
}

// escalate counts lockouts per IP inside the ban window: the set of
// distinct locked identifiers and a total lockout counter. Crossing either
// configured threshold records a durable ban.
func (l *LoginLimiter) escalate(ctx context.Context, identifier, ip string) error {
	log := logger.FromContext(ctx)

	idsKey := lockedIdentifiersKey(ip)
	if err := l.redis.SAdd(ctx, idsKey, identifier).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrLimiterUnavailable, err)
	}
	if err := l.redis.Expire(ctx, idsKey, l.cfg.BanWindow).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrLimiterUnavailable, err)
	}

	distinct, err := l.redis.SCard(ctx, idsKey).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLimiterUnavailable, err)
	}

	countKey := lockoutCountKey(ip)
	total, err := l.redis.Incr(ctx, countKey).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLimiterUnavailable, err)
	}
	if total == 1 {
		if err := l.redis.Expire(ctx, countKey, l.cfg.BanWindow).Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrLimiterUnavailable, err)
		}
	}

	if distinct < int64(l.cfg.BanDistinctIdentifiers) && total < int64(l.cfg.BanTotalLockouts) {
		return nil
	}

	log.Warn().
		Str("ip", ip).
		Int64("distinct_identifiers", distinct).
		Int64("total_lockouts", total).
		Msg("escalating ip to ban")

	if err := l.bans.RecordBan(ctx, ip, banReason); err != nil {
		return err
	}

	// Escalation state has served its purpose once the ban is durable.
	return l.redis.Del(ctx, idsKey, countKey).Err()
}
