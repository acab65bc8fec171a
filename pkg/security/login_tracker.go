package security

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// LoginTrackerConfig holds configuration for login tracking
type LoginTrackerConfig struct {
	MaxAttempts   int           // Failed attempts before block (default: 5)
	AttemptWindow time.Duration // Window for counting attempts (default: 15min)
	BlockDuration time.Duration // Block length once MaxAttempts is reached (default: 15min)
	UseIPTracking bool          // Also count by IP address
}

// DefaultLoginTrackerConfig returns sensible defaults
func DefaultLoginTrackerConfig() LoginTrackerConfig {
	return LoginTrackerConfig{
		MaxAttempts:   5,
		AttemptWindow: 15 * time.Minute,
		BlockDuration: 15 * time.Minute,
		UseIPTracking: true,
	}
}

// LoginTracker counts failed logins per identifier (username or email) and
// blocks the identifier once the limit is hit. Redis holds the counters when
// available; otherwise a process-local map is used.
type LoginTracker struct {
	config LoginTrackerConfig
	client *goredis.Client
	logger *SecurityLogger

	mu    sync.Mutex
	local map[string]*attemptEntry
	now   func() time.Time
}

type attemptEntry struct {
	count        int
	windowEnd    time.Time
	blockedUntil time.Time
}

// NewLoginTracker creates a tracker. client may be nil.
func NewLoginTracker(config LoginTrackerConfig, client *goredis.Client, logger *SecurityLogger) *LoginTracker {
	if logger == nil {
		logger = DefaultLogger()
	}
	return &LoginTracker{
		config: config,
		client: client,
		logger: logger,
		local:  make(map[string]*attemptEntry),
		now:    time.Now,
	}
}

// Redis key patterns
const (
	failLoginUserPrefix    = "fail:login:user:"
	failLoginIPPrefix      = "fail:login:ip:"
	blockedLoginUserPrefix = "blocked:login:user:"
)

// Lua script for atomic increment with TTL on first set
// KEYS[1] = counter key
// ARGV[1] = TTL in seconds
// Returns: current count after increment
const incrWithTTLScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
return count
`

func normalizeIdentifier(identifier string) string {
	return strings.ToLower(strings.TrimSpace(identifier))
}

// IsBlocked reports whether identifier is currently blocked.
func (lt *LoginTracker) IsBlocked(ctx context.Context, identifier string) (bool, error) {
	id := normalizeIdentifier(identifier)

	if lt.client == nil {
		lt.mu.Lock()
		defer lt.mu.Unlock()
		e, ok := lt.local[id]
		return ok && lt.now().Before(e.blockedUntil), nil
	}

	exists, err := lt.client.Exists(ctx, blockedLoginUserPrefix+id).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check block: %w", err)
	}
	return exists > 0, nil
}

// RecordFailedAttempt records a failed login and reports whether the identifier is now blocked.
func (lt *LoginTracker) RecordFailedAttempt(ctx context.Context, identifier, ip, userAgent, requestID string) (bool, int, error) {
	id := normalizeIdentifier(identifier)
	lt.logger.LogLoginFailed(ctx, identifier, ip, userAgent, requestID, "invalid_credentials")

	var count int
	if lt.client == nil {
		count = lt.incrementLocal(id)
	} else {
		var err error
		count, err = lt.atomicIncrement(ctx, failLoginUserPrefix+id, int(lt.config.AttemptWindow.Seconds()))
		if err != nil {
			return false, 0, fmt.Errorf("failed to increment counter: %w", err)
		}
		if lt.config.UseIPTracking && ip != "" {
			_, _ = lt.atomicIncrement(ctx, failLoginIPPrefix+ip, int(lt.config.AttemptWindow.Seconds())) // Best effort
		}
	}

	if count < lt.config.MaxAttempts {
		return false, count, nil
	}

	if err := lt.createBlock(ctx, id); err != nil {
		return true, count, err
	}
	lt.logger.LogBlockCreated(ctx, identifier, ip, int(lt.config.BlockDuration.Minutes()))
	return true, count, nil
}

// ClearAttempts clears failed login attempts on successful login
func (lt *LoginTracker) ClearAttempts(ctx context.Context, identifier, ip string) error {
	id := normalizeIdentifier(identifier)

	if lt.client == nil {
		lt.mu.Lock()
		delete(lt.local, id)
		lt.mu.Unlock()
		return nil
	}

	if err := lt.client.Del(ctx, failLoginUserPrefix+id).Err(); err != nil {
		return fmt.Errorf("failed to clear attempts: %w", err)
	}
	if lt.config.UseIPTracking && ip != "" {
		_ = lt.client.Del(ctx, failLoginIPPrefix+ip).Err() // Best effort
	}
	return nil
}

func (lt *LoginTracker) incrementLocal(id string) int {
	lt.mu.Lock()
	defer lt.mu.Unlock()

	now := lt.now()
	e, ok := lt.local[id]
	if !ok || now.After(e.windowEnd) {
		e = &attemptEntry{windowEnd: now.Add(lt.config.AttemptWindow), blockedUntil: blockedUntil(e)}
		lt.local[id] = e
	}
	e.count++
	return e.count
}

func blockedUntil(e *attemptEntry) time.Time {
	if e == nil {
		return time.Time{}
	}
	return e.blockedUntil
}

// atomicIncrement performs an atomic increment with TTL using Lua script
func (lt *LoginTracker) atomicIncrement(ctx context.Context, key string, ttlSeconds int) (int, error) {
	result, err := lt.client.Eval(ctx, incrWithTTLScript, []string{key}, ttlSeconds).Result()
	if err != nil {
		return 0, err
	}
	count, ok := result.(int64)
	if !ok {
		return 0, errors.New("unexpected result type from Lua script")
	}
	return int(count), nil
}

func (lt *LoginTracker) createBlock(ctx context.Context, id string) error {
	if lt.client == nil {
		lt.mu.Lock()
		if e, ok := lt.local[id]; ok {
			e.blockedUntil = lt.now().Add(lt.config.BlockDuration)
			e.count = 0
		}
		lt.mu.Unlock()
		return nil
	}

	if err := lt.client.Set(ctx, blockedLoginUserPrefix+id, "1", lt.config.BlockDuration).Err(); err != nil {
		return fmt.Errorf("failed to set block: %w", err)
	}
	return nil
}
