package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/turtacn/TimebarKeeper/internal/application/scheduling"
	"github.com/turtacn/TimebarKeeper/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/TimebarKeeper/pkg/errors"
)

var (
	ErrLockNotAcquired = errors.New(errors.ErrCodeConflict, "failed to acquire lock")
	ErrLockNotHeld     = errors.New(errors.ErrCodeConflict, "lock not held by this owner")
)

// DistributedLock is a single-owner mutex backed by redis SET NX. The value
// is a random token so only the owner can release or extend.
type DistributedLock interface {
	Lock(ctx context.Context) error
	TryLock(ctx context.Context) (bool, error)
	Unlock(ctx context.Context) error
	Extend(ctx context.Context, ttl time.Duration) (bool, error)
}

type LockOption func(*lockConfig)

func WithLockTTL(ttl time.Duration) LockOption {
	return func(c *lockConfig) { c.ttl = ttl }
}

func WithRetryDelay(delay time.Duration) LockOption {
	return func(c *lockConfig) { c.retryDelay = delay }
}

func WithRetryCount(count int) LockOption {
	return func(c *lockConfig) { c.retryCount = count }
}

type lockConfig struct {
	ttl        time.Duration
	retryDelay time.Duration
	retryCount int
}

// LockFactory builds named mutexes on one redis client.
type LockFactory struct {
	client *Client
	log    logging.Logger
}

func NewLockFactory(client *Client, log logging.Logger) *LockFactory {
	return &LockFactory{client: client, log: log}
}

func (f *LockFactory) NewMutex(name string, opts ...LockOption) DistributedLock {
	cfg := lockConfig{
		ttl:        30 * time.Second,
		retryDelay: 100 * time.Millisecond,
		retryCount: 30,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &redisMutex{
		client: f.client,
		name:   name,
		value:  uuid.New().String(),
		config: cfg,
		logger: f.log,
	}
}

type redisMutex struct {
	client *Client
	name   string
	value  string
	config lockConfig
	logger logging.Logger
}

var mutexUnlockScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	else
		return 0
	end
`)

var mutexExtendScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("PEXPIRE", KEYS[1], ARGV[2])
	else
		return 0
	end
`)

func buildLockKey(name string) string {
	return "tbk:lock:" + name
}

func (m *redisMutex) Lock(ctx context.Context) error {
	key := buildLockKey(m.name)
	for i := 0; i < m.config.retryCount; i++ {
		success, err := m.client.GetUnderlyingClient().SetNX(ctx, key, m.value, m.config.ttl).Result()
		if err == nil && success {
			return nil
		}
		if err != nil && err != redis.Nil {
			return errors.Wrap(err, errors.ErrCodeCacheError, "failed to set lock")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(m.config.retryDelay):
		}
	}
	return ErrLockNotAcquired
}

func (m *redisMutex) TryLock(ctx context.Context) (bool, error) {
	success, err := m.client.GetUnderlyingClient().SetNX(ctx, buildLockKey(m.name), m.value, m.config.ttl).Result()
	if err != nil {
		return false, err
	}
	return success, nil
}

func (m *redisMutex) Unlock(ctx context.Context) error {
	res, err := mutexUnlockScript.Run(ctx, m.client.GetUnderlyingClient(), []string{buildLockKey(m.name)}, m.value).Result()
	if err != nil {
		return err
	}
	if res.(int64) == 0 {
		return ErrLockNotHeld
	}
	return nil
}

func (m *redisMutex) Extend(ctx context.Context, ttl time.Duration) (bool, error) {
	res, err := mutexExtendScript.Run(ctx, m.client.GetUnderlyingClient(), []string{buildLockKey(m.name)}, m.value, ttl.Milliseconds()).Result()
	if err != nil {
		return false, err
	}
	return res.(int64) == 1, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Case locker
// ─────────────────────────────────────────────────────────────────────────────

// caseLocker serializes reconciliation per case across service instances so
// concurrent attach/recalculate calls cannot interleave their todo upserts.
type caseLocker struct {
	factory *LockFactory
	log     logging.Logger
}

var _ scheduling.CaseLocker = (*caseLocker)(nil)

// NewCaseLocker adapts the lock factory to the scheduling engine's locking
// port.
func NewCaseLocker(factory *LockFactory, log logging.Logger) scheduling.CaseLocker {
	return &caseLocker{factory: factory, log: log.Named("case_locker")}
}

func (l *caseLocker) AcquireCase(ctx context.Context, caseID int64) (func(), error) {
	mu := l.factory.NewMutex(fmt.Sprintf("case:%d", caseID), WithLockTTL(15*time.Second))
	if err := mu.Lock(ctx); err != nil {
		return nil, err
	}
	return func() {
		if err := mu.Unlock(context.Background()); err != nil {
			l.log.Warn("failed to release case lock",
				logging.Int64("case_id", caseID), logging.Err(err))
		}
	}, nil
}

//Personal.AI order the ending
