package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/coffeetrade/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const runLockKey = "batch:resync:lock"

// RedisRunLock serializes batch resync runs across instances using a
// Redis SETNX lock with a TTL. The TTL bounds how long a crashed run
// can block the next one.
type RedisRunLock struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisRunLock creates a run lock backed by a new Redis connection
func NewRedisRunLock(cfg RedisConfig, ttl time.Duration) (*RedisRunLock, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisRunLockWithClient(client, ttl), nil
}

// NewRedisRunLockWithClient creates a run lock over an existing Redis client
func NewRedisRunLockWithClient(client *redis.Client, ttl time.Duration) *RedisRunLock {
	return &RedisRunLock{
		client: client,
		key:    runLockKey,
		ttl:    ttl,
	}
}

// Acquire takes the lock or returns shared.ErrResyncInProgress when
// another run holds it. The release function deletes the lock only if
// this holder still owns it, so an expired lock taken over by another
// run is not released from under it.
func (l *RedisRunLock) Acquire(ctx context.Context) (func(), error) {
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire resync lock: %w", err)
	}
	if !ok {
		return nil, shared.ErrResyncInProgress
	}

	release := func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		// Delete only when the value still matches our token.
		const script = `if redis.call("get", KEYS[1]) == ARGV[1] then return redis.call("del", KEYS[1]) else return 0 end`
		l.client.Eval(releaseCtx, script, []string{l.key}, token)
	}
	return release, nil
}

// Close closes the underlying Redis client
func (l *RedisRunLock) Close() error {
	return l.client.Close()
}

// InMemoryRunLock serializes resync runs within a single process.
// Used when Redis is not configured; sufficient for single-instance
// deployments.
type InMemoryRunLock struct {
	mu   sync.Mutex
	held bool
}

// NewInMemoryRunLock creates an in-memory run lock
func NewInMemoryRunLock() *InMemoryRunLock {
	return &InMemoryRunLock{}
}

// Acquire takes the lock or returns shared.ErrResyncInProgress
func (l *InMemoryRunLock) Acquire(_ context.Context) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held {
		return nil, shared.ErrResyncInProgress
	}
	l.held = true

	var once sync.Once
	release := func() {
		once.Do(func() {
			l.mu.Lock()
			l.held = false
			l.mu.Unlock()
		})
	}
	return release, nil
}
