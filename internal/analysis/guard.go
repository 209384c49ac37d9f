package analysis

import (
	"context"
	"sync"
	"time"

	"github.com/truthcheck/truthcheck/internal/store/redisstore"
)

// Guard enforces the at-most-one-pending-analysis-per-user invariant.
// Acquire returns false when the user already has a pending job.
type Guard interface {
	Acquire(ctx context.Context, userID uint64) (bool, error)
	Release(ctx context.Context, userID uint64) error
}

// RedisGuard backs the busy flag with SETNX so the invariant holds across
// server and worker processes.
type RedisGuard struct {
	store *redisstore.Store
	ttl   time.Duration
}

func NewRedisGuard(store *redisstore.Store, ttl time.Duration) *RedisGuard {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &RedisGuard{store: store, ttl: ttl}
}

func (g *RedisGuard) Acquire(ctx context.Context, userID uint64) (bool, error) {
	return g.store.AcquireBusy(ctx, userID, g.ttl)
}

func (g *RedisGuard) Release(ctx context.Context, userID uint64) error {
	return g.store.ReleaseBusy(ctx, userID)
}

// MemoryGuard is a single-process Guard for tests.
type MemoryGuard struct {
	mu   sync.Mutex
	busy map[uint64]bool
}

func NewMemoryGuard() *MemoryGuard {
	return &MemoryGuard{busy: make(map[uint64]bool)}
}

func (g *MemoryGuard) Acquire(_ context.Context, userID uint64) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.busy[userID] {
		return false, nil
	}
	g.busy[userID] = true
	return true, nil
}

func (g *MemoryGuard) Release(_ context.Context, userID uint64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.busy, userID)
	return nil
}
